// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/product-inventory/internal/i18n"
	"github.com/javajoker/product-inventory/internal/services"
	"github.com/javajoker/product-inventory/internal/utils"
)

const oauthStateCookie = "oauth_state"

// SessionCookie describes the cookie that carries the session credential.
type SessionCookie struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

type AuthHandler struct {
	authService  *services.AuthService
	oauthService *services.OAuthService
	cookie       SessionCookie
	frontendURL  string
}

func NewAuthHandler(authService *services.AuthService, oauthService *services.OAuthService, cookie SessionCookie, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		oauthService: oauthService,
		cookie:       cookie,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, i18n.ResourceUser)
		return
	}

	h.setSessionCookie(c, authResponse.Token)
	utils.CreatedResponse(c, authResponse)
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, i18n.ResourceUser)
		return
	}

	h.setSessionCookie(c, authResponse.Token)
	utils.SuccessResponse(c, gin.H{"user": authResponse.User})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		// A valid credential for a user that no longer exists.
		if errors.Is(err, services.ErrNotFound) {
			utils.UnauthorizedResponse(c, "")
			return
		}
		respondError(c, err, i18n.ResourceUser)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	utils.SuccessResponse(c, gin.H{"success": true})
}

// GET /auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if !h.oauthService.Enabled() {
		lang := utils.GetLangFromContext(c)
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyAuthOAuthDisabled), nil)
		return
	}

	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/auth/google", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, h.oauthService.AuthCodeURL(state))
}

// GET /auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if !h.oauthService.Enabled() {
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyAuthOAuthDisabled), nil)
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthOAuthState))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", h.cookie.Secure, true)

	code := c.Query("code")
	if code == "" {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthOAuthFailed))
		return
	}

	profile, err := h.oauthService.Exchange(c.Request.Context(), code)
	if err != nil {
		logrus.WithError(err).Warn("Google OAuth exchange failed")
		if errors.Is(err, services.ErrUnauthorized) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthOAuthFailed))
			return
		}
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyAuthOAuthFailed))
		return
	}

	authResponse, err := h.authService.FindOrCreateOAuthUser(c.Request.Context(), *profile)
	if err != nil {
		respondError(c, err, i18n.ResourceUser)
		return
	}

	h.setSessionCookie(c, authResponse.Token)
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback?token="+url.QueryEscape(authResponse.Token))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
}
