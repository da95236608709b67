// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/product-inventory/internal/i18n"
	"github.com/javajoker/product-inventory/internal/utils"
)

// Authenticator resolves the session credential from the session cookie or,
// when that is absent or invalid, from an "Authorization: Bearer" header.
type Authenticator struct {
	jwt        *utils.JWTManager
	cookieName string
}

func NewAuthenticator(jwt *utils.JWTManager, cookieName string) *Authenticator {
	if cookieName == "" {
		cookieName = "token"
	}
	return &Authenticator{jwt: jwt, cookieName: cookieName}
}

// credentials lists the presented tokens, cookie first.
func (a *Authenticator) credentials(c *gin.Context) []string {
	var tokens []string
	if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
		tokens = append(tokens, cookie)
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if token := strings.TrimSpace(parts[1]); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// authenticate returns the claims of the first valid credential. presented
// reports whether any credential was sent at all.
func (a *Authenticator) authenticate(c *gin.Context) (claims *utils.SessionClaims, presented bool) {
	tokens := a.credentials(c)
	for _, token := range tokens {
		if claims, err := a.jwt.Validate(token); err == nil {
			return claims, true
		}
	}
	return nil, len(tokens) > 0
}

func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		claims, presented := a.authenticate(c)
		if claims == nil {
			key := i18n.KeyAuthRequired
			if presented {
				key = i18n.KeyAuthInvalidToken
			}
			utils.UnauthorizedResponse(c, i18n.T(lang, key))
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// Optional attaches the identity when a valid credential is present and
// lets the request through either way.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := a.authenticate(c); claims != nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *utils.SessionClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}
