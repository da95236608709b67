package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/product-inventory/internal/config"
	"github.com/javajoker/product-inventory/internal/utils"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *utils.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := utils.NewJWTManager(config.JWTConfig{SecretKey: "test-secret", SessionTTL: 1})
	auth := NewAuthenticator(jwt, "token")

	whoami := func(c *gin.Context) {
		userID, ok := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "authenticated": ok})
	}

	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/private", auth.Required(), whoami)
	r.GET("/public", auth.Optional(), whoami)
	return r, jwt
}

func TestRequiredRejectsMissingCredential(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/private", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body utils.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 401, body.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Error)
}

func TestRequiredRejectsInvalidToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequiredAcceptsBearerAndCookie(t *testing.T) {
	r, jwt := newAuthRouter(t)

	bearer, err := jwt.Generate(5, "bearer@example.com", "USER")
	require.NoError(t, err)
	cookie, err := jwt.Generate(9, "cookie@example.com", "USER")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":5,"authenticated":true}`, w.Body.String())

	// The cookie wins when both are sent.
	req = httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":9,"authenticated":true}`, w.Body.String())
}

func TestInvalidCookieFallsBackToBearer(t *testing.T) {
	r, jwt := newAuthRouter(t)

	foreign := utils.NewJWTManager(config.JWTConfig{SecretKey: "other-secret", SessionTTL: 1})
	stale, err := foreign.Generate(9, "stale@example.com", "USER")
	require.NoError(t, err)
	bearer, err := jwt.Generate(5, "bearer@example.com", "USER")
	require.NoError(t, err)

	for _, path := range []string{"/private", "/public"} {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+bearer)
		req.AddCookie(&http.Cookie{Name: "token", Value: stale})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"userId":5,"authenticated":true}`, w.Body.String(), path)
	}

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: stale})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalLetsAnonymousThrough(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":0,"authenticated":false}`, w.Body.String())
}
