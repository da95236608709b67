package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/javajoker/product-inventory/internal/config"
)

func newFakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if r.ParseForm() != nil || r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"email":          "g@example.com",
			"email_verified": true,
			"name":           "Google User",
			"picture":        "https://example.com/me.png",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testOAuthConfig() config.OAuthConfig {
	return config.OAuthConfig{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleCallbackURL:  "http://localhost:4000/auth/google/callback",
	}
}

func TestOAuthServiceDisabledWithoutCredentials(t *testing.T) {
	s := NewGoogleOAuthService(config.OAuthConfig{})
	assert.False(t, s.Enabled())

	_, err := s.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOAuthServiceAuthCodeURL(t *testing.T) {
	s := NewGoogleOAuthService(testOAuthConfig())
	require.True(t, s.Enabled())

	u, err := url.Parse(s.AuthCodeURL("state-abc"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "http://localhost:4000/auth/google/callback", q.Get("redirect_uri"))
}

func TestOAuthServiceExchange(t *testing.T) {
	server := newFakeGoogle(t)
	s := newOAuthService(testOAuthConfig(), oauth2.Endpoint{
		AuthURL:   server.URL + "/auth",
		TokenURL:  server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}, server.URL+"/userinfo")

	profile, err := s.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, &OAuthProfile{
		Email:   "g@example.com",
		Name:    "Google User",
		Picture: "https://example.com/me.png",
	}, profile)

	_, err = s.Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
