// internal/services/oauth_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/javajoker/product-inventory/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthService runs the authorization-code flow against Google.
type OAuthService struct {
	config      *oauth2.Config
	userInfoURL string
}

type googleUserInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewGoogleOAuthService returns a disabled service when no client
// credentials are configured.
func NewGoogleOAuthService(cfg config.OAuthConfig) *OAuthService {
	return newOAuthService(cfg, endpoints.Google, googleUserInfoURL)
}

func newOAuthService(cfg config.OAuthConfig, endpoint oauth2.Endpoint, userInfoURL string) *OAuthService {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return &OAuthService{}
	}

	return &OAuthService{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

func (s *OAuthService) Enabled() bool {
	return s.config != nil
}

func (s *OAuthService) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the user's profile.
func (s *OAuthService) Exchange(ctx context.Context, code string) (*OAuthProfile, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("oauth is not configured: %w", ErrNotFound)
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %v: %w", err, ErrUnauthorized)
	}

	resp, err := s.config.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned %d: %w", resp.StatusCode, ErrUnauthorized)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &OAuthProfile{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
