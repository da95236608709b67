// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/product-inventory/internal/models"
	"github.com/javajoker/product-inventory/internal/utils"
)

type AuthService struct {
	users *UserService
	jwt   *utils.JWTManager
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,notblank,max=255"`
}

// OAuthProfile is the identity returned by an external provider.
type OAuthProfile struct {
	Email   string
	Name    string
	Picture string
}

type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func NewAuthService(users *UserService, jwt *utils.JWTManager) *AuthService {
	return &AuthService{
		users: users,
		jwt:   jwt,
	}
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user %q: %w", req.Email, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		Email: req.Email,
		Name:  strings.TrimSpace(req.Name),
		Role:  models.RoleUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("User registered")
	return s.issue(user)
}

// Login fails with ErrUnauthorized for unknown emails, wrong passwords and
// accounts that only sign in through an external provider.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, err
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	return s.issue(user)
}

func (s *AuthService) FindOrCreateOAuthUser(ctx context.Context, profile OAuthProfile) (*AuthResponse, error) {
	email := normalizeEmail(profile.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: identity provider returned no email", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		user = &models.User{
			Email: email,
			Name:  profile.Name,
			Role:  models.RoleUser,
		}
		if user.Name == "" {
			user.Name = strings.SplitN(email, "@", 2)[0]
		}
		if profile.Picture != "" {
			picture := profile.Picture
			user.ImageURL = &picture
		}

		err = s.users.Create(ctx, user)
		if errors.Is(err, ErrConflict) {
			// Another login for the same account created it first.
			user, err = s.users.GetByEmail(ctx, email)
		} else if err == nil {
			logrus.WithField("user_id", user.ID).Info("User created from OAuth login")
		}
	}
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}
