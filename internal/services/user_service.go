// internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/product-inventory/internal/models"
)

type UserService struct {
	db *gorm.DB
}

type SetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// Create inserts user, reporting ErrConflict when the email is taken.
func (s *UserService) Create(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("user %q: %w", user.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserService) SetPassword(ctx context.Context, req *SetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.Password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(user).Update("password", user.PasswordHash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("Password updated")
	return nil
}

// EnsureAdmin makes sure a user with email exists and has the ADMIN role.
// A non-empty password replaces the current one.
func (s *UserService) EnsureAdmin(ctx context.Context, email, name, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		user = &models.User{Email: email, Name: name, Role: models.RoleAdmin}
		if password != "" {
			if err := user.SetPassword(password); err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
		}
		if err := s.Create(ctx, user); err != nil {
			return nil, err
		}
		logrus.WithField("email", user.Email).Info("Admin user created")
		return user, nil
	case err != nil:
		return nil, err
	}

	updates := map[string]interface{}{"role": models.RoleAdmin}
	if password != "" {
		if err := user.SetPassword(password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = user.PasswordHash
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update admin user: %w", err)
	}
	user.Role = models.RoleAdmin
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
