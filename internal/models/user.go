// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name         string  `json:"name" gorm:"size:255;not null"`
	PasswordHash *string `json:"-" gorm:"column:password;size:255"`
	Role         Role    `json:"role" gorm:"type:varchar(20);not null"`
	ImageURL     *string `json:"imageUrl,omitempty" gorm:"column:image_url;size:1024"`
}

// PublicUser is the view of a user that is safe to return to clients.
type PublicUser struct {
	ID       uint    `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     Role    `json:"role"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hash := string(hashedPassword)
	u.PasswordHash = &hash
	return nil
}

// CheckPassword fails for users created through an external identity provider.
func (u *User) CheckPassword(password string) error {
	if !u.HasPassword() {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password))
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		ImageURL: u.ImageURL,
	}
}
