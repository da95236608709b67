package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/product-inventory/internal/config"
	"github.com/javajoker/product-inventory/internal/models"
	"github.com/javajoker/product-inventory/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	jwt   *utils.JWTManager
	users *UserService
	auth  *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = openTestDB(suite.T())
	suite.jwt = utils.NewJWTManager(config.JWTConfig{SecretKey: "test-secret", SessionTTL: 168, Issuer: "test"})
	suite.users = NewUserService(suite.db)
	suite.auth = NewAuthService(suite.users, suite.jwt)
}

func (suite *AuthServiceTestSuite) register(email, password string) *AuthResponse {
	resp, err := suite.auth.Register(suite.ctx, &RegisterRequest{Email: email, Password: password, Name: "Test User"})
	suite.Require().NoError(err)
	return resp
}

func (suite *AuthServiceTestSuite) TestRegisterIssuesSession() {
	resp := suite.register("New@Example.com ", "password123")

	assert.NotZero(suite.T(), resp.User.ID)
	assert.Equal(suite.T(), "new@example.com", resp.User.Email)
	assert.Equal(suite.T(), models.RoleUser, resp.User.Role)

	claims, err := suite.jwt.Validate(resp.Token)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), resp.User.ID, claims.UserID)
	assert.Equal(suite.T(), "new@example.com", claims.Email)
	assert.Equal(suite.T(), "USER", claims.Role)

	var stored models.User
	suite.Require().NoError(suite.db.First(&stored, resp.User.ID).Error)
	suite.Require().NotNil(stored.PasswordHash)
	assert.NotEqual(suite.T(), "password123", *stored.PasswordHash)
}

func (suite *AuthServiceTestSuite) TestRegisterConflict() {
	suite.register("user@example.com", "password123")

	_, err := suite.auth.Register(suite.ctx, &RegisterRequest{Email: "USER@example.com", Password: "password456", Name: "Other"})
	assert.ErrorIs(suite.T(), err, ErrConflict)
}

func (suite *AuthServiceTestSuite) TestRegisterValidation() {
	_, err := suite.auth.Register(suite.ctx, &RegisterRequest{Email: "not-an-email", Password: "password123", Name: "x"})
	assert.ErrorIs(suite.T(), err, ErrValidation)

	_, err = suite.auth.Register(suite.ctx, &RegisterRequest{Email: "a@example.com", Password: "123", Name: "x"})
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	registered := suite.register("user@example.com", "password123")

	resp, err := suite.auth.Login(suite.ctx, &LoginRequest{Email: "user@example.com", Password: "password123"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), registered.User.ID, resp.User.ID)
	assert.NotEmpty(suite.T(), resp.Token)

	_, err = suite.auth.Login(suite.ctx, &LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	assert.ErrorIs(suite.T(), err, ErrUnauthorized)

	_, err = suite.auth.Login(suite.ctx, &LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(suite.T(), err, ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestOAuthUserCannotUsePasswordLogin() {
	_, err := suite.auth.FindOrCreateOAuthUser(suite.ctx, OAuthProfile{Email: "g@example.com", Name: "G"})
	suite.Require().NoError(err)

	_, err = suite.auth.Login(suite.ctx, &LoginRequest{Email: "g@example.com", Password: "anything"})
	assert.ErrorIs(suite.T(), err, ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestFindOrCreateOAuthUser() {
	first, err := suite.auth.FindOrCreateOAuthUser(suite.ctx, OAuthProfile{
		Email:   "g@example.com",
		Name:    "Google User",
		Picture: "https://example.com/me.png",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Google User", first.User.Name)
	suite.Require().NotNil(first.User.ImageURL)
	assert.Equal(suite.T(), "https://example.com/me.png", *first.User.ImageURL)

	second, err := suite.auth.FindOrCreateOAuthUser(suite.ctx, OAuthProfile{Email: "G@example.com", Name: "Renamed"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), first.User.ID, second.User.ID)
	assert.Equal(suite.T(), "Google User", second.User.Name)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *AuthServiceTestSuite) TestFindOrCreateOAuthUserLinksExistingAccount() {
	registered := suite.register("user@example.com", "password123")

	resp, err := suite.auth.FindOrCreateOAuthUser(suite.ctx, OAuthProfile{Email: "user@example.com", Name: "G"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), registered.User.ID, resp.User.ID)

	_, err = suite.auth.FindOrCreateOAuthUser(suite.ctx, OAuthProfile{Name: "No Email"})
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *AuthServiceTestSuite) TestGetUserByID() {
	registered := suite.register("user@example.com", "password123")

	user, err := suite.auth.GetUserByID(suite.ctx, registered.User.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), registered.User, *user)

	_, err = suite.auth.GetUserByID(suite.ctx, 999)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *AuthServiceTestSuite) TestSetPassword() {
	suite.register("user@example.com", "password123")

	suite.Require().NoError(suite.users.SetPassword(suite.ctx, &SetPasswordRequest{Email: "user@example.com", Password: "new-password"}))

	_, err := suite.auth.Login(suite.ctx, &LoginRequest{Email: "user@example.com", Password: "password123"})
	assert.ErrorIs(suite.T(), err, ErrUnauthorized)
	_, err = suite.auth.Login(suite.ctx, &LoginRequest{Email: "user@example.com", Password: "new-password"})
	assert.NoError(suite.T(), err)

	err = suite.users.SetPassword(suite.ctx, &SetPasswordRequest{Email: "nobody@example.com", Password: "new-password"})
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	err = suite.users.SetPassword(suite.ctx, &SetPasswordRequest{Email: "user@example.com", Password: "x"})
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *AuthServiceTestSuite) TestEnsureAdmin() {
	admin, err := suite.users.EnsureAdmin(suite.ctx, "admin@example.com", "Admin", "admin-pass")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleAdmin, admin.Role)

	resp, err := suite.auth.Login(suite.ctx, &LoginRequest{Email: "admin@example.com", Password: "admin-pass"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleAdmin, resp.User.Role)

	// Promotes an existing account and keeps its password when none is given.
	suite.register("user@example.com", "password123")
	promoted, err := suite.users.EnsureAdmin(suite.ctx, "user@example.com", "ignored", "")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleAdmin, promoted.Role)

	_, err = suite.auth.Login(suite.ctx, &LoginRequest{Email: "user@example.com", Password: "password123"})
	assert.NoError(suite.T(), err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
