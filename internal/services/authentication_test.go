package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

func newAuthFixture(maxLoginPerMin int) (AuthenticationService, *MockUserRepository, *MockCompanyRepository, *SessionStore) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1
	cfg.Auth.ResetLinkTTL = 1
	cfg.Auth.MaxLoginPerMin = maxLoginPerMin

	userRepo := new(MockUserRepository)
	companyRepo := new(MockCompanyRepository)
	sessions := NewSessionStore()

	svc := NewAuthenticationService(createTestLogger(), cfg, userRepo, companyRepo, sessions)
	return svc, userRepo, companyRepo, sessions
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	svc, userRepo, companyRepo, sessions := newAuthFixture(0)

	user := &models.User{
		ID:           "u1",
		CompanyID:    "c1",
		Email:        "ola@acme.no",
		Role:         models.RoleAdmin,
		IsActive:     true,
		PasswordHash: hashOf(t, "hunter22"),
	}

	userRepo.On("GetByEmail", context.Background(), "ola@acme.no").Return(user, nil)
	userRepo.On("Update", context.Background(), mock.AnythingOfType("*models.User")).Return(nil)
	companyRepo.On("GetByID", context.Background(), "c1").
		Return(&models.Company{ID: "c1", Name: "Acme AS"}, nil)

	session, err := svc.Login(context.Background(), "ola@acme.no", "hunter22")

	require.NoError(t, err)
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "c1", session.CompanyID())
	assert.NotEmpty(t, session.Token)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, 1, sessions.Count())
}

func TestLoginInvalidEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(0)

	_, err := svc.Login(context.Background(), "not-an-email", "whatever")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthCodeInvalidEmail, authErr.Code)
}

func TestLoginUserNotFound(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(0)

	userRepo.On("GetByEmail", context.Background(), "ghost@acme.no").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), "ghost@acme.no", "whatever")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthCodeUserNotFound, authErr.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(0)

	userRepo.On("GetByEmail", context.Background(), "ola@acme.no").
		Return(&models.User{ID: "u1", Email: "ola@acme.no", IsActive: false}, nil)

	_, err := svc.Login(context.Background(), "ola@acme.no", "whatever")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthCodeUserDisabled, authErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(0)

	userRepo.On("GetByEmail", context.Background(), "ola@acme.no").
		Return(&models.User{
			ID:           "u1",
			Email:        "ola@acme.no",
			IsActive:     true,
			PasswordHash: hashOf(t, "correct"),
		}, nil)

	_, err := svc.Login(context.Background(), "ola@acme.no", "incorrect")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthCodeWrongPassword, authErr.Code)
}

func TestLoginRateLimited(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(2)

	userRepo.On("GetByEmail", context.Background(), "ola@acme.no").
		Return(&models.User{
			ID:           "u1",
			Email:        "ola@acme.no",
			IsActive:     true,
			PasswordHash: hashOf(t, "correct"),
		}, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), "ola@acme.no", "incorrect")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, AuthCodeWrongPassword, authErr.Code)
	}

	_, err := svc.Login(context.Background(), "ola@acme.no", "incorrect")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, AuthCodeTooManyRequests, authErr.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	svc, userRepo, companyRepo, sessions := newAuthFixture(0)

	user := &models.User{
		ID:           "u1",
		CompanyID:    "c1",
		Email:        "ola@acme.no",
		IsActive:     true,
		PasswordHash: hashOf(t, "hunter22"),
	}
	userRepo.On("GetByEmail", context.Background(), "ola@acme.no").Return(user, nil)
	userRepo.On("Update", context.Background(), mock.AnythingOfType("*models.User")).Return(nil)
	companyRepo.On("GetByID", context.Background(), "c1").
		Return(&models.Company{ID: "c1"}, nil)

	session, err := svc.Login(context.Background(), "ola@acme.no", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.Token))
	assert.Equal(t, 0, sessions.Count())

	// Logging out twice is a no-op
	assert.NoError(t, svc.Logout(context.Background(), session.Token))
}

func TestSessionFromTokenRejectsLoggedOutToken(t *testing.T) {
	svc, userRepo, companyRepo, _ := newAuthFixture(0)

	user := &models.User{
		ID:           "u1",
		CompanyID:    "c1",
		Email:        "ola@acme.no",
		IsActive:     true,
		PasswordHash: hashOf(t, "hunter22"),
	}
	userRepo.On("GetByEmail", context.Background(), "ola@acme.no").Return(user, nil)
	userRepo.On("Update", context.Background(), mock.AnythingOfType("*models.User")).Return(nil)
	userRepo.On("GetByID", context.Background(), "u1").Return(user, nil)
	companyRepo.On("GetByID", context.Background(), "c1").
		Return(&models.Company{ID: "c1"}, nil)

	session, err := svc.Login(context.Background(), "ola@acme.no", "hunter22")
	require.NoError(t, err)

	restored, err := svc.SessionFromToken(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", restored.UserID())

	require.NoError(t, svc.Logout(context.Background(), session.Token))

	_, err = svc.SessionFromToken(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionFromTokenGarbage(t *testing.T) {
	svc, _, _, _ := newAuthFixture(0)

	_, err := svc.SessionFromToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.SessionFromToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordUnknownEmailSucceedsQuietly(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(0)

	userRepo.On("GetByEmail", context.Background(), "ghost@acme.no").
		Return(nil, gorm.ErrRecordNotFound)

	// The caller must not learn whether the account exists
	assert.NoError(t, svc.ResetPassword(context.Background(), "ghost@acme.no"))
}

func TestResetPasswordKnownEmail(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(0)

	userRepo.On("GetByEmail", context.Background(), "ola@acme.no").
		Return(&models.User{ID: "u1", Email: "ola@acme.no"}, nil)

	assert.NoError(t, svc.ResetPassword(context.Background(), "ola@acme.no"))
}
