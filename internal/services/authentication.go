package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/repositories"
)

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// authenticationService implements AuthenticationService
type authenticationService struct {
	logger      *logger.Logger
	userRepo    repositories.UserRepository
	companyRepo repositories.CompanyRepository
	sessions    *SessionStore
	validate    *validator.Validate
	jwtSecret   []byte
	tokenTTL    time.Duration
	resetTTL    time.Duration

	// Sliding one-minute window of login attempts per email
	attemptLimit int
	attemptsMu   sync.Mutex
	attempts     map[string][]time.Time
}

// NewAuthenticationService creates a new authentication service
func NewAuthenticationService(
	logger *logger.Logger,
	cfg *config.Config,
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	sessions *SessionStore,
) AuthenticationService {
	return &authenticationService{
		logger:       logger,
		userRepo:     userRepo,
		companyRepo:  companyRepo,
		sessions:     sessions,
		validate:     validator.New(),
		jwtSecret:    []byte(cfg.Auth.JWTSecret),
		tokenTTL:     time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
		resetTTL:     time.Duration(cfg.Auth.ResetLinkTTL) * time.Hour,
		attemptLimit: cfg.Auth.MaxLoginPerMin,
		attempts:     make(map[string][]time.Time),
	}
}

// Login authenticates a user by email and password. On success it records
// the login time, issues a JWT and registers a session bound to the user's
// company. Failures surface as AuthError with a stable code.
func (s *authenticationService) Login(ctx context.Context, email, password string) (*SessionContext, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, NewAuthError(AuthCodeInvalidEmail, "malformed email address")
	}

	if !s.allowAttempt(email) {
		s.logger.WithField("email", email).Warn("Login rate limit exceeded")
		return nil, NewAuthError(AuthCodeTooManyRequests, "too many login attempts, try again later")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.WithField("email", email).Warn("Login for unknown user")
			return nil, NewAuthError(AuthCodeUserNotFound, "no account for this email")
		}
		return nil, NewTransportError("login", err)
	}

	if !user.IsActive {
		s.logger.WithUser(user.ID).Warn("Login attempt for disabled account")
		return nil, NewAuthError(AuthCodeUserDisabled, "account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WithUser(user.ID).Warn("Login with wrong password")
		return nil, NewAuthError(AuthCodeWrongPassword, "wrong password")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		// Login still succeeds; the stale timestamp only affects the
		// recent-activity statistic.
		s.logger.WithUser(user.ID).WithError(err).Warn("Failed to record login time")
	}

	token, expiresAt, err := s.GenerateJWT(ctx, user)
	if err != nil {
		return nil, NewTransportError("login", err)
	}

	session := &SessionContext{
		CurrentUser: user,
		Token:       token,
		IssuedAt:    now,
		ExpiresAt:   expiresAt,
	}

	if user.CompanyID != "" {
		company, err := s.companyRepo.GetByID(ctx, user.CompanyID)
		if err != nil {
			s.logger.WithUser(user.ID).WithError(err).Warn("Failed to load company for session")
		} else {
			session.SelectedCompany = company
		}
	}

	s.sessions.Put(session)

	s.logger.WithUser(user.ID).
		WithField("company_id", user.CompanyID).
		Info("User logged in")
	return session, nil
}

// Logout invalidates the session for a token. Logging out an unknown or
// already-expired token is a no-op.
func (s *authenticationService) Logout(ctx context.Context, token string) error {
	s.sessions.Remove(token)
	return nil
}

// ResetPassword starts the password reset flow for an email address. The
// reset link is generated and logged; dispatching it is a mail concern
// outside this service.
func (s *authenticationService) ResetPassword(ctx context.Context, email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return NewAuthError(AuthCodeInvalidEmail, "malformed email address")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Quietly succeed so the endpoint never confirms whether an
			// account exists.
			s.logger.WithField("email", email).Info("Password reset for unknown email")
			return nil
		}
		return NewTransportError("reset password", err)
	}

	// The reset link carries a signed short-lived token so the redeem step
	// can verify it without storing anything.
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID,
		Issuer:    "driftpro-admin-reset",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTTL)),
	}
	resetToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return NewTransportError("reset password", err)
	}

	s.logger.WithUser(user.ID).
		WithField("reset_token", resetToken).
		Info("Password reset requested")

	return nil
}

// SessionFromToken validates a JWT and returns the live session for it. A
// valid token whose session was invalidated by logout is rejected.
func (s *authenticationService) SessionFromToken(ctx context.Context, tokenString string) (*SessionContext, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to parse JWT token")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	session := s.sessions.Get(tokenString)
	if session == nil {
		return nil, ErrNoSession
	}

	// Re-read the user so a deactivation takes effect immediately
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		s.sessions.Remove(tokenString)
		return nil, ErrUnauthorized
	}
	session.CurrentUser = user

	return session, nil
}

// GenerateJWT generates a signed token for a user
func (s *authenticationService) GenerateJWT(ctx context.Context, user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := JWTClaims{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "driftpro-admin",
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.WithUser(user.ID).WithError(err).Error("Failed to sign JWT token")
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// HashPassword hashes a password using bcrypt
func (s *authenticationService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// allowAttempt records a login attempt for an email and reports whether it
// stays within the per-minute budget
func (s *authenticationService) allowAttempt(email string) bool {
	if s.attemptLimit <= 0 {
		return true
	}

	s.attemptsMu.Lock()
	defer s.attemptsMu.Unlock()

	cutoff := time.Now().Add(-time.Minute)
	recent := s.attempts[email][:0]
	for _, t := range s.attempts[email] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= s.attemptLimit {
		s.attempts[email] = recent
		return false
	}

	s.attempts[email] = append(recent, time.Now())
	return true
}
