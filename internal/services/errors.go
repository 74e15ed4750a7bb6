package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common domain conditions
var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrAbsenceNotFound      = errors.New("absence not found")
	ErrDeviationNotFound    = errors.New("deviation not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAbsenceDecided       = errors.New("absence has already been decided")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrNoSession            = errors.New("no active session")
	ErrFeatureDisabled      = errors.New("feature disabled for company")
	ErrCacheMiss            = errors.New("cache miss")
)

// AuthError codes. They mirror the failure modes the login flow can surface
// so callers can branch on them without string matching.
const (
	AuthCodeUserNotFound    = "user-not-found"
	AuthCodeWrongPassword   = "wrong-password"
	AuthCodeInvalidEmail    = "invalid-email"
	AuthCodeTooManyRequests = "too-many-requests"
	AuthCodeUserDisabled    = "user-disabled"
)

// AuthError represents an authentication failure with a stable code
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%s): %s", e.Code, e.Message)
}

// StatusCode maps the auth code to an HTTP status
func (e *AuthError) StatusCode() int {
	switch e.Code {
	case AuthCodeTooManyRequests:
		return http.StatusTooManyRequests
	case AuthCodeInvalidEmail:
		return http.StatusBadRequest
	default:
		return http.StatusUnauthorized
	}
}

// NewAuthError creates an AuthError with the given code
func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

// ValidationError represents rejected input. It is always a caller mistake,
// never a backend fault, and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransportError represents a backend or network fault while talking to the
// database, cache, or storage. Distinguishable from validation failures so
// handlers can map it to a 5xx instead of a 4xx.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a backend failure with the operation that hit it
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// IsNotFound reports whether the error is one of the not-found sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrDepartmentNotFound) ||
		errors.Is(err, ErrAbsenceNotFound) ||
		errors.Is(err, ErrDeviationNotFound) ||
		errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}
