package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// SessionContextKey is the context key for the authenticated session
	SessionContextKey ContextKey = "session"
)

// AuthenticationMiddleware provides authentication middleware
type AuthenticationMiddleware struct {
	logger   *logger.Logger
	authSvc  services.AuthenticationService
	authzSvc services.AuthorizationService
}

// NewAuthenticationMiddleware creates a new authentication middleware
func NewAuthenticationMiddleware(
	logger *logger.Logger,
	authSvc services.AuthenticationService,
	authzSvc services.AuthorizationService,
) *AuthenticationMiddleware {
	return &AuthenticationMiddleware{
		logger:   logger,
		authSvc:  authSvc,
		authzSvc: authzSvc,
	}
}

// RequireSession middleware that requires a valid bearer token bound to a
// live session
func (m *AuthenticationMiddleware) RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				http.Error(w, "Bearer token required", http.StatusUnauthorized)
				return
			}

			token := authHeader[len(bearerPrefix):]
			session, err := m.authSvc.SessionFromToken(ctx, token)
			if err != nil {
				m.logger.WithError(err).Warn("Session validation failed")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole middleware that requires a specific role
func (m *AuthenticationMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			if session == nil || !session.IsAuthenticated() {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			if session.CurrentUser.Role != role {
				m.authzSvc.LogAccessDenied(r.Context(), session.CurrentUser, "role_required:"+role, "route", r.URL.Path)
				http.Error(w, "Insufficient privileges", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireCompanyAccess middleware that requires access to the company named
// in the {companyId} route variable
func (m *AuthenticationMiddleware) RequireCompanyAccess() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			if session == nil || !session.IsAuthenticated() {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			companyID := mux.Vars(r)["companyId"]
			if err := m.authzSvc.RequireCompanyAccess(r.Context(), session, companyID); err != nil {
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context
func GetSessionFromContext(ctx context.Context) *services.SessionContext {
	session, ok := ctx.Value(SessionContextKey).(*services.SessionContext)
	if !ok {
		return nil
	}
	return session
}
