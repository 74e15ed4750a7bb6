package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// AuthHandler handles login, logout and password reset endpoints
type AuthHandler struct {
	logger     *logger.Logger
	authSvc    services.AuthenticationService
	companySvc services.CompanyService
	authzSvc   services.AuthorizationService
	sessions   *services.SessionStore
	authMw     *middleware.AuthenticationMiddleware
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	logger *logger.Logger,
	authSvc services.AuthenticationService,
	companySvc services.CompanyService,
	authzSvc services.AuthorizationService,
	sessions *services.SessionStore,
	authMw *middleware.AuthenticationMiddleware,
) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		authSvc:    authSvc,
		companySvc: companySvc,
		authzSvc:   authzSvc,
		sessions:   sessions,
		authMw:     authMw,
	}
}

// RegisterRoutes registers auth routes on the router
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/auth/logout", h.Logout).Methods("POST")
	router.HandleFunc("/auth/reset-password", h.ResetPassword).Methods("POST")

	me := router.PathPrefix("/auth/me").Subrouter()
	me.Use(h.authMw.RequireSession())
	me.HandleFunc("", h.Me).Methods("GET")

	sc := router.PathPrefix("/auth/select-company").Subrouter()
	sc.Use(h.authMw.RequireSession())
	sc.HandleFunc("", h.SelectCompany).Methods("POST")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login authenticates by email and password and issues a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.CurrentUser,
	})
}

// Logout invalidates the presented session token. Logging out an already
// invalid token still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token == "" {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Missing bearer token", nil)
		return
	}

	if err := h.authSvc.Logout(r.Context(), token); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPassword triggers the password reset flow for an email address
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.authSvc.ResetPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Reset link sent if the account exists"})
}

type selectCompanyRequest struct {
	CompanyID string `json:"company_id"`
}

// SelectCompany binds a tenant to the session. The caller must be allowed to
// access the company; admins can switch between tenants, everyone else is
// pinned to their own.
func (h *AuthHandler) SelectCompany(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req selectCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.CompanyID == "" {
		writeErrorResponse(w, nil, http.StatusBadRequest, "company_id is required", nil)
		return
	}

	company, err := h.companySvc.GetCompany(r.Context(), req.CompanyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.authzSvc.RequireCompanyAccess(r.Context(), session, company.ID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.sessions.SelectCompany(session.Token, company)

	h.logger.WithUser(session.UserID()).
		WithField("company_id", company.ID).
		Info("Company selected")
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"company": company})
}

// Me returns the authenticated user and selected company
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"user":       session.CurrentUser,
		"company":    session.SelectedCompany,
		"expires_at": session.ExpiresAt,
	})
}

// extractBearerToken pulls the token from the Authorization header
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
