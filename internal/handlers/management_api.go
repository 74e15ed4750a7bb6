package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// ManagementAPIHandler handles company, user and department administration
type ManagementAPIHandler struct {
	logger      *logger.Logger
	companySvc  services.CompanyService
	userMgmtSvc services.UserManagementService
	deptSvc     services.DepartmentService
	authzSvc    services.AuthorizationService
	authMw      *middleware.AuthenticationMiddleware

	apiUsageCounter *prometheus.CounterVec
}

// NewManagementAPIHandler creates a new management API handler. Request
// metrics are registered against the given registerer so tests can use an
// isolated registry.
func NewManagementAPIHandler(
	logger *logger.Logger,
	companySvc services.CompanyService,
	userMgmtSvc services.UserManagementService,
	deptSvc services.DepartmentService,
	authzSvc services.AuthorizationService,
	authMw *middleware.AuthenticationMiddleware,
	registerer prometheus.Registerer,
) *ManagementAPIHandler {
	factory := promauto.With(registerer)

	return &ManagementAPIHandler{
		logger:      logger,
		companySvc:  companySvc,
		userMgmtSvc: userMgmtSvc,
		deptSvc:     deptSvc,
		authzSvc:    authzSvc,
		authMw:      authMw,
		apiUsageCounter: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_api_requests_total",
			Help: "Total number of admin API requests",
		}, []string{"method", "endpoint", "status"}),
	}
}

// RegisterRoutes registers management routes on the router
func (h *ManagementAPIHandler) RegisterRoutes(router *mux.Router) {
	router.Use(h.usageMetricsMiddleware)
	router.Use(h.authMw.RequireSession())

	// Company management. Creating and deleting tenants is reserved for
	// platform administrators.
	router.Handle("/companies", h.requireAdmin(http.HandlerFunc(h.CreateCompany))).Methods("POST")
	router.HandleFunc("/companies", h.ListCompanies).Methods("GET")

	company := router.PathPrefix("/companies/{companyId}").Subrouter()
	company.Use(h.authMw.RequireCompanyAccess())
	company.HandleFunc("", h.GetCompany).Methods("GET")
	company.HandleFunc("", h.UpdateCompany).Methods("PUT")
	company.Handle("", h.requireAdmin(http.HandlerFunc(h.DeleteCompany))).Methods("DELETE")
	company.HandleFunc("/settings", h.UpdateCompanySettings).Methods("PUT")

	// User management within a tenant
	company.HandleFunc("/users", h.CreateUser).Methods("POST")
	company.HandleFunc("/users", h.ListUsers).Methods("GET")
	company.HandleFunc("/users/export", h.ExportUsersCSV).Methods("GET")

	// Department management within a tenant
	company.HandleFunc("/departments", h.CreateDepartment).Methods("POST")
	company.HandleFunc("/departments", h.ListDepartments).Methods("GET")

	router.HandleFunc("/users/{id}", h.GetUser).Methods("GET")
	router.HandleFunc("/users/{id}", h.UpdateUser).Methods("PUT")
	router.HandleFunc("/users/{id}", h.DeleteUser).Methods("DELETE")
	router.HandleFunc("/users/{id}/password", h.ChangeUserPassword).Methods("PUT")
	router.HandleFunc("/users/{id}/deactivate", h.DeactivateUser).Methods("POST")

	router.HandleFunc("/departments/{id}", h.GetDepartment).Methods("GET")
	router.HandleFunc("/departments/{id}", h.UpdateDepartment).Methods("PUT")
	router.HandleFunc("/departments/{id}", h.DeleteDepartment).Methods("DELETE")
}

// Company handlers

type createCompanyRequest struct {
	Company    models.Company `json:"company"`
	AdminEmail string         `json:"admin_email"`
	AdminName  string         `json:"admin_name"`
}

func (h *ManagementAPIHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.companySvc.CreateCompany(r.Context(), &req.Company, req.AdminEmail, req.AdminName); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, req.Company)
}

// ListCompanies returns companies visible to the caller. Supports name and
// industry search parameters. Non-admins only ever see their own tenant.
func (h *ManagementAPIHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	nameQuery := r.URL.Query().Get("q")
	industry := r.URL.Query().Get("industry")

	companies, err := h.companySvc.SearchCompanies(r.Context(), nameQuery, industry)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	visible := make([]*models.Company, 0, len(companies))
	for _, company := range companies {
		if h.authzSvc.CanAccessCompany(session.CurrentUser, company.ID) {
			visible = append(visible, company)
		}
	}

	writeJSONResponse(w, http.StatusOK, visible)
}

func (h *ManagementAPIHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["companyId"]

	company, err := h.companySvc.GetCompany(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, company)
}

func (h *ManagementAPIHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["companyId"]

	var company models.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	company.ID = id

	if err := h.companySvc.UpdateCompany(r.Context(), &company); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, company)
}

func (h *ManagementAPIHandler) UpdateCompanySettings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["companyId"]

	var settings models.CompanySettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.companySvc.UpdateSettings(r.Context(), id, settings); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Settings updated"})
}

// DeleteCompany removes a tenant. Deleting an unknown company succeeds.
func (h *ManagementAPIHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["companyId"]

	if err := h.companySvc.DeleteCompany(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Company deleted"})
}

// User handlers

type createUserRequest struct {
	User     models.User `json:"user"`
	Password string      `json:"password"`
}

func (h *ManagementAPIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.User.CompanyID = companyID

	if err := h.userMgmtSvc.CreateUser(r.Context(), &req.User, req.Password); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, req.User)
}

// ListUsers returns the tenant's users, filtered server side by the q, role,
// department and active parameters.
func (h *ManagementAPIHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	users, err := h.filteredUsers(r, companyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, users)
}

// ExportUsersCSV streams the filtered user list as a CSV attachment
func (h *ManagementAPIHandler) ExportUsersCSV(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	users, err := h.filteredUsers(r, companyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"id", "email", "first_name", "last_name", "role", "department", "employee_id", "is_active", "last_login_at"})
	for _, user := range users {
		lastLogin := ""
		if user.LastLoginAt != nil {
			lastLogin = user.LastLoginAt.UTC().Format(time.RFC3339)
		}
		writer.Write([]string{
			user.ID,
			user.Email,
			user.FirstName,
			user.LastName,
			user.Role,
			user.Department,
			user.EmployeeID,
			strconv.FormatBool(user.IsActive),
			lastLogin,
		})
	}
}

func (h *ManagementAPIHandler) filteredUsers(r *http.Request, companyID string) ([]*models.User, error) {
	users, err := h.userMgmtSvc.GetUsersByCompany(r.Context(), companyID)
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	filter := services.UserFilter{
		Query:      query.Get("q"),
		Role:       query.Get("role"),
		Department: query.Get("department"),
		ActiveOnly: query.Get("active") == "true",
	}

	return services.FilterUsers(users, filter), nil
}

func (h *ManagementAPIHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := h.userMgmtSvc.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireUserAccess(r, user.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, user)
}

func (h *ManagementAPIHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.userMgmtSvc.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireUserAccess(r, existing.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	user.ID = id
	user.CompanyID = existing.CompanyID

	if err := h.userMgmtSvc.UpdateUser(r.Context(), &user); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, user)
}

// DeleteUser removes a user. Deleting an unknown user succeeds.
func (h *ManagementAPIHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.userMgmtSvc.GetUser(r.Context(), id)
	if err == nil {
		if accessErr := h.requireUserAccess(r, existing.CompanyID); accessErr != nil {
			writeServiceError(w, h.logger, accessErr)
			return
		}
	} else if !services.IsNotFound(err) {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.userMgmtSvc.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

func (h *ManagementAPIHandler) ChangeUserPassword(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.userMgmtSvc.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireUserAccess(r, existing.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.userMgmtSvc.ChangePassword(r.Context(), id, req.Password); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (h *ManagementAPIHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.userMgmtSvc.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireUserAccess(r, existing.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.userMgmtSvc.DeactivateUser(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "User deactivated"})
}

// Department handlers

func (h *ManagementAPIHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	var department models.Department
	if err := json.NewDecoder(r.Body).Decode(&department); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	department.CompanyID = companyID

	if err := h.deptSvc.CreateDepartment(r.Context(), &department); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, department)
}

func (h *ManagementAPIHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	departments, err := h.deptSvc.GetDepartmentsByCompany(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	query := r.URL.Query()
	filtered := services.FilterDepartments(departments, services.DepartmentFilter{
		Query:      query.Get("q"),
		ActiveOnly: query.Get("active") == "true",
	})

	writeJSONResponse(w, http.StatusOK, filtered)
}

func (h *ManagementAPIHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	department, err := h.deptSvc.GetDepartment(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireUserAccess(r, department.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, department)
}

func (h *ManagementAPIHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.deptSvc.GetDepartment(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireUserAccess(r, existing.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var department models.Department
	if err := json.NewDecoder(r.Body).Decode(&department); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	department.ID = id
	department.CompanyID = existing.CompanyID

	if err := h.deptSvc.UpdateDepartment(r.Context(), &department); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, department)
}

// DeleteDepartment removes a department. Deleting an unknown department
// succeeds.
func (h *ManagementAPIHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.deptSvc.GetDepartment(r.Context(), id)
	if err == nil {
		if accessErr := h.requireUserAccess(r, existing.CompanyID); accessErr != nil {
			writeServiceError(w, h.logger, accessErr)
			return
		}
	} else if !services.IsNotFound(err) {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.deptSvc.DeleteDepartment(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Department deleted"})
}

// Helpers

// requireUserAccess checks that the session may touch resources belonging to
// the given company
func (h *ManagementAPIHandler) requireUserAccess(r *http.Request, companyID string) error {
	session := middleware.GetSessionFromContext(r.Context())
	return h.authzSvc.RequireCompanyAccess(r.Context(), session, companyID)
}

// requireAdmin restricts a route to platform administrators
func (h *ManagementAPIHandler) requireAdmin(next http.Handler) http.Handler {
	return h.authMw.RequireRole(models.RoleAdmin)(next)
}

// usageMetricsMiddleware records a counter per request outcome
func (h *ManagementAPIHandler) usageMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if template, err := route.GetPathTemplate(); err == nil {
				endpoint = template
			}
		}

		h.apiUsageCounter.WithLabelValues(
			r.Method,
			endpoint,
			strconv.Itoa(wrapped.statusCode),
		).Inc()

		h.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapped.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Admin API request")
	})
}
