package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// DashboardHandler serves the per-tenant dashboard summary
type DashboardHandler struct {
	logger       *logger.Logger
	dashboardSvc services.DashboardService
	authMw       *middleware.AuthenticationMiddleware
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	logger *logger.Logger,
	dashboardSvc services.DashboardService,
	authMw *middleware.AuthenticationMiddleware,
) *DashboardHandler {
	return &DashboardHandler{
		logger:       logger,
		dashboardSvc: dashboardSvc,
		authMw:       authMw,
	}
}

// RegisterRoutes registers dashboard routes on the router
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	sub := router.PathPrefix("/companies/{companyId}/dashboard").Subrouter()
	sub.Use(h.authMw.RequireSession())
	sub.Use(h.authMw.RequireCompanyAccess())
	sub.HandleFunc("", h.GetSummary).Methods("GET")
}

// GetSummary returns the aggregated dashboard counts. A partially failed
// aggregation still returns 200 with degraded counts.
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	summary, err := h.dashboardSvc.GetSummary(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, summary)
}
