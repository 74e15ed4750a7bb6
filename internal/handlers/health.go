package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// HealthHandler serves liveness and readiness endpoints
type HealthHandler struct {
	healthSvc *services.HealthService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(healthSvc *services.HealthService) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc}
}

// RegisterRoutes registers health routes on the router
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Readiness).Methods("GET")
	router.HandleFunc("/health/live", h.Liveness).Methods("GET")
}

// Liveness reports that the process is up
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readiness probes the database and cache and reports per-component status
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	report := h.healthSvc.Check(r.Context())

	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, status, report)
}
