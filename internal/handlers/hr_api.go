package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// HRAPIHandler handles absence, deviation, time clock and document endpoints
type HRAPIHandler struct {
	logger       *logger.Logger
	absenceSvc   services.AbsenceService
	deviationSvc services.DeviationService
	timeClockSvc services.TimeClockService
	documentSvc  services.DocumentService
	authzSvc     services.AuthorizationService
	authMw       *middleware.AuthenticationMiddleware
}

// NewHRAPIHandler creates a new HR API handler
func NewHRAPIHandler(
	logger *logger.Logger,
	absenceSvc services.AbsenceService,
	deviationSvc services.DeviationService,
	timeClockSvc services.TimeClockService,
	documentSvc services.DocumentService,
	authzSvc services.AuthorizationService,
	authMw *middleware.AuthenticationMiddleware,
) *HRAPIHandler {
	return &HRAPIHandler{
		logger:       logger,
		absenceSvc:   absenceSvc,
		deviationSvc: deviationSvc,
		timeClockSvc: timeClockSvc,
		documentSvc:  documentSvc,
		authzSvc:     authzSvc,
		authMw:       authMw,
	}
}

// RegisterRoutes registers HR routes on the router
func (h *HRAPIHandler) RegisterRoutes(router *mux.Router) {
	router.Use(h.authMw.RequireSession())

	company := router.PathPrefix("/companies/{companyId}").Subrouter()
	company.Use(h.authMw.RequireCompanyAccess())

	company.HandleFunc("/absences", h.CreateAbsence).Methods("POST")
	company.HandleFunc("/absences", h.ListAbsences).Methods("GET")

	company.HandleFunc("/deviations", h.CreateDeviation).Methods("POST")
	company.HandleFunc("/deviations", h.ListDeviations).Methods("GET")

	company.HandleFunc("/time-entries", h.ListTimeEntries).Methods("GET")
	company.HandleFunc("/time-entries/clock-in", h.ClockIn).Methods("POST")
	company.HandleFunc("/time-entries/clock-out", h.ClockOut).Methods("POST")
	company.HandleFunc("/time-entries/status/{employeeId}", h.ClockStatus).Methods("GET")

	company.HandleFunc("/documents", h.UploadDocument).Methods("POST")
	company.HandleFunc("/documents", h.ListDocuments).Methods("GET")

	router.HandleFunc("/absences/{id}", h.GetAbsence).Methods("GET")
	router.HandleFunc("/absences/{id}", h.DeleteAbsence).Methods("DELETE")
	router.HandleFunc("/absences/{id}/approve", h.ApproveAbsence).Methods("POST")
	router.HandleFunc("/absences/{id}/reject", h.RejectAbsence).Methods("POST")

	router.HandleFunc("/deviations/{id}", h.GetDeviation).Methods("GET")
	router.HandleFunc("/deviations/{id}", h.UpdateDeviation).Methods("PUT")
	router.HandleFunc("/deviations/{id}", h.DeleteDeviation).Methods("DELETE")
	router.HandleFunc("/deviations/{id}/status", h.TransitionDeviation).Methods("PUT")

	router.HandleFunc("/documents/{id}", h.GetDocument).Methods("GET")
	router.HandleFunc("/documents/{id}", h.DeleteDocument).Methods("DELETE")
}

// Absence handlers

func (h *HRAPIHandler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	var absence models.Absence
	if err := json.NewDecoder(r.Body).Decode(&absence); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	absence.CompanyID = companyID

	if err := h.absenceSvc.CreateAbsence(r.Context(), &absence); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, absence)
}

// ListAbsences returns the tenant's absences, filtered server side by the q,
// type, status and employee parameters.
func (h *HRAPIHandler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]
	query := r.URL.Query()

	var absences []*models.Absence
	var err error
	if employeeID := query.Get("employee"); employeeID != "" {
		absences, err = h.absenceSvc.GetAbsencesByEmployee(r.Context(), companyID, employeeID)
	} else {
		absences, err = h.absenceSvc.GetAbsencesByCompany(r.Context(), companyID)
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	filtered := services.FilterAbsences(absences, services.AbsenceFilter{
		Query:  query.Get("q"),
		Type:   query.Get("type"),
		Status: query.Get("status"),
	})

	writeJSONResponse(w, http.StatusOK, filtered)
}

func (h *HRAPIHandler) GetAbsence(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	absence, err := h.absenceSvc.GetAbsence(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireCompanyAccess(r, absence.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, absence)
}

func (h *HRAPIHandler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	h.decideAbsence(w, r, true)
}

func (h *HRAPIHandler) RejectAbsence(w http.ResponseWriter, r *http.Request) {
	h.decideAbsence(w, r, false)
}

// decideAbsence applies an approval decision. A second decision on the same
// absence returns a conflict.
func (h *HRAPIHandler) decideAbsence(w http.ResponseWriter, r *http.Request, approve bool) {
	id := mux.Vars(r)["id"]

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	existing, err := h.absenceSvc.GetAbsence(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.requireCompanyAccess(r, existing.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if !h.authzSvc.CanManageCompany(session.CurrentUser, existing.CompanyID) {
		h.authzSvc.LogAccessDenied(r.Context(), session.CurrentUser, "absence_decision", "absence", id)
		writeErrorResponse(w, nil, http.StatusForbidden, "Insufficient privileges", nil)
		return
	}

	var absence *models.Absence
	if approve {
		absence, err = h.absenceSvc.ApproveAbsence(r.Context(), id, session.UserID())
	} else {
		absence, err = h.absenceSvc.RejectAbsence(r.Context(), id, session.UserID())
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, absence)
}

// DeleteAbsence removes an absence. Deleting an unknown absence succeeds.
func (h *HRAPIHandler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.absenceSvc.GetAbsence(r.Context(), id)
	if err == nil {
		if accessErr := h.requireCompanyAccess(r, existing.CompanyID); accessErr != nil {
			writeServiceError(w, h.logger, accessErr)
			return
		}
	} else if !services.IsNotFound(err) {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.absenceSvc.DeleteAbsence(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Absence deleted"})
}

// Deviation handlers

func (h *HRAPIHandler) CreateDeviation(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	var deviation models.Deviation
	if err := json.NewDecoder(r.Body).Decode(&deviation); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	deviation.CompanyID = companyID

	if err := h.deviationSvc.CreateDeviation(r.Context(), &deviation); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, deviation)
}

func (h *HRAPIHandler) ListDeviations(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	deviations, err := h.deviationSvc.GetDeviationsByCompany(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	query := r.URL.Query()
	filtered := services.FilterDeviations(deviations, services.DeviationFilter{
		Query:    query.Get("q"),
		Severity: query.Get("severity"),
		Status:   query.Get("status"),
	})

	writeJSONResponse(w, http.StatusOK, filtered)
}

func (h *HRAPIHandler) GetDeviation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deviation, err := h.deviationSvc.GetDeviation(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireCompanyAccess(r, deviation.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, deviation)
}

type transitionRequest struct {
	Status string `json:"status"`
}

// TransitionDeviation moves a deviation forward in its lifecycle. Backward
// moves and reopening are rejected with a conflict.
func (h *HRAPIHandler) TransitionDeviation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.deviationSvc.GetDeviation(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.requireCompanyAccess(r, existing.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	deviation, err := h.deviationSvc.TransitionDeviation(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, deviation)
}

func (h *HRAPIHandler) UpdateDeviation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.deviationSvc.GetDeviation(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.requireCompanyAccess(r, existing.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var deviation models.Deviation
	if err := json.NewDecoder(r.Body).Decode(&deviation); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	deviation.ID = id
	deviation.CompanyID = existing.CompanyID

	if err := h.deviationSvc.UpdateDeviation(r.Context(), &deviation); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, deviation)
}

// DeleteDeviation removes a deviation. Deleting an unknown deviation
// succeeds.
func (h *HRAPIHandler) DeleteDeviation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.deviationSvc.GetDeviation(r.Context(), id)
	if err == nil {
		if accessErr := h.requireCompanyAccess(r, existing.CompanyID); accessErr != nil {
			writeServiceError(w, h.logger, accessErr)
			return
		}
	} else if !services.IsNotFound(err) {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.deviationSvc.DeleteDeviation(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Deviation deleted"})
}

// Time clock handlers

type punchRequest struct {
	EmployeeID string `json:"employee_id"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

func (h *HRAPIHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, true)
}

func (h *HRAPIHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, false)
}

func (h *HRAPIHandler) punch(w http.ResponseWriter, r *http.Request, clockIn bool) {
	companyID := mux.Vars(r)["companyId"]

	var req punchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var entry *models.TimeEntry
	var err error
	if clockIn {
		entry, err = h.timeClockSvc.ClockIn(r.Context(), companyID, req.EmployeeID, req.Location, req.Notes)
	} else {
		entry, err = h.timeClockSvc.ClockOut(r.Context(), companyID, req.EmployeeID, req.Location, req.Notes)
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, entry)
}

func (h *HRAPIHandler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]
	limit, offset := parsePaginationParams(r)

	var entries []*models.TimeEntry
	var err error
	if employeeID := r.URL.Query().Get("employee"); employeeID != "" {
		entries, err = h.timeClockSvc.GetEntriesByEmployee(r.Context(), companyID, employeeID, limit)
	} else {
		entries, err = h.timeClockSvc.GetEntriesByCompany(r.Context(), companyID, limit, offset)
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

// ClockStatus reports whether the employee's latest punch is a clock-in
func (h *HRAPIHandler) ClockStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID := vars["companyId"]
	employeeID := vars["employeeId"]

	clockedIn, err := h.timeClockSvc.IsClockedIn(r.Context(), companyID, employeeID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"employee_id": employeeID,
		"clocked_in":  clockedIn,
	})
}

// Document handlers

// UploadDocument accepts a multipart form with a "file" part and stores it in
// the company archive.
func (h *HRAPIHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, nil, http.StatusBadRequest, "Missing file upload", err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	document, err := h.documentSvc.UploadDocument(r.Context(), companyID, header.Filename, session.UserID(), contentType, file)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, document)
}

func (h *HRAPIHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	documents, err := h.documentSvc.GetDocumentsByCompany(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, documents)
}

func (h *HRAPIHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	document, err := h.documentSvc.GetDocument(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.requireCompanyAccess(r, document.CompanyID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, document)
}

// DeleteDocument removes the record and its stored file. Deleting an unknown
// document succeeds.
func (h *HRAPIHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	existing, err := h.documentSvc.GetDocument(r.Context(), id)
	if err == nil {
		if accessErr := h.requireCompanyAccess(r, existing.CompanyID); accessErr != nil {
			writeServiceError(w, h.logger, accessErr)
			return
		}
	} else if !services.IsNotFound(err) {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.documentSvc.DeleteDocument(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

func (h *HRAPIHandler) requireCompanyAccess(r *http.Request, companyID string) error {
	session := middleware.GetSessionFromContext(r.Context())
	return h.authzSvc.RequireCompanyAccess(r.Context(), session, companyID)
}
