package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// writeJSONResponse writes data as a JSON body with the given status
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes a JSON error body with the given status
func writeErrorResponse(w http.ResponseWriter, log *logger.Logger, statusCode int, message string, err error) {
	response := map[string]interface{}{
		"error":     message,
		"status":    statusCode,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err != nil {
		if log != nil {
			log.WithError(err).Error(message)
		}
		response["details"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeServiceError maps service layer errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		writeErrorResponse(w, nil, authErr.StatusCode(), authErr.Message, nil)
		return
	}

	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		writeErrorResponse(w, nil, http.StatusBadRequest, validationErr.Error(), nil)
		return
	}

	switch {
	case services.IsNotFound(err):
		writeErrorResponse(w, nil, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrUserAlreadyExists):
		writeErrorResponse(w, nil, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrAbsenceDecided), errors.Is(err, services.ErrInvalidTransition):
		writeErrorResponse(w, nil, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrFeatureDisabled):
		writeErrorResponse(w, nil, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		writeErrorResponse(w, nil, http.StatusForbidden, "Access denied", nil)
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrTokenExpired), errors.Is(err, services.ErrNoSession):
		writeErrorResponse(w, nil, http.StatusUnauthorized, "Authentication required", nil)
	default:
		writeErrorResponse(w, log, http.StatusInternalServerError, "Internal server error", err)
	}
}

// parsePaginationParams reads limit and offset query parameters with defaults
func parsePaginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}

// responseWriter captures the status code for request metrics
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush lets wrapped handlers stream server-sent events
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap lets http.NewResponseController reach the underlying connection
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
