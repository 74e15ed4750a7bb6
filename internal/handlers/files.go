package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/services"
)

// FilesHandler serves stored document content. Files live under tenant
// prefixed keys, so every download requires a session with access to the
// company named in the path.
type FilesHandler struct {
	logger  *logger.Logger
	storage services.StorageService
	authMw  *middleware.AuthenticationMiddleware
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(
	logger *logger.Logger,
	storage services.StorageService,
	authMw *middleware.AuthenticationMiddleware,
) *FilesHandler {
	return &FilesHandler{
		logger:  logger,
		storage: storage,
		authMw:  authMw,
	}
}

// RegisterRoutes registers the download route on the router
func (h *FilesHandler) RegisterRoutes(router *mux.Router) {
	router.Use(h.authMw.RequireSession())

	files := router.PathPrefix("/files/{companyId}").Subrouter()
	files.Use(h.authMw.RequireCompanyAccess())
	files.PathPrefix("/").HandlerFunc(h.DownloadFile).Methods("GET")
}

// DownloadFile streams a single stored file. Directory listings are never
// served.
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/files/")
	if key == "" || strings.HasSuffix(key, "/") {
		writeErrorResponse(w, nil, http.StatusNotFound, "File not found", nil)
		return
	}

	content, err := h.storage.Open(r.Context(), key)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, content); err != nil {
		h.logger.WithField("path", key).WithError(err).Warn("File download aborted")
	}
}
