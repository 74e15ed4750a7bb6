package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/handlers"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
	"github.com/Hazher89/driftpro-admin-complete/internal/middleware"
	"github.com/Hazher89/driftpro-admin-complete/internal/security"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	router     *mux.Router
	httpServer *http.Server

	authHandler       *handlers.AuthHandler
	managementHandler *handlers.ManagementAPIHandler
	hrHandler         *handlers.HRAPIHandler
	dashboardHandler  *handlers.DashboardHandler
	messagingHandler  *handlers.MessagingHandler
	filesHandler      *handlers.FilesHandler
	healthHandler     *handlers.HealthHandler
	securityMw        *security.SecurityMiddleware
}

// NewServer creates a new HTTP server
func NewServer(
	config *config.Config,
	logger *logger.Logger,
	authHandler *handlers.AuthHandler,
	managementHandler *handlers.ManagementAPIHandler,
	hrHandler *handlers.HRAPIHandler,
	dashboardHandler *handlers.DashboardHandler,
	messagingHandler *handlers.MessagingHandler,
	filesHandler *handlers.FilesHandler,
	healthHandler *handlers.HealthHandler,
	securityMw *security.SecurityMiddleware,
) *Server {
	router := mux.NewRouter()

	server := &Server{
		config:            config,
		logger:            logger,
		router:            router,
		authHandler:       authHandler,
		managementHandler: managementHandler,
		hrHandler:         hrHandler,
		dashboardHandler:  dashboardHandler,
		messagingHandler:  messagingHandler,
		filesHandler:      filesHandler,
		healthHandler:     healthHandler,
		securityMw:        securityMw,
	}

	server.setupRoutes()
	server.setupHTTPServer()

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health and metrics endpoints stay outside the API prefix so probes and
	// scrapers need no credentials.
	s.healthHandler.RegisterRoutes(s.router)
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Uploaded documents are served under /files/ through the authenticated
	// download handler, never straight off the disk.
	s.filesHandler.RegisterRoutes(s.router.NewRoute().Subrouter())

	api := s.router.PathPrefix("/api/v1").Subrouter()
	s.authHandler.RegisterRoutes(api)

	// Each feature area registers on its own subrouter so their middleware
	// chains stay independent.
	s.managementHandler.RegisterRoutes(api.NewRoute().Subrouter())
	s.hrHandler.RegisterRoutes(api.NewRoute().Subrouter())
	s.dashboardHandler.RegisterRoutes(api.NewRoute().Subrouter())
	s.messagingHandler.RegisterRoutes(api.NewRoute().Subrouter())

	// Global middleware, outermost first.
	s.router.Use(s.securityMw.SecurityHeaders)
	s.router.Use(s.securityMw.CORS)
	s.router.Use(s.securityMw.RateLimit)
	s.router.Use(s.securityMw.LimitBodySize)
	s.router.Use(middleware.CompressionMiddleware)
	s.router.Use(s.loggingMiddleware)
}

// setupHTTPServer configures the HTTP server
func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() *mux.Router {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.WithError(err).Error("HTTP server error")
		return err
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	s.logger.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.securityMw.Close()
	return s.httpServer.Shutdown(ctx)
}

// Middleware

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapped.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		}).Info("HTTP request")
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent event streams working through the wrapper
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap lets http.NewResponseController reach the underlying connection
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
