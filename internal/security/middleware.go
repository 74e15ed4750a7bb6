package security

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
)

// SecurityMiddleware provides HTTP hardening: response headers, CORS,
// request rate limiting and body size limits.
type SecurityMiddleware struct {
	logger         *logger.Logger
	limiter        *RateLimiter
	allowedOrigins map[string]bool
	maxBodyBytes   int64
}

// NewSecurityMiddleware creates security middleware from configuration
func NewSecurityMiddleware(log *logger.Logger, cfg *config.Config) *SecurityMiddleware {
	origins := make(map[string]bool, len(cfg.Security.AllowedOrigins))
	for _, origin := range cfg.Security.AllowedOrigins {
		origins[origin] = true
	}

	maxBody := cfg.Security.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	return &SecurityMiddleware{
		logger:         log,
		limiter:        NewRateLimiter(cfg.Security.RateLimitPerMin, cfg.Security.RateLimitBurst, time.Minute),
		allowedOrigins: origins,
		maxBodyBytes:   maxBody,
	}
}

// SecurityHeaders adds standard security headers to all responses
func (sm *SecurityMiddleware) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		next.ServeHTTP(w, r)
	})
}

// CORS handles cross-origin requests for the configured admin origins
func (sm *SecurityMiddleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && sm.allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects clients that exceed the configured request rate
func (sm *SecurityMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)

		if !sm.limiter.Allow(clientIP) {
			sm.logger.WithFields(map[string]interface{}{
				"method":    r.Method,
				"path":      r.URL.Path,
				"client_ip": clientIP,
			}).Warn("Rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LimitBodySize caps request body reads. Document uploads enforce their
// own per-company limit and are exempt here.
func (sm *SecurityMiddleware) LimitBodySize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && !strings.Contains(r.URL.Path, "/documents") {
			r.Body = http.MaxBytesReader(w, r.Body, sm.maxBodyBytes)
		}

		next.ServeHTTP(w, r)
	})
}

// Close releases background resources held by the middleware
func (sm *SecurityMiddleware) Close() {
	sm.limiter.Stop()
}

// getClientIP extracts the client IP, honoring proxy forwarding headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
