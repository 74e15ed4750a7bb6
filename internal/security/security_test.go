package security

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
	"github.com/Hazher89/driftpro-admin-complete/internal/logger"
)

func newTestMiddleware(t *testing.T) *SecurityMiddleware {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{}
	cfg.Security.AllowedOrigins = []string{"https://admin.driftpro.no"}
	cfg.Security.RateLimitPerMin = 5
	cfg.Security.MaxBodyBytes = 64

	sm := NewSecurityMiddleware(&logger.Logger{Logger: log}, cfg)
	t.Cleanup(sm.Close)
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	sm := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	rec := httptest.NewRecorder()

	sm.SecurityHeaders(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCORSAllowedOrigin(t *testing.T) {
	sm := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	req.Header.Set("Origin", "https://admin.driftpro.no")
	rec := httptest.NewRecorder()

	sm.CORS(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "https://admin.driftpro.no", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSUnknownOriginGetsNoHeader(t *testing.T) {
	sm := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()

	sm.CORS(okHandler()).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	sm := newTestMiddleware(t)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/companies", nil)
	req.Header.Set("Origin", "https://admin.driftpro.no")
	rec := httptest.NewRecorder()

	sm.CORS(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	sm := newTestMiddleware(t)
	handler := sm.RateLimit(okHandler())

	var lastCode int
	// 5 per minute plus zero burst from the test config
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
		req.RemoteAddr = "10.0.0.1:55000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	sm := newTestMiddleware(t)
	handler := sm.RateLimit(okHandler())

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
		req.RemoteAddr = "10.0.0.1:55000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	req.RemoteAddr = "10.0.0.2:55000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(2, 0, 50*time.Millisecond)
	defer rl.Stop()

	assert.True(t, rl.Allow("client"))
	assert.True(t, rl.Allow("client"))
	assert.False(t, rl.Allow("client"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("client"))
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", getClientIP(req))
}

func TestGetClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"

	assert.Equal(t, "10.0.0.9", getClientIP(req))
}

func TestLimitBodySizeRejectsLargeBody(t *testing.T) {
	sm := newTestMiddleware(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	large := make([]byte, 128)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", bytes.NewReader(large))
	rec := httptest.NewRecorder()

	sm.LimitBodySize(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestValidatePassword(t *testing.T) {
	v := NewPasswordValidator(8)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "Brannvern77x", false},
		{"too short", "Ab1x", true},
		{"common password", "password1", true},
		{"norwegian common password", "passord123", true},
		{"letters only", "Brannvernrutine", true},
		{"numbers only", "84629175", true},
		{"repeated characters", "Xaaaa84bcd", true},
		{"sequential digits", "Vern12345x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPasswordValidatorRaisesLowMinimum(t *testing.T) {
	v := NewPasswordValidator(3)

	err := v.ValidatePassword("Ab1due4")
	assert.Error(t, err)
}
