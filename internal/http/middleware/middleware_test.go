package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/http/metrics"
	"github.com/straye-as/pipeline-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, method, path string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mutate != nil {
		mutate(req)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ============================================================================
// Rate limiting
// ============================================================================

func TestRateLimiter(t *testing.T) {
	fromIP := func(ip string) func(*http.Request) {
		return func(r *http.Request) { r.RemoteAddr = ip + ":12345" }
	}

	t.Run("disabled passes everything", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
		h := rl.LimitByIP(okHandler)
		for i := 0; i < 20; i++ {
			assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/clients", fromIP("10.0.0.1")).Code)
		}
	})

	t.Run("limits per ip", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}, zap.NewNop())
		h := rl.LimitByIP(okHandler)

		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/clients", fromIP("10.0.0.2")).Code)
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/clients", fromIP("10.0.0.2")).Code)

		rr := serve(h, http.MethodGet, "/api/v1/clients", fromIP("10.0.0.2"))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "60", rr.Header().Get("Retry-After"))
		assert.Contains(t, rr.Body.String(), "Too Many Requests")

		// another client has its own budget
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/clients", fromIP("10.0.0.3")).Code)
	})

	t.Run("forwarded-for decides the client", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}, zap.NewNop())
		h := rl.LimitByIP(okHandler)
		forwarded := func(ip string) func(*http.Request) {
			return func(r *http.Request) { r.Header.Set("X-Forwarded-For", ip+", 10.1.1.1") }
		}

		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/x", forwarded("203.0.113.7")).Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/x", forwarded("203.0.113.7")).Code)
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/x", forwarded("203.0.113.8")).Code)
	})

	t.Run("whitelists", func(t *testing.T) {
		rl := middleware.NewRateLimiter(&config.RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 1,
			WhitelistIPs:      []string{"127.0.0.1"},
			WhitelistPaths:    []string{"/health", "/swagger/*"},
		}, zap.NewNop())
		h := rl.LimitByIP(okHandler)

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/api/v1/clients", fromIP("127.0.0.1")).Code)
			assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health", fromIP("10.0.0.9")).Code)
			assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/swagger/index.html", fromIP("10.0.0.9")).Code)
		}
	})
}

// ============================================================================
// Security headers & CORS
// ============================================================================

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "geolocation=()",
	}

	t.Run("defaults", func(t *testing.T) {
		rr := serve(middleware.SecurityHeaders(cfg)(okHandler), http.MethodGet, "/api/v1/clients", nil)

		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "default-src 'self'", rr.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "strict-origin-when-cross-origin", rr.Header().Get("Referrer-Policy"))
		assert.Equal(t, "geolocation=()", rr.Header().Get("Permissions-Policy"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("swagger gets a relaxed policy", func(t *testing.T) {
		rr := serve(middleware.SecurityHeaders(cfg)(okHandler), http.MethodGet, "/swagger/index.html", nil)
		assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "'unsafe-inline'")
	})

	t.Run("hsts", func(t *testing.T) {
		hsts := &config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: 600, HSTSIncludeSubdomains: true, HSTSPreload: true}
		rr := serve(middleware.SecurityHeaders(hsts)(okHandler), http.MethodGet, "/", nil)

		assert.Equal(t, "max-age=600; includeSubDomains; preload", rr.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, rr.Header().Get("X-Frame-Options"))
	})
}

func TestCORS(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}
	withOrigin := func(origin string) func(*http.Request) {
		return func(r *http.Request) { r.Header.Set("Origin", origin) }
	}

	tests := []struct {
		name        string
		origins     []string
		environment string
		origin      string
		allowed     bool
	}{
		{"explicit origin allowed", []string{"https://crm.example.com"}, "production", "https://crm.example.com", true},
		{"explicit origin rejects others", []string{"https://crm.example.com"}, "production", "https://evil.example.com", false},
		{"wildcard", []string{"*"}, "production", "https://anything.example.com", true},
		{"development allows all", nil, "development", "http://localhost:5173", true},
		{"production without origins denies", nil, "production", "https://crm.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.AllowedOrigins = tt.origins
			h := middleware.CORS(&cfg, tt.environment, zap.NewNop())(okHandler)

			rr := serve(h, http.MethodGet, "/api/v1/clients", withOrigin(tt.origin))
			if tt.allowed {
				assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

// ============================================================================
// Logging, recovery & instrumentation
// ============================================================================

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := middleware.Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	t.Run("generates a request id", func(t *testing.T) {
		rr := serve(h, http.MethodPost, "/api/v1/clients", nil)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Len(t, rr.Header().Get(middleware.RequestIDHeader), 36)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, rr.Header().Get(middleware.RequestIDHeader), fields["request_id"])
		assert.Equal(t, "POST", fields["method"])
		assert.Equal(t, int64(201), fields["status_code"])
		assert.Equal(t, int64(5), fields["response_size"])
	})

	t.Run("keeps an incoming request id", func(t *testing.T) {
		rr := serve(h, http.MethodGet, "/", func(r *http.Request) {
			r.Header.Set(middleware.RequestIDHeader, "req-123")
		})

		assert.Equal(t, "req-123", rr.Header().Get(middleware.RequestIDHeader))
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	})
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := middleware.Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := serve(h, http.MethodGet, "/api/v1/clients", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","message":"An unexpected error occurred"}`, rr.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "panic recovered", logs.All()[0].Message)
}

func TestMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Get("/api/v1/clients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/clients/{id}", "404")
	before := testutil.ToFloat64(counter)

	serve(r, http.MethodGet, "/api/v1/clients/41", nil)
	serve(r, http.MethodGet, "/api/v1/clients/42", nil)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
