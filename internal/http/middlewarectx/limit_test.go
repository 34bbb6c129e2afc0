package middlewarectx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/junimo-store/internal/http/middlewarectx"
)

func loginRouter(limiter *middlewarectx.IPLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.With(middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())).Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestRateLimitMiddleware_IgnoresForwardedHeadersFromClients(t *testing.T) {
	limiter := middlewarectx.NewIPLimiter(0.001, 1)
	h := loginRouter(limiter)

	allowed := 0
	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, limiter.Len())
}

func TestIPLimiter_ClientIP(t *testing.T) {
	limiter := middlewarectx.NewIPLimiter(1, 1)
	require.NoError(t, limiter.TrustProxies([]string{"10.0.0.0/8", "192.168.1.1"}))

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"direct client", "203.0.113.9:1234", "1.2.3.4", "203.0.113.9"},
		{"behind proxy", "10.0.0.5:1234", "1.2.3.4", "1.2.3.4"},
		{"proxy chain", "10.0.0.5:1234", "1.2.3.4, 10.0.0.7", "1.2.3.4"},
		{"spoofed leftmost hop", "10.0.0.5:1234", "9.9.9.9, 1.2.3.4", "1.2.3.4"},
		{"single trusted address", "192.168.1.1:80", "5.6.7.8", "5.6.7.8"},
		{"proxy without header", "10.0.0.5:1234", "", "10.0.0.5"},
		{"garbage header", "10.0.0.5:1234", "not-an-ip", "10.0.0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, limiter.ClientIP(req))
		})
	}
}

func TestIPLimiter_TrustProxiesInvalid(t *testing.T) {
	limiter := middlewarectx.NewIPLimiter(1, 1)
	assert.Error(t, limiter.TrustProxies([]string{"10.0.0.0/33"}))
	assert.Error(t, limiter.TrustProxies([]string{"proxy.local"}))
}

func TestIPLimiter_CleanupRemovesIdle(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	limiter := middlewarectx.NewIPLimiter(1, 1)
	limiter.SetClock(func() time.Time { return now })

	limiter.Allow("203.0.113.1")
	now = now.Add(20 * time.Minute)
	limiter.Allow("203.0.113.2")
	require.Equal(t, 2, limiter.Len())

	assert.Equal(t, 1, limiter.Cleanup(10*time.Minute))
	assert.Equal(t, 1, limiter.Len())
	assert.False(t, limiter.Allow("203.0.113.2"), "active client keeps its spent budget")
}
