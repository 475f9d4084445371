package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("test response"))
	})

	w := httptest.NewRecorder()
	loggingMiddleware(handler, zap.New(core)).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	entries := logs.FilterMessage("HTTP request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/test", fields["path"])
		assert.Equal(t, int64(http.StatusCreated), fields["status"])
		assert.Equal(t, int64(len("test response")), fields["bytes"])
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		recoveryMiddleware(handler, zap.NewNop()).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panic recovery", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			recoveryMiddleware(handler, zap.New(core)).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"internal_error"`)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()

	assert.True(t, rl.isAllowed("192.0.2.1", 2, time.Minute))
	assert.True(t, rl.isAllowed("192.0.2.1", 2, time.Minute))
	assert.False(t, rl.isAllowed("192.0.2.1", 2, time.Minute))
	assert.True(t, rl.isAllowed("192.0.2.2", 2, time.Minute), "limits are per client")

	t.Run("idle clients are evicted", func(t *testing.T) {
		rl.lastCleanup = time.Now().Add(-time.Hour)
		rl.clients["192.0.2.3"] = &clientInfo{lastSeen: time.Now().Add(-time.Hour)}

		rl.isAllowed("192.0.2.1", 2, time.Minute)

		_, exists := rl.clients["192.0.2.3"]
		assert.False(t, exists)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := rateLimitMiddleware(handler, newRateLimiter(), 1)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.50:1234"

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.0.2.1:5555", nil, "192.0.2.1"},
		{"forwarded list", "10.0.0.1:5555", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"}, "198.51.100.7"},
		{"real ip", "10.0.0.1:5555", map[string]string{"X-Real-IP": "198.51.100.8"}, "198.51.100.8"},
		{"garbage header", "10.0.0.1:5555", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1"},
		{"no port", "10.0.0.9", nil, "10.0.0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	rw.WriteHeader(http.StatusAccepted)
	n, err := rw.Write([]byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusAccepted, rw.status)
	assert.Equal(t, 5, rw.size)
}
