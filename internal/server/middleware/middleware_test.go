package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/nutrimap/pkg/logging"
)

// TestChain_ExecutionOrder verifies middleware run outermost first.
func TestChain_ExecutionOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(tag("m1"), tag("m2"), tag("m3"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"m1", "m2", "m3", "handler"}, order)
}

// TestLogger tests request logging middleware.
func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"search", http.MethodGet, "/api/v1/foods/search", http.StatusOK},
		{"journal", http.MethodPost, "/api/v1/journal", http.StatusCreated},
		{"unknown food", http.MethodGet, "/api/v1/foods/1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			handler := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, "HTTP request", entry["message"])
			assert.Contains(t, entry, "duration_ms")
			assert.Equal(t, rec.Header().Get(RequestIDHeader), entry["request_id"])
		})
	}
}

func TestLogger_RequestID(t *testing.T) {
	logger := zerolog.Nop()

	var seen string
	handler := Logger(&logger)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = logging.RequestID(r.Context())
		assert.True(t, logging.HasLogger(r.Context()))
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	})
}

// TestRecovery tests panic recovery.
func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Recovery(&logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("reconciler exploded")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/foods/1", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, rec.Body.String(), "reconciler exploded")
	assert.Contains(t, buf.String(), "Panic recovered")
}

func TestResponseWriter_Hijack(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}
