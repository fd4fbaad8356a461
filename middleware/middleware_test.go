package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codekeep/codekeep/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates_id_and_sets_header", func(t *testing.T) {
		t.Parallel()

		var gotID string
		handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := middleware.GetRequestID(r.Context())
			require.True(t, ok)
			gotID = id
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, gotID)
		assert.Equal(t, gotID, rec.Header().Get("X-Request-ID"))
	})

	t.Run("ignores_incoming_id_by_default", func(t *testing.T) {
		t.Parallel()

		handler := middleware.RequestID()(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "spoofed")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEqual(t, "spoofed", rec.Header().Get("X-Request-ID"))
	})

	t.Run("reuses_incoming_id_when_configured", func(t *testing.T) {
		t.Parallel()

		handler := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			UseExisting: true,
		})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("logs_method_path_and_status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/records", nil))

		out := buf.String()
		assert.Contains(t, out, `"method":"POST"`)
		assert.Contains(t, out, `"path":"/api/records"`)
		assert.Contains(t, out, `"status":201`)
	})

	t.Run("skip_suppresses_log", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: logger,
			Skip: func(r *http.Request) bool {
				return r.URL.Path == "/health"
			},
		})(okHandler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, buf.String())
	})
}

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("converts_panic_to_500", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := middleware.Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		require.NotPanics(t, func() {
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("passes_through_clean_requests", func(t *testing.T) {
		t.Parallel()

		handler := middleware.Recover(nil)(okHandler())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("allows_any_origin_by_default", func(t *testing.T) {
		t.Parallel()

		handler := middleware.CORS()(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://example.com")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers_preflight", func(t *testing.T) {
		t.Parallel()

		handler := middleware.CORS()(okHandler())
		req := httptest.NewRequest(http.MethodOptions, "/api/records", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("rejects_unlisted_origin", func(t *testing.T) {
		t.Parallel()

		handler := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"https://app.example.com"},
		})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
