package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDContextKey is used as a key for storing the request ID in the
// request context.
type requestIDContextKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// UseExisting determines whether to trust an existing request ID from the incoming request
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
// It generates a new UUID for each request and includes it in both the
// request context and the response headers.
func RequestID() func(http.Handler) http.Handler {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom configuration.
func RequestIDWithConfig(cfg RequestIDConfig) func(http.Handler) http.Handler {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cfg.UseExisting {
				id = r.Header.Get(cfg.HeaderName)
			}
			if id == "" {
				id = cfg.Generator()
			}

			w.Header().Set(cfg.HeaderName, id)
			ctx := context.WithValue(r.Context(), requestIDContextKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID retrieves the request ID from the context. Returns the ID and
// a boolean indicating whether one was set.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
