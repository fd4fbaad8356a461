package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Logger receives request log entries (default: discard).
	Logger *slog.Logger
	// Level is the level successful requests are logged at (default: info).
	// Responses with a 5xx status are always logged at error level.
	Level slog.Level
	// SlowRequestThreshold promotes requests slower than this duration to
	// warn level. Zero disables the check.
	SlowRequestThreshold time.Duration
	// Skip suppresses logging for matching requests, e.g. health probes.
	Skip func(r *http.Request) bool
}

// Logging creates a request logging middleware with default configuration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return LoggingWithConfig(LoggingConfig{Logger: logger})
}

// LoggingWithConfig creates a request logging middleware with custom
// configuration. Each completed request is logged with method, path, status,
// response size, duration and the request ID when present.
func LoggingWithConfig(cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			rec := &responseRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			level := cfg.Level
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case cfg.SlowRequestThreshold > 0 && elapsed > cfg.SlowRequestThreshold:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.bytes),
				slog.Duration("duration", elapsed),
			}
			if id, ok := GetRequestID(r.Context()); ok {
				attrs = append(attrs, slog.String("request_id", id))
			}

			cfg.Logger.LogAttrs(r.Context(), level, "request", attrs...)
		})
	}
}
