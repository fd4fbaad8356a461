package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins specifies allowed origins. Use "*" for all origins
	// (the default).
	AllowOrigins []string
	// AllowMethods specifies allowed HTTP methods for preflight responses.
	AllowMethods []string
	// AllowHeaders specifies allowed request headers for preflight responses.
	AllowHeaders []string
	// AllowCredentials enables the Access-Control-Allow-Credentials header.
	// Ignored when the effective origin is "*".
	AllowCredentials bool
	// MaxAge caches preflight responses in the browser.
	MaxAge time.Duration
}

// CORS creates a CORS middleware that allows any origin. Suitable for a
// local-first API consumed by browser frontends.
func CORS() func(http.Handler) http.Handler {
	return CORSWithConfig(CORSConfig{})
}

// CORSWithConfig creates a CORS middleware with custom configuration.
// Preflight OPTIONS requests are answered directly with 204.
func CORSWithConfig(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{"Content-Type"}
	}

	allowAll := false
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := ""
			switch {
			case allowAll:
				allowOrigin = "*"
			case allowed[origin]:
				allowOrigin = origin
			}

			if allowOrigin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowOrigin)
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials && allowOrigin != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			// Preflight.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
