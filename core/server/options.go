package server

import (
	"crypto/tls"
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout sets the graceful shutdown timeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdown = timeout
		}
	}
}

// WithReadTimeout sets the maximum duration for reading a request.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = timeout
	}
}

// WithWriteTimeout sets the maximum duration for writing a response.
// Zero disables the limit, which streaming endpoints require.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = timeout
	}
}

// WithIdleTimeout sets the keep-alive idle timeout.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = timeout
	}
}

// WithTLS serves TLS with the given configuration.
func WithTLS(cfg *tls.Config) Option {
	return func(s *Server) {
		s.tlsConfig = cfg
	}
}
