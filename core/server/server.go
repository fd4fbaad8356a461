// Package server wraps http.Server with graceful shutdown, environment
// configuration, and functional options.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Server wraps http.Server with graceful shutdown. Safe for concurrent use.
type Server struct {
	mu           sync.Mutex
	addr         string
	server       *http.Server
	logger       *slog.Logger
	shutdown     time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
	tlsConfig    *tls.Config
	running      bool
}

// New creates a Server listening on addr. Defaults: 30-second graceful
// shutdown, no-op logger.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:         addr,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdown:     DefaultShutdownTimeout,
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
		idleTimeout:  DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start serves handler and blocks until the context is cancelled or the
// listener fails. On context cancellation it shuts down gracefully and
// returns the context error.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
		TLSConfig:    s.tlsConfig,
	}
	hasTLS := s.tlsConfig != nil
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "starting server", slog.String("addr", s.addr))

		var err error
		if hasTLS {
			err = s.server.ListenAndServeTLS("", "")
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		if err := s.Stop(); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
		}
		return ctx.Err()
	}
}

// Stop shuts the server down gracefully within the configured timeout.
// Returns immediately when the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server", slog.Duration("timeout", s.shutdown))

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.running = false
	return err
}
