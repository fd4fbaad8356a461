// Package app exposes the CodeKeep HTTP API: record CRUD, export/import,
// barcode rendering, and live TOTP display over SSE and websockets.
package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codekeep/codekeep/core/record"
	"github.com/codekeep/codekeep/middleware"
)

// App holds the API's dependencies and builds its router.
type App struct {
	store  record.Store
	logger *slog.Logger
	health func(context.Context) error
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithHealthcheck sets the probe run by the health endpoint, typically the
// backing store's connectivity check.
func WithHealthcheck(fn func(context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.health = fn
		}
	}
}

// New creates an App serving records from the given store.
func New(store record.Store, opts ...Option) *App {
	a := &App{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router builds the HTTP routing table. Literal paths are registered before
// parameterized ones so /records/export is not captured as an id.
func (a *App) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", a.handleListRecords).Methods(http.MethodGet)
	api.HandleFunc("/records", a.handleCreateRecord).Methods(http.MethodPost)
	api.HandleFunc("/records/export", a.handleExportRecords).Methods(http.MethodGet)
	api.HandleFunc("/records/import", a.handleImportRecords).Methods(http.MethodPost)
	api.HandleFunc("/records/{id}", a.handleGetRecord).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}", a.handleUpdateRecord).Methods(http.MethodPut)
	api.HandleFunc("/records/{id}", a.handleDeleteRecord).Methods(http.MethodDelete)
	api.HandleFunc("/records/{id}/image", a.handleRecordImage).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}/totp", a.handleRecordTOTP).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}/totp/stream", a.handleRecordTOTPStream).Methods(http.MethodGet)
	api.HandleFunc("/records/{id}/totp/ws", a.handleRecordTOTPSocket).Methods(http.MethodGet)

	return r
}

// Handler wraps the router in the standard middleware chain. CORS runs
// outermost so preflight requests are answered before route matching;
// recovery sits inside request ID and logging so panics are logged with
// their request context.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.Router()
	h = middleware.Recover(a.logger)(h)
	h = middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: a.logger,
		Skip: func(r *http.Request) bool {
			return r.URL.Path == "/health"
		},
	})(h)
	h = middleware.RequestID()(h)
	h = middleware.CORS()(h)
	return h
}
