package totp

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Tick is one refresh of a live TOTP display: the code valid for the
// current window and the whole seconds left until the next one. Both values
// are computed inside the same tick, so they are always mutually consistent.
type Tick struct {
	Code      string `json:"code"`
	Remaining int    `json:"remaining"`
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithInterval sets the tick interval. Defaults to one second.
func WithInterval(interval time.Duration) WatcherOption {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

// WithClock sets the wall-clock source used by the tick loop. Tests inject
// a fake clock here to simulate window boundaries.
func WithClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets the logger for derivation failures.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher drives a live TOTP display for a single provisioning URI. It owns
// exactly one ticker, acquired on Start and released when the context is
// cancelled or Stop is called. Each display instance runs its own Watcher;
// derived codes are never shared or cached across instances.
type Watcher struct {
	uri      *URI
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running atomic.Bool
}

// NewWatcher parses the raw value and returns a Watcher for it. A value
// that is not a valid TOTP URI returns the parse error and no watcher, so
// callers fall back to static rendering without scheduling anything.
func NewWatcher(raw string, opts ...WatcherOption) (*Watcher, error) {
	uri, err := ParseURI(raw)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		uri:      uri,
		interval: time.Second,
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// URI returns the parsed provisioning URI the watcher displays.
func (w *Watcher) URI() *URI {
	return w.uri
}

// Running reports whether the tick loop is active.
func (w *Watcher) Running() bool {
	return w.running.Load()
}

// Start launches the tick loop and returns its channel. The first tick is
// emitted immediately, before the first interval elapses. The channel is
// closed when ctx is cancelled or Stop is called; no ticks follow the close.
// A watcher can be started once.
func (w *Watcher) Start(ctx context.Context) (<-chan Tick, error) {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return nil, ErrWatcherAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	w.running.Store(true)
	ticks := make(chan Tick, 1)
	go w.loop(ctx, ticks)
	return ticks, nil
}

// Stop cancels the tick loop. Idempotent; safe to call before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (w *Watcher) loop(ctx context.Context, ticks chan<- Tick) {
	defer close(ticks)
	defer w.running.Store(false)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	now := w.now()
	step := StepAt(now)
	code := w.derive(ctx, now)

	if !w.emit(ctx, ticks, Tick{Code: code, Remaining: RemainingAt(now)}) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := w.now()
			// Re-derive exactly once per window, keyed on the step counter
			// so a missed tick (backgrounded process, coarse timer) still
			// produces a fresh code on the next tick.
			if s := StepAt(now); s != step {
				step = s
				code = w.derive(ctx, now)
			}
			if !w.emit(ctx, ticks, Tick{Code: code, Remaining: RemainingAt(now)}) {
				return
			}
		}
	}
}

// derive computes the code for the window containing now, degrading to the
// explicit error marker on failure. The loop keeps ticking afterwards; a
// later window may succeed if the cause was transient.
func (w *Watcher) derive(ctx context.Context, now time.Time) string {
	code, err := GenerateCodeAt(w.uri.Secret, now)
	if err != nil {
		w.logger.WarnContext(ctx, "totp derivation failed",
			slog.String("label", w.uri.Label),
			slog.Any("error", err))
		return ErrorCode
	}
	return code
}

func (w *Watcher) emit(ctx context.Context, ticks chan<- Tick, tick Tick) bool {
	select {
	case <-ctx.Done():
		return false
	case ticks <- tick:
		return true
	}
}
