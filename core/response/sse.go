package response

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	eventName   string
	keepAlive   time.Duration
	noKeepAlive bool
	onError     func(context.Context, error)
}

// SSEOption configures Server-Sent Events behavior.
type SSEOption func(*sseConfig)

// WithEventName sets the event name written before each data frame.
func WithEventName(name string) SSEOption {
	return func(c *sseConfig) {
		c.eventName = name
	}
}

// WithKeepAlive sets the keep-alive comment interval.
func WithKeepAlive(interval time.Duration) SSEOption {
	return func(c *sseConfig) {
		if interval > 0 {
			c.keepAlive = interval
		}
	}
}

// WithoutKeepAlive disables keep-alive comments.
func WithoutKeepAlive() SSEOption {
	return func(c *sseConfig) {
		c.noKeepAlive = true
	}
}

// WithSSEErrorHandler sets a hook for streaming write errors.
func WithSSEErrorHandler(fn func(context.Context, error)) SSEOption {
	return func(c *sseConfig) {
		c.onError = fn
	}
}

// SSE streams values from a channel as Server-Sent Events. Strings and byte
// slices pass through verbatim; other values are JSON-encoded. The stream
// ends when the channel is closed or the client disconnects.
func SSE(events <-chan any, opts ...SSEOption) Response {
	cfg := &sseConfig{
		keepAlive: DefaultSSEKeepAlive,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return nil
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
			cfg.fail(r.Context(), fmt.Errorf("write connection comment: %w", err))
			return nil
		}
		flusher.Flush()

		var keepAliveChan <-chan time.Time
		if !cfg.noKeepAlive {
			ticker := time.NewTicker(cfg.keepAlive)
			defer ticker.Stop()
			keepAliveChan = ticker.C
		}

		for {
			select {
			case <-r.Context().Done():
				return nil

			case <-keepAliveChan:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					cfg.fail(r.Context(), fmt.Errorf("write keepalive: %w", err))
					return nil
				}
				flusher.Flush()

			case data, ok := <-events:
				if !ok {
					return nil
				}
				if err := writeSSEEvent(w, data, cfg.eventName); err != nil {
					cfg.fail(r.Context(), fmt.Errorf("write event: %w", err))
					return nil
				}
				flusher.Flush()
			}
		}
	}
}

func (c *sseConfig) fail(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}

func writeSSEEvent(w io.Writer, data any, eventName string) error {
	if eventName != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", eventName); err != nil {
			return err
		}
	}

	var payload string
	switch v := data.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(encoded)
	}

	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
