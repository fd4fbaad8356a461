package response

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
)

type wsConfig struct {
	upgrader *websocket.Upgrader
	onError  func(context.Context, error)
}

// WebSocketOption configures websocket upgrades.
type WebSocketOption func(*wsConfig)

// WithWSOriginCheck sets the origin check used during the upgrade handshake.
func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithWSErrorHandler sets a hook for upgrade and write errors.
func WithWSErrorHandler(fn func(context.Context, error)) WebSocketOption {
	return func(c *wsConfig) {
		c.onError = fn
	}
}

// WebSocketJSON upgrades the connection and writes each value from the
// channel as a JSON text message. The connection closes when the channel is
// closed, the client disconnects, or the request context is cancelled.
// Incoming messages are read and discarded so close frames are processed.
func WebSocketJSON(outgoing <-chan any, opts ...WebSocketOption) Response {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := cfg.upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.fail(r.Context(), err)
			return nil
		}
		defer conn.Close()

		// Read pump: drains client frames and unblocks the writer below by
		// cancelling the context when the peer goes away.
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-outgoing:
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return nil
				}
				if err := conn.WriteJSON(v); err != nil {
					cfg.fail(ctx, err)
					return nil
				}
			}
		}
	}
}

func (c *wsConfig) fail(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}
