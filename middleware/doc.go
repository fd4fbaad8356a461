// Package middleware provides net/http middleware used by the CodeKeep API:
// request ID propagation, structured request logging, panic recovery and
// CORS handling for browser clients.
//
// Each middleware is a func(http.Handler) http.Handler and composes with any
// router. Wrapping writers preserve http.Flusher and http.Hijacker so the
// middleware chain stays transparent to SSE and websocket handlers.
package middleware
