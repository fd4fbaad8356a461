// Package response provides composable HTTP response renderers: plain
// values, JSON, and live streams over SSE or websockets.
package response

import (
	"encoding/json"
	"net/http"
)

// Response is a function that renders an HTTP response. Rendering errors
// are returned so the caller can decide how to surface them.
type Response func(w http.ResponseWriter, r *http.Request) error

// Render executes resp, falling back to a plain 500 when rendering fails
// after headers may already have been written.
func Render(w http.ResponseWriter, r *http.Request, resp Response) {
	if err := resp(w, r); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if content != "" {
			_, err := w.Write([]byte(content))
			return err
		}
		return nil
	}
}

// Bytes creates a response with a custom content type and 200 OK status.
func Bytes(content []byte, contentType string) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(http.StatusOK)
		if len(content) > 0 {
			_, err := w.Write(content)
			return err
		}
		return nil
	}
}

// NoContent creates a 204 No Content response.
func NoContent() Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}
}

// JSON creates an application/json response with 200 OK status, encoding
// directly to the response writer.
func JSON(v any) Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with a custom status
// code. A zero status resolves to 200, or 204 for nil data; 204 and 304
// carry no body.
func JSONWithStatus(v any, status int) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			if v == nil {
				status = http.StatusNoContent
			} else {
				status = http.StatusOK
			}
		}
		w.WriteHeader(status)

		switch status {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}

// JSONError creates an application/json error body {"error": message} with
// the given status code.
func JSONError(status int, message string) Response {
	return JSONWithStatus(map[string]string{"error": message}, status)
}
