package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return an empty Attr for zero inputs, so call sites can
// pass them unconditionally without nil checks.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags log lines with the subsystem that emitted them.
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}

// Duration creates an attribute for an elapsed duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RecordID tags log lines with the record being operated on.
func RecordID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("record_id", id)
}
