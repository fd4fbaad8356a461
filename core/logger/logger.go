// Package logger configures the application's slog logger and provides
// attribute helpers shared across packages.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config controls handler construction, loaded from the environment.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is json or text.
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// New builds a slog.Logger writing to stderr according to cfg.
func New(cfg Config) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "json", "":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
