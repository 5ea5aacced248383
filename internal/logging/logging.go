// Package logging builds the slog loggers used across flick.
//
// File logs are JSON lines:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"launched","scope":"apps"}
//
// Terminal logs go through charmbracelet/log's text handler. While the
// picker owns the terminal, only the file logger may be active.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the handler.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

// Config configures a logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer
	Level  slog.Level
	// Debug forces debug level.
	Debug  bool
	Format Format
}

// New creates a logger. A nil config logs JSON at info level to stderr.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if cfg.Format == FormatText {
		h := charmlog.NewWithOptions(output, charmlog.Options{
			Prefix:          "flick",
			Level:           charmlog.Level(level),
			ReportTimestamp: false,
			Formatter:       charmlog.TextFormatter,
		})
		return slog.New(h)
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(output, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// OpenFile opens path for appending, creating its directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
