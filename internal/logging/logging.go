// Package logging holds the logger contract shared by the state packages and
// the file setup used by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is the structured logging surface the state layer writes to.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Default returns the process-wide slog logger.
func Default() Logger {
	return slog.Default()
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDefault returns l, or the default logger when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}

// SetupFile points the default logger at path. The returned close func must be
// called on shutdown. A terminal UI cannot log to stderr without corrupting
// the screen, so everything goes to the file.
func SetupFile(path string, level slog.Level) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return f.Close, nil
}
