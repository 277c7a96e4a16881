package logging

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnvVar turns on debug output when set to any non-empty value.
const DebugEnvVar = "VILA_DEBUG"

// DebugEnabled returns true if debug mode is enabled via VILA_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv(DebugEnvVar) != ""
}

// Level picks the handler level from the verbose flag and the debug env var.
func Level(verbose bool) slog.Level {
	if verbose || DebugEnabled() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// New creates a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything. Used as the default when no
// logger is injected.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
