package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Initialize installs a JSON slog handler at level as the default logger.
// Output goes to stderr so command output on stdout stays clean.
func Initialize(level slog.Level) {
	InitializeTo(os.Stderr, level)
}

// InitializeTo is Initialize writing to w.
func InitializeTo(w io.Writer, level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)
}

// Named returns the default logger tagged with name.
func Named(name string) *slog.Logger {
	logger := slog.Default()
	if logger == nil {
		return nil
	}

	return logger.With("name", name)
}

// ParseLevel maps debug, info, warn or error to a slog level. Anything else
// selects info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
