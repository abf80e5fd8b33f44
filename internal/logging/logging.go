// Package logging builds the slog logger shared by the command and the
// collectors.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultLevel      = slog.LevelWarn
	defaultMaxSize    = 10
	defaultMaxBackups = 3
	defaultMaxAge     = 28
)

// Config selects the level and destination of log output.
type Config struct {
	Level string // debug, info, warn, error or a numeric slog level
	File  string // rotated log file; stderr when empty
	// Stderr overrides the console destination, mainly for tests.
	Stderr io.Writer
}

// ParseLevel maps a level name to a slog level, falling back to def for
// empty or unrecognised values.
func ParseLevel(value string, def slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return def
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}
	return def
}

// New returns a text logger for cfg. The returned closer flushes and closes
// the log file, if any.
func New(cfg Config) (*slog.Logger, io.Closer) {
	level := ParseLevel(cfg.Level, DefaultLevel)

	var w io.Writer = cfg.Stderr
	if w == nil {
		w = os.Stderr
	}
	var closer io.Closer = nopCloser{}

	if path := strings.TrimSpace(cfg.File); path != "" {
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    defaultMaxSize,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAge,
			Compress:   true,
		}
		w, closer = rotated, rotated
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
