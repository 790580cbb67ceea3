// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()                          // WARN level, or LOG_LEVEL from env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//
// Logs go to stderr so they never mix with the report printed on stdout.
// Colors are turned off when stderr is not a terminal.
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: warn)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: WARN).
func Setup() {
	SetupWithLevel(LevelFromEnv())
}

// SetupWithLevel configures colored logging on stderr at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level, !term.IsTerminal(int(os.Stderr.Fd()))))
}

// New returns a tint logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// LevelFromEnv parses LOG_LEVEL.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
