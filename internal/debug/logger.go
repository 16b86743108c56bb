// Package debug provides the library's debug logging using log/slog.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init enables or disables debug logging.
// When enabled, logs are written to os.Stderr at debug level.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	return current()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
