// Package obs contains observability utilities such as logging and metrics.
package obs

import (
	"log/slog"
	"os"
)

// Logger is the global structured logger used by the service.
//
// Logger is exported to allow other packages to use it for logging.
var Logger = slog.Default()

// InitLogger initializes the global Logger with a JSON handler. Debug level
// is only enabled when debug is true.
//
// InitLogger is exported to allow other packages to initialize the Logger.
func InitLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	Logger = slog.New(h)
}

// DebugLogger logs only when enabled. The zero value is a no-op.
type DebugLogger struct {
	enabled bool
	log     *slog.Logger
}

// NewDebugLogger returns a DebugLogger writing to l when enabled is true.
func NewDebugLogger(enabled bool, l *slog.Logger) DebugLogger {
	return DebugLogger{enabled: enabled, log: l}
}

// Enabled reports whether messages are emitted.
func (d DebugLogger) Enabled() bool { return d.enabled && d.log != nil }

// Log emits msg at debug level with a "debug" tag.
func (d DebugLogger) Log(msg string, args ...any) {
	if !d.Enabled() {
		return
	}
	d.log.Debug(msg, append([]any{"tag", "debug"}, args...)...)
}
