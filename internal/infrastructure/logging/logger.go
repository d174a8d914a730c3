package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/config"
)

// Logger wraps slog.Logger so every line carries the service name and
// version. The embedded slog methods satisfy the per-package Logger
// interfaces declared by bridge, driver, and kasa.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging section of config.yaml.
//
// Format is json or text, output is stdout or stderr, and level sets
// the minimum severity. Discovery and write-retry diagnostics log at
// debug, so a driver that misbehaves against real plugs is usually run
// with level: debug.
//
// Parameters:
//   - cfg: Logging configuration from config.yaml
//   - version: Build version stamped onto every line
//
// Returns:
//   - *Logger: Configured logger ready for use
func New(cfg config.LoggingConfig, version string) *Logger {
	// Determine output writer
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	// Parse log level
	level := parseLevel(cfg.Level)

	// Create handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	// Add default fields
	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "kasa-alpaca"),
		slog.String("version", version),
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// parseLevel converts a string log level to slog.Level.
//
// Supported levels: debug, info, warn, error
// Defaults to info if unrecognised.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with additional default attributes.
//
// Used to tag a subsystem's log lines at wiring time:
//
//	bridgeLog := logger.With("component", "bridge")
//	bridgeLog.Debug("bridge worker started") // carries component=bridge
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Default returns a stdout JSON logger at info level, for the short
// window at startup before config.yaml has been read.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
