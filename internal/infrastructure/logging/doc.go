// Package logging provides structured logging for the Alpaca driver.
//
// Built on the standard library's log/slog, it adds configuration-driven
// setup plus default service and version fields, so a line from a 3am
// observatory session can be traced to the exact build that wrote it.
//
// # Architecture
//
// New builds a Logger from config.LoggingConfig, selecting output
// destination (stdout/stderr), format (json/text), and minimum level.
// Default covers early startup before configuration has been loaded.
//
// The bridge, driver, kasa, and process packages each declare a minimal
// Logger interface with a no-op fallback; *Logger satisfies all of
// them, so those packages stay importable without this one.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("devices discovered", "channels", controller.ChannelCount())
//
//	writeLog := logger.With("component", "driver")
//	writeLog.Warn("write not reflected, retrying", "channel", ch.Name)
package logging
