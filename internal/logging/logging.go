// =============================================================================
// Requerimento - Logging
// =============================================================================
//
// Config-driven zap logger construction. Two sinks:
//   - The log file from the configuration (JSON, level from log_level).
//   - Stderr when --verbose is set (console encoding, debug level).
//
// When neither sink applies a no-op logger is returned, so callers never
// need nil checks.
//
// =============================================================================

package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger from the configured file path and level.
//
// PARAMETERS:
//   - logFile: path of the log file; empty disables file logging.
//   - logLevel: "debug", "info", "warn" or "error" (default "info").
//   - verbose: also log to stderr at debug level.
func New(logFile, logLevel string, verbose bool) (*zap.Logger, error) {
	level := parseLevel(logLevel)

	var cores []zapcore.Core

	if logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), level))
	}

	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), zapcore.DebugLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// parseLevel maps the configured level name onto a zap level.
func parseLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
