// Package observability provides structured logging for skirmish.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// LoggerName is the root name on every entry.
const LoggerName = "skirmish"

// formats maps a logging.format value to its base zap configuration.
var formats = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// NewLogger creates a structured logger from the given logging configuration.
// Entries and zap's own errors both go to cfg.Output. The console format
// drops stack traces so warnings stay readable next to the game display.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a zap.Logger named LoggerName writing to cfg.Output
// (stderr when empty) or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	base, ok := formats[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg := base()
	sink := cfg.Output
	if sink == "" {
		sink = "stderr"
	}
	zapCfg.OutputPaths = []string{sink}
	zapCfg.ErrorOutputPaths = []string{sink}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "console" {
		zapCfg.DisableStacktrace = true
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("opening log output %q: %w", sink, err)
	}
	return logger.Named(LoggerName), nil
}
