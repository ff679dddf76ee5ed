package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sarproc/core"
	"sarproc/host/config"
)

// newLogger builds the production zap logger. Output goes to a file by
// default so it never lands in the middle of the in-place display.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}
	return zc.Build()
}

// bridgeDebug routes core debug output into logger.
func bridgeDebug(logger *zap.Logger, enabled bool) {
	named := logger.Named("core")
	core.SetDebugWriter(func(msg string) {
		named.Debug(msg)
	})
	core.SetDebugEnabled(enabled)
	if enabled {
		core.InitAsyncDebug()
	}
}
