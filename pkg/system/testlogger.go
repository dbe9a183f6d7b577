package system

import (
	"go.uber.org/zap"
)

func testLoggerConfig() zap.Config {
	cfg := zap.NewDevelopmentConfig()
	// Stacktraces on Warn/Error drown out test output.
	cfg.DisableStacktrace = true
	return cfg
}

// NewTestLogger returns a sugared development logger for tests.
func NewTestLogger() *zap.SugaredLogger {
	logger, _ := testLoggerConfig().Build()
	return logger.Sugar()
}

// NewTestZapLogger returns the non-sugared equivalent for tests that need a
// *zap.Logger, such as the gin middleware constructors.
func NewTestZapLogger() *zap.Logger {
	logger, _ := testLoggerConfig().Build()
	return logger
}
