// Package logging builds the zap loggers shared by the service and the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to the given output paths ("stderr", "stdout"
// or file paths). Development mode uses the console encoder.
func New(env, level string, outputPaths ...string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if env == "development" {
		config = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	if len(outputPaths) > 0 {
		config.OutputPaths = outputPaths
		config.ErrorOutputPaths = outputPaths
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
