package bootstrap

import (
	"dnclient/internal/core"
	"dnclient/pkg/logging"
)

// InitLogger initializes the global logger at the configured level.
func InitLogger(cfg *Config) (core.ILogger, error) {
	zapLogger, err := logging.NewZapLogger(cfg.System.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := zapLogger.WithField("service", "dnprobe")

	// Set as global logger
	logging.SetGlobalLogger(logger)

	return logger, nil
}
