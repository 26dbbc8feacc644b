package bootstrap

import (
	"fmt"
	"os"

	"dnclient/internal/config"
	"dnclient/internal/core"
)

// Config is an alias for the project's main configuration struct
type Config = config.Config

// LoadConfig delegates to the project's config loader
func LoadConfig(path string) (*Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Pre-flight Checks
	if err := checkPreFlight(cfg); err != nil {
		return nil, fmt.Errorf("pre-flight checks failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigOrDefault loads the config file when present and falls back to
// built-in defaults otherwise. A present-but-broken file is reported and
// ignored rather than aborting startup.
func LoadConfigOrDefault(path string, logger core.ILogger) *Config {
	if _, err := os.Stat(path); err != nil {
		logger.Info("Config file not found, using default configuration", "path", path)
		return config.DefaultConfig()
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		logger.Warn("Failed to load config file, using defaults", "path", path, "error", err)
		return config.DefaultConfig()
	}
	return cfg
}

// checkPreFlight performs environment checks beyond schema validation
func checkPreFlight(cfg *Config) error {
	// A configured CA bundle must exist before any request is attempted
	if caFile := cfg.API.TLS.CAFile; caFile != "" {
		if _, err := os.Stat(caFile); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("tls ca_file not found: %s", caFile)
			}
			return err
		}
	}

	if cfg.Telemetry.EnableMetrics {
		if cfg.Telemetry.MetricsPort < 1 || cfg.Telemetry.MetricsPort > 65535 {
			return fmt.Errorf("metrics_port out of range: %d", cfg.Telemetry.MetricsPort)
		}
	}

	return nil
}
