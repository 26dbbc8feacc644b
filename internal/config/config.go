// Package config handles configuration management with validation
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"dnclient/pkg/auth"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration structure
type Config struct {
	API       APIConfig       `yaml:"api"`
	Probe     ProbeConfig     `yaml:"probe"`
	Alerts    AlertConfig     `yaml:"alerts"`
	System    SystemConfig    `yaml:"system"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig contains credentials and request defaults for the DN API
type APIConfig struct {
	BaseHost       string      `yaml:"base_host"`
	PublicKey      string      `yaml:"public_key" validate:"required"`
	SecretKey      auth.Secret `yaml:"secret_key"`
	DefaultFormat  string      `yaml:"default_format" validate:"oneof=json xml rss"`
	NoCache        bool        `yaml:"nocache"`
	TimeoutSeconds int         `yaml:"timeout_seconds" validate:"min=0,max=300"`
	TLS            TLSConfig   `yaml:"tls"`
}

// TLSConfig controls server certificate verification
type TLSConfig struct {
	Insecure bool   `yaml:"insecure"`
	CAFile   string `yaml:"ca_file"`
}

// ProbeConfig contains endpoint probing settings
type ProbeConfig struct {
	Enabled         bool     `yaml:"enabled"`
	Paths           []string `yaml:"paths" validate:"required,min=1"`
	Method          string   `yaml:"method" validate:"oneof=GET POST"`
	IntervalSeconds int      `yaml:"interval_seconds" validate:"min=1,max=3600"`
	Concurrency     int      `yaml:"concurrency" validate:"min=1,max=100"`
}

// AlertConfig contains alert channel settings
type AlertConfig struct {
	SlackWebhookURL  auth.Secret `yaml:"slack_webhook_url"`
	TelegramBotToken auth.Secret `yaml:"telegram_bot_token"`
	TelegramChatID   string      `yaml:"telegram_chat_id"`
}

// SystemConfig contains system settings
type SystemConfig struct {
	LogLevel string `yaml:"log_level" validate:"oneof=DEBUG INFO WARN ERROR FATAL"`
}

// TelemetryConfig contains telemetry settings
type TelemetryConfig struct {
	MetricsPort   int  `yaml:"metrics_port"`
	EnableMetrics bool `yaml:"enable_metrics"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

// LoadConfig loads configuration from a YAML file with environment variable expansion
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateAPIConfig(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.validateProbeConfig(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.validateAlertConfig(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.validateSystemConfig(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func (c *Config) validateAPIConfig() error {
	if c.API.PublicKey == "" {
		return ValidationError{
			Field:   "api.public_key",
			Message: "public key is required",
		}
	}

	if c.API.BaseHost != "" {
		u, err := url.Parse(c.API.BaseHost)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ValidationError{
				Field:   "api.base_host",
				Value:   c.API.BaseHost,
				Message: "must be an absolute URL like https://api.example.com",
			}
		}
	}

	// Fallback logic: empty format means the client default applies
	if c.API.DefaultFormat != "" {
		validFormats := []string{"json", "xml", "rss"}
		if !contains(validFormats, strings.ToLower(c.API.DefaultFormat)) {
			return ValidationError{
				Field:   "api.default_format",
				Value:   c.API.DefaultFormat,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(validFormats, ", ")),
			}
		}
	}

	if c.API.TimeoutSeconds < 0 || c.API.TimeoutSeconds > 300 {
		return ValidationError{
			Field:   "api.timeout_seconds",
			Value:   c.API.TimeoutSeconds,
			Message: "must be between 0 and 300",
		}
	}

	if c.API.TLS.CAFile != "" && c.API.TLS.Insecure {
		return ValidationError{
			Field:   "api.tls.ca_file",
			Value:   c.API.TLS.CAFile,
			Message: "ca_file has no effect when insecure is true",
		}
	}

	return nil
}

func (c *Config) validateProbeConfig() error {
	if !c.Probe.Enabled {
		return nil // Skip validation if disabled
	}

	if len(c.Probe.Paths) == 0 {
		return ValidationError{
			Field:   "probe.paths",
			Message: "at least one path required when probing is enabled",
		}
	}

	for _, p := range c.Probe.Paths {
		if !strings.HasPrefix(p, "/") {
			return ValidationError{
				Field:   "probe.paths",
				Value:   p,
				Message: "paths must start with '/'",
			}
		}
	}

	// Fallback logic: empty method defaults to GET
	if c.Probe.Method == "" {
		c.Probe.Method = "GET"
	}
	if m := strings.ToUpper(c.Probe.Method); m != "GET" && m != "POST" {
		return ValidationError{
			Field:   "probe.method",
			Value:   c.Probe.Method,
			Message: "must be one of: GET, POST",
		}
	}

	if c.Probe.IntervalSeconds < 1 || c.Probe.IntervalSeconds > 3600 {
		return ValidationError{
			Field:   "probe.interval_seconds",
			Value:   c.Probe.IntervalSeconds,
			Message: "must be between 1 and 3600",
		}
	}

	if c.Probe.Concurrency < 1 || c.Probe.Concurrency > 100 {
		return ValidationError{
			Field:   "probe.concurrency",
			Value:   c.Probe.Concurrency,
			Message: "must be between 1 and 100",
		}
	}

	return nil
}

func (c *Config) validateAlertConfig() error {
	if c.Alerts.TelegramBotToken != "" && c.Alerts.TelegramChatID == "" {
		return ValidationError{
			Field:   "alerts.telegram_chat_id",
			Message: "chat id is required when telegram_bot_token is set",
		}
	}
	return nil
}

func (c *Config) validateSystemConfig() error {
	// Fallback logic: empty level defaults to INFO
	if c.System.LogLevel == "" {
		c.System.LogLevel = "INFO"
	}

	validLevels := []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	if !contains(validLevels, strings.ToUpper(c.System.LogLevel)) {
		return ValidationError{
			Field:   "system.log_level",
			Value:   c.System.LogLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLevels, ", ")),
		}
	}
	return nil
}

// APITimeout returns the configured request timeout, or zero when the
// client default should apply.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ProbeInterval returns the configured probing interval
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.Probe.IntervalSeconds) * time.Second
}

// String returns a string representation of the configuration (with sensitive data masked)
func (c *Config) String() string {
	// Secret fields redact themselves when marshaled; the public key is
	// partially masked since it still identifies the account.
	configCopy := *c
	configCopy.API.PublicKey = maskString(configCopy.API.PublicKey)

	data, _ := yaml.Marshal(configCopy)
	return string(data)
}

// Helper functions

func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		value := os.Getenv(key)
		if value == "" && isCriticalEnvVar(key) {
			return ""
		}
		return value
	})
}

// isCriticalEnvVar checks if an environment variable is critical for operation
func isCriticalEnvVar(key string) bool {
	criticalVars := []string{
		"DN_PUBLIC_KEY", "DN_SECRET_KEY",
		"SLACK_WEBHOOK_URL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	}
	return contains(criticalVars, key)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func maskString(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

// DefaultConfig returns a default configuration for testing
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseHost:       "https://api.example.com",
			PublicKey:      "test_public_key",
			SecretKey:      auth.Secret("test_secret_key"),
			DefaultFormat:  "json",
			TimeoutSeconds: 10,
		},
		Probe: ProbeConfig{
			Enabled:         true,
			Paths:           []string{"/status"},
			Method:          "GET",
			IntervalSeconds: 60,
			Concurrency:     4,
		},
		System: SystemConfig{
			LogLevel: "INFO",
		},
		Telemetry: TelemetryConfig{
			MetricsPort:   9090,
			EnableMetrics: true,
		},
	}
}
