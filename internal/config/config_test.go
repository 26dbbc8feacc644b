package config

import (
	"os"
	"testing"

	"dnclient/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnvVars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		envVars  map[string]string
		expected string
	}{
		{
			name:  "expand single env var",
			input: "public_key: ${TEST_PUBLIC_KEY}",
			envVars: map[string]string{
				"TEST_PUBLIC_KEY": "test_key_123",
			},
			expected: "public_key: test_key_123",
		},
		{
			name:  "expand multiple env vars",
			input: "public_key: ${PUBLIC_KEY}\nsecret: ${SECRET_KEY}",
			envVars: map[string]string{
				"PUBLIC_KEY": "key_value",
				"SECRET_KEY": "secret_value",
			},
			expected: "public_key: key_value\nsecret: secret_value",
		},
		{
			name:     "missing env var returns empty string",
			input:    "public_key: ${MISSING_VAR}",
			envVars:  map[string]string{},
			expected: "public_key: ",
		},
		{
			name:  "mixed static and env vars",
			input: "static_value: 123\npublic_key: ${TEST_KEY}",
			envVars: map[string]string{
				"TEST_KEY": "dynamic_key",
			},
			expected: "static_value: 123\npublic_key: dynamic_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Set up environment variables
			for k, v := range tt.envVars {
				os.Setenv(k, v)
				defer os.Unsetenv(k)
			}

			result := expandEnvVars(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoadConfigWithEnvVars(t *testing.T) {
	// Create a temporary config file with env var placeholders
	tmpFile, err := os.CreateTemp("", "config-test-*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	configContent := `api:
  base_host: "https://api.sandbox.example.com"
  public_key: "${TEST_DN_PUBLIC_KEY}"
  secret_key: "${TEST_DN_SECRET_KEY}"
  default_format: "json"
  timeout_seconds: 15

probe:
  enabled: true
  paths: ["/status", "/domains"]
  method: "GET"
  interval_seconds: 30
  concurrency: 2

system:
  log_level: "INFO"

telemetry:
  metrics_port: 9090
  enable_metrics: true
`

	_, err = tmpFile.Write([]byte(configContent))
	require.NoError(t, err)
	tmpFile.Close()

	// Set environment variables
	os.Setenv("TEST_DN_PUBLIC_KEY", "test_public_key_from_env")
	os.Setenv("TEST_DN_SECRET_KEY", "test_secret_key_from_env")
	defer os.Unsetenv("TEST_DN_PUBLIC_KEY")
	defer os.Unsetenv("TEST_DN_SECRET_KEY")

	// Load config
	config, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err, "LoadConfig() error")

	// Verify environment variables were expanded
	assert.Equal(t, "test_public_key_from_env", config.API.PublicKey)
	assert.Equal(t, auth.Secret("test_secret_key_from_env"), config.API.SecretKey)
	assert.Equal(t, "https://api.sandbox.example.com", config.API.BaseHost)
	assert.Equal(t, []string{"/status", "/domains"}, config.Probe.Paths)
}

func TestIsCriticalEnvVar(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		expected bool
	}{
		{"public key is critical", "DN_PUBLIC_KEY", true},
		{"secret key is critical", "DN_SECRET_KEY", true},
		{"slack webhook is critical", "SLACK_WEBHOOK_URL", true},
		{"telegram token is critical", "TELEGRAM_BOT_TOKEN", true},
		{"telegram chat id is critical", "TELEGRAM_CHAT_ID", true},
		{"random var is not critical", "RANDOM_VAR", false},
		{"empty var is not critical", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isCriticalEnvVar(tt.envVar)
			assert.Equal(t, tt.expected, result, "isCriticalEnvVar(%q)", tt.envVar)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing public key",
			mutate:  func(c *Config) { c.API.PublicKey = "" },
			wantErr: "api.public_key",
		},
		{
			name:    "relative base host",
			mutate:  func(c *Config) { c.API.BaseHost = "api.example.com" },
			wantErr: "api.base_host",
		},
		{
			name:    "unknown default format",
			mutate:  func(c *Config) { c.API.DefaultFormat = "yaml" },
			wantErr: "api.default_format",
		},
		{
			name:    "ca_file conflicts with insecure",
			mutate:  func(c *Config) { c.API.TLS = TLSConfig{Insecure: true, CAFile: "/tmp/ca.pem"} },
			wantErr: "api.tls.ca_file",
		},
		{
			name:    "probe path without leading slash",
			mutate:  func(c *Config) { c.Probe.Paths = []string{"status"} },
			wantErr: "probe.paths",
		},
		{
			name:    "probe method not GET or POST",
			mutate:  func(c *Config) { c.Probe.Method = "DELETE" },
			wantErr: "probe.method",
		},
		{
			name:    "probe interval out of range",
			mutate:  func(c *Config) { c.Probe.IntervalSeconds = 0 },
			wantErr: "probe.interval_seconds",
		},
		{
			name: "disabled probe skips probe validation",
			mutate: func(c *Config) {
				c.Probe = ProbeConfig{Enabled: false}
			},
		},
		{
			name:    "telegram token without chat id",
			mutate:  func(c *Config) { c.Alerts.TelegramBotToken = auth.Secret("123:abc") },
			wantErr: "alerts.telegram_chat_id",
		},
		{
			name:    "bogus log level",
			mutate:  func(c *Config) { c.System.LogLevel = "verbose" },
			wantErr: "system.log_level",
		},
		{
			name:   "empty log level falls back to INFO",
			mutate: func(c *Config) { c.System.LogLevel = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_LogLevelFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.System.LogLevel = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "INFO", cfg.System.LogLevel)
}

func TestConfig_String(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.PublicKey = "my_super_public_key_value"
	cfg.API.SecretKey = auth.Secret("my_super_secret_key_value")
	cfg.Alerts.SlackWebhookURL = auth.Secret("https://hooks.slack.com/services/T000/B000/XXXX")

	output := cfg.String()

	// 1. Check for fixed mask
	assert.Contains(t, output, "[REDACTED]", "secrets should be redacted")
	assert.Contains(t, output, "****", "public key should be masked")

	// 2. Ensure full cleartext is GONE
	assert.NotContains(t, output, "my_super_secret_key_value", "output should NOT contain the secret key")
	assert.NotContains(t, output, "hooks.slack.com", "output should NOT contain the webhook URL")
	assert.NotContains(t, output, "my_super_public_key_value", "output should NOT contain the full public key")
}

func TestLoadConfig_FileMissing(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}
