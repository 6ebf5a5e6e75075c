package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig_LoadsFromYAML(t *testing.T) {
	tempFile := createTempConfigFile(t, `
server:
  port: "9090"
  host: "127.0.0.1"
  session_secret: "test-secret"
  debug: true
  log_level: "debug"

database:
  path: "test-feedback.db"
  max_open_conns: 50
  max_idle_conns: 10
  conn_max_lifetime: "10m"

open_telemetry:
  endpoint: "test:4317"
  protocol: "http"
  insecure: false
  service_name: "test-service"
  service_version: "test-version"
  enable_tracing: false
  enable_logging: false
  sampling_rate: 0.5

metrics:
  enabled: true
`)
	t.Setenv("FEEDBACK_CONFIG_FILE", tempFile)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "test-secret", cfg.Server.SessionSecret)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	assert.Equal(t, "test-feedback.db", cfg.Database.Path)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime.AsDuration())

	assert.Equal(t, "test:4317", cfg.OpenTelemetry.Endpoint)
	assert.Equal(t, "http", cfg.OpenTelemetry.Protocol)
	assert.Equal(t, "test-service", cfg.OpenTelemetry.ServiceName)
	assert.Equal(t, 0.5, cfg.OpenTelemetry.SamplingRate)

	assert.True(t, cfg.Metrics.Enabled)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	tempFile := createTempConfigFile(t, `
server:
  port: "9090"
database:
  path: "from-yaml.db"
`)
	t.Setenv("FEEDBACK_CONFIG_FILE", tempFile)
	t.Setenv("SERVER_PORT", "7777")
	t.Setenv("SERVER_DEBUG", "true")
	t.Setenv("DATABASE_PATH", "from-env.db")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "2m")
	t.Setenv("OPEN_TELEMETRY_SAMPLING_RATE", "0.25")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "7777", cfg.Server.Port)
	assert.True(t, cfg.Server.Debug)
	assert.Equal(t, "from-env.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Minute, cfg.Database.ConnMaxLifetime.AsDuration())
	assert.Equal(t, 0.25, cfg.OpenTelemetry.SamplingRate)
}

func TestNewConfig_Defaults(t *testing.T) {
	tempFile := createTempConfigFile(t, `
server:
  session_secret: "s"
`)
	t.Setenv("FEEDBACK_CONFIG_FILE", tempFile)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultMaxOpenConns, cfg.Database.MaxOpenConns)
	assert.Equal(t, DefaultMaxIdleConns, cfg.Database.MaxIdleConns)
	assert.Equal(t, DatabaseConnMaxLifetime, cfg.Database.ConnMaxLifetime.AsDuration())
	assert.Equal(t, "feedback-backend", cfg.OpenTelemetry.ServiceName)
	assert.Equal(t, "grpc", cfg.OpenTelemetry.Protocol)
	assert.Equal(t, 1.0, cfg.OpenTelemetry.SamplingRate)
}

func TestNewConfig_MissingFileFails(t *testing.T) {
	t.Setenv("FEEDBACK_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestDuration_UnmarshalYAML_Invalid(t *testing.T) {
	tempFile := createTempConfigFile(t, `
database:
  conn_max_lifetime: "not-a-duration"
`)
	t.Setenv("FEEDBACK_CONFIG_FILE", tempFile)

	_, err := NewConfig()
	assert.Error(t, err)
}
