package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Instances: InstancesConfig{Path: "recyclarr.yml"},
		Connection: ConnectionConfig{
			Timeout:     30 * time.Second,
			Concurrency: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:    "missing instances path",
			modify:  func(c *Config) { c.Instances.Path = " " },
			wantErr: "instances.path is required",
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Connection.Timeout = 0 },
			wantErr: "connection.timeout must be positive",
		},
		{
			name:    "zero concurrency",
			modify:  func(c *Config) { c.Connection.Concurrency = 0 },
			wantErr: "connection.concurrency must be at least 1",
		},
		{
			name:    "empty preset",
			modify:  func(c *Config) { c.Filter.Presets = map[string]string{"broken": ""} },
			wantErr: "filter preset 'broken' has an empty expression",
		},
		{
			name:    "invalid logging level",
			modify:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "invalid logging level: trace",
		},
		{
			name:   "uppercase logging level and format",
			modify: func(c *Config) { c.Logging.Level = "DEBUG"; c.Logging.Format = "JSON" },
		},
		{
			name:    "invalid logging format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arrconf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "recyclarr.yml", cfg.Instances.Path)
	assert.Equal(t, 30*time.Second, cfg.Connection.Timeout)
	assert.Equal(t, 5, cfg.Connection.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
instances:
  path: /config/recyclarr.yml
connection:
  timeout: 5s
  concurrency: 2
filter:
  default: Service == "radarr"
  presets:
    anime: hasQualityProfile("Anime")
logging:
  level: debug
  format: json
  color: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/config/recyclarr.yml", cfg.Instances.Path)
	assert.Equal(t, 5*time.Second, cfg.Connection.Timeout)
	assert.Equal(t, 2, cfg.Connection.Concurrency)
	assert.Equal(t, `Service == "radarr"`, cfg.Filter.DefaultExpression)
	assert.Equal(t, map[string]string{"anime": `hasQualityProfile("Anime")`}, cfg.Filter.Presets)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Logging.Color)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ARRCONF_LOGGING_LEVEL", "warn")
	t.Setenv("ARRCONF_INSTANCES_PATH", "/tmp/other.yml")

	cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/other.yml", cfg.Instances.Path)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")

	_, err = Load(writeConfig(t, "logging:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level: loud")
}

func TestLoadNormalizesLoggingCase(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: DEBUG\n  format: Json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}
