package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sentiment-watchdog", cfg.Service.Name)
	assert.Equal(t, 8000, cfg.Service.Port)
	assert.Equal(t, "default", cfg.Service.DefaultWorkspace)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "watchdog.db", cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 50, cfg.Classifier.RPS)
	assert.Equal(t, cfg.Classifier.RPS, cfg.Classifier.Burst)
	assert.Equal(t, 587, cfg.Alerts.SMTP.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Alerts.EmailEnabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
service:
  port: 9100
  default_workspace: acme
database:
  driver: postgres
  dsn: "host=localhost dbname=watchdog sslmode=disable"
classifier:
  rps: 10
  burst: 20
alerts:
  email_enabled: true
  recipients:
    - oncall@example.com
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Service.Port)
	assert.Equal(t, "acme", cfg.Service.DefaultWorkspace)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Classifier.RPS)
	assert.Equal(t, 20, cfg.Classifier.Burst)
	assert.True(t, cfg.Alerts.EmailEnabled)
	assert.Equal(t, []string{"oncall@example.com"}, cfg.Alerts.Recipients)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset sections still get their defaults.
	assert.Equal(t, "sentiment-watchdog", cfg.Service.Name)
	assert.Equal(t, 587, cfg.Alerts.SMTP.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	content := `
service:
  port: 9100
database:
  driver: sqlite
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("WATCHDOG_PORT", "9200")
	t.Setenv("WATCHDOG_DB_DRIVER", "postgres")
	t.Setenv("WATCHDOG_DB_DSN", "host=db dbname=watchdog")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("ALERT_EMAIL_ENABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Service.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db dbname=watchdog", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "smtp.example.com", cfg.Alerts.SMTP.Host)
	assert.Equal(t, 2525, cfg.Alerts.SMTP.Port)
	assert.True(t, cfg.Alerts.EmailEnabled)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [not a mapping"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
