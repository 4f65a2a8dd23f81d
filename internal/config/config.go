// Package config loads service configuration from a YAML file with
// environment variable overrides and per-section defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName       = "sentiment-watchdog"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8000
	defaultWorkspace         = "default"
	defaultDBDriver          = "sqlite"
	defaultDBDSN             = "watchdog.db"
	defaultDBMaxConns        = 25
	defaultDBMaxIdleConns    = 5
	defaultClassifierTimeout = 5 * time.Second
	defaultClassifierRPS     = 50
	defaultLogLevel          = "info"
	defaultSMTPPort          = 587
)

// Config holds all configuration for the watchdog service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Database   DatabaseConfig   `yaml:"database"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name             string `yaml:"name"`
	Version          string `yaml:"version"`
	Port             int    `env:"WATCHDOG_PORT" yaml:"port"`
	Debug            bool   `env:"APP_DEBUG"     yaml:"debug"`
	DefaultWorkspace string `yaml:"default_workspace"`
}

// DatabaseConfig holds persistence configuration. Driver is either
// "postgres" or "sqlite"; sqlite is the dev/test default.
type DatabaseConfig struct {
	Driver          string        `env:"WATCHDOG_DB_DRIVER" yaml:"driver"`
	DSN             string        `env:"WATCHDOG_DB_DSN"    yaml:"dsn"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ClassifierConfig holds settings for the external sentiment classifier.
type ClassifierConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	RPS     int           `yaml:"rps"`
	Burst   int           `yaml:"burst"`
}

// AlertsConfig holds notification delivery settings.
type AlertsConfig struct {
	EmailEnabled bool       `env:"ALERT_EMAIL_ENABLED" yaml:"email_enabled"`
	Recipients   []string   `yaml:"recipients"`
	SMTP         SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds SMTP relay settings for email notifications.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"     yaml:"host"`
	Port     int    `env:"SMTP_PORT"     yaml:"port"`
	Username string `env:"SMTP_USERNAME" yaml:"username"`
	Password string `env:"SMTP_PASSWORD" yaml:"password"`
	From     string `env:"SMTP_FROM"     yaml:"from"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads configuration from path (optional), applies environment
// overrides and defaults. A missing file is not an error; env and defaults
// still apply. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, unmarshalErr)
			}
		case os.IsNotExist(err):
			// fall through to env + defaults
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WATCHDOG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Service.Port = port
		}
	}
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Service.Debug = v == "true" || v == "1"
	}
	if v := os.Getenv("WATCHDOG_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("WATCHDOG_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("ALERT_EMAIL_ENABLED"); v != "" {
		cfg.Alerts.EmailEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Alerts.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Alerts.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Alerts.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Alerts.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.Alerts.SMTP.From = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setClassifierDefaults(&cfg.Classifier)
	setAlertsDefaults(&cfg.Alerts)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.DefaultWorkspace == "" {
		s.DefaultWorkspace = defaultWorkspace
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = defaultDBDriver
	}
	if d.DSN == "" {
		d.DSN = defaultDBDSN
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setClassifierDefaults(c *ClassifierConfig) {
	if c.Timeout == 0 {
		c.Timeout = defaultClassifierTimeout
	}
	if c.RPS == 0 {
		c.RPS = defaultClassifierRPS
	}
	if c.Burst == 0 {
		c.Burst = c.RPS
	}
}

func setAlertsDefaults(a *AlertsConfig) {
	if a.SMTP.Port == 0 {
		a.SMTP.Port = defaultSMTPPort
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}
