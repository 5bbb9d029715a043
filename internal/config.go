package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Backend BackendConfig     `yaml:"backend"`
	Audit   AuditConfig       `yaml:"audit"`
	EAD     EADConfig         `yaml:"ead"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	return c.Audit.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// BackendConfig holds the archival backend connection settings.
type BackendConfig struct {
	URL             string        `yaml:"url"`
	FrontendURL     string        `yaml:"frontend_url"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Repository      int           `yaml:"repository"`
	Timeout         time.Duration `yaml:"timeout"`
	ExpiringSession bool          `yaml:"expiring_session"`
	Retry           RetryConfig   `yaml:"retry"`
}

// Validate validates the backend configuration.
func (c *BackendConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.Username, validation.Required),
	); err != nil {
		return err
	}
	return c.Retry.Validate()
}

// RetryConfig controls how read requests are retried after dropped
// connections.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
}

// Validate validates the retry configuration.
func (c *RetryConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Attempts, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if c.Backoff < 0 {
		return fmt.Errorf("retry: backoff must not be negative")
	}
	return nil
}

// AuditConfig holds the bulk-operation journal settings.
type AuditConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the audit configuration.
func (c *AuditConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SQLitePath, validation.Required),
	)
}

// EADConfig holds the finding-aid drop directory settings. An empty
// directory disables the watcher.
type EADConfig struct {
	DropDir string `yaml:"drop_dir"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Backend: BackendConfig{
			URL:        "http://localhost:8089",
			Username:   "admin",
			Repository: 2,
			Timeout:    30 * time.Second,
			Retry: RetryConfig{
				Attempts: 3,
				Backoff:  2 * time.Second,
			},
		},
		Audit: AuditConfig{
			SQLitePath: "./fonds.db",
		},
	}
}
