// filepath: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAdminPassword is the well-known bootstrap password for the seeded
// 'admin' account. This is a deliberate convenience for a single-operator
// desktop tool and documented as a security caveat; override it via
// config, flag or environment before deploying anywhere that matters.
const DefaultAdminPassword = "admin"

// Config holds the application's configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Admin    AdminConfig    `toml:"admin"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	File         string `toml:"file"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// AdminConfig controls the bootstrap admin account handling at startup.
type AdminConfig struct {
	DefaultPassword string `toml:"default_password"`
	// ResetOnStartup forces the admin password back to DefaultPassword on
	// every launch. On by default; see the README caveat.
	ResetOnStartup bool `toml:"reset_on_startup"`
}

// Default returns a config with the documented defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.Admin.ResetOnStartup = true
	_ = cfg.ParseAndValidate()
	return cfg
}

// LoadConfig loads the configuration from a TOML file. Values absent from
// the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	config := Config{}
	config.Admin.ResetOnStartup = true
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ParseAndValidate fills in defaults and rejects malformed values.
func (c *Config) ParseAndValidate() error {
	if c.Database.Path == "" {
		c.Database.Path = "people.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "peopledb.log"
	}
	if c.Admin.DefaultPassword == "" {
		c.Admin.DefaultPassword = DefaultAdminPassword
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	return nil
}
