// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for roster configuration.
	DefaultConfigDir = ".roster"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Store    StoreConfig    `yaml:"store,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Audit    AuditConfig    `yaml:"audit,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	HTTP     HTTPConfig     `yaml:"http,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// StoreConfig selects the primary entity store.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"`
}

// SQLiteConfig holds configuration for a SQLite database.
type SQLiteConfig struct {
	// Path is the database file. Relative paths resolve against the project directory.
	Path string `yaml:"path,omitempty"`
}

// AuditConfig selects the audit store. It is always a separate handle from
// the entity store.
type AuditConfig struct {
	Driver     string `yaml:"driver,omitempty"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// PostgresConfig holds the connection and pool settings for PostgreSQL.
// Durations are in seconds; zero values take the pool defaults.
type PostgresConfig struct {
	ConnString        string `yaml:"conn_string,omitempty"`
	MaxConns          int32  `yaml:"max_conns,omitempty"`
	MinConns          int32  `yaml:"min_conns,omitempty"`
	MaxConnLifetime   int32  `yaml:"max_conn_lifetime,omitempty"`
	MaxConnIdleTime   int32  `yaml:"max_conn_idle_time,omitempty"`
	HealthCheckPeriod int32  `yaml:"health_check_period,omitempty"`
	ConnectTimeout    int32  `yaml:"connect_timeout,omitempty"`
}

// HTTPConfig holds the API server settings. Timeouts are in seconds.
type HTTPConfig struct {
	Addr            string `yaml:"addr,omitempty"`
	ReadTimeout     int    `yaml:"read_timeout,omitempty"`
	WriteTimeout    int    `yaml:"write_timeout,omitempty"`
	ShutdownTimeout int    `yaml:"shutdown_timeout,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Pretty bool   `yaml:"pretty,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Driver: DriverSQLite},
		SQLite: SQLiteConfig{Path: filepath.Join(DefaultConfigDir, "data", "roster.db")},
		Audit: AuditConfig{
			Driver:     DriverSQLite,
			SQLitePath: filepath.Join(DefaultConfigDir, "data", "audit.db"),
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10,
			WriteTimeout:    10,
			ShutdownTimeout: 15,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load loads configuration from the .roster directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'roster init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv("ROSTER_POSTGRES_DSN"); dsn != "" {
		c.Postgres.ConnString = dsn
	}
	if addr := os.Getenv("ROSTER_HTTP_ADDR"); addr != "" {
		c.HTTP.Addr = addr
	}
	if level := os.Getenv("ROSTER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Validate checks driver names and their required settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, errors.New("sqlite.path is required for the sqlite store"))
		}
	case DriverPostgres:
		if c.Postgres.ConnString == "" {
			errs = append(errs, errors.New("postgres.conn_string is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q (valid: sqlite, postgres)", c.Store.Driver))
	}

	switch c.Audit.Driver {
	case DriverSQLite:
		if c.Audit.SQLitePath == "" {
			errs = append(errs, errors.New("audit.sqlite_path is required for the sqlite audit store"))
		}
	case DriverPostgres:
		if c.Postgres.ConnString == "" {
			errs = append(errs, errors.New("postgres.conn_string is required for the postgres audit store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown audit driver %q (valid: sqlite, postgres)", c.Audit.Driver))
	}

	if c.Store.Driver == DriverSQLite && c.Audit.Driver == DriverSQLite && c.SQLite.Path == c.Audit.SQLitePath {
		errs = append(errs, errors.New("audit.sqlite_path must differ from sqlite.path"))
	}

	return errors.Join(errs...)
}

// ResolvePath returns p unchanged when absolute or in-memory, otherwise
// joined to basePath.
func ResolvePath(basePath, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, ":memory:") || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(basePath, p)
}

// ConfigDir returns the path to the .roster config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a roster config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
