// Package config loads the esedbexport configuration file.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-data-exporter/esedb-exporter/exchange"
)

// Config is the root configuration.
type Config struct {
	Source SourceConfig  `yaml:"source"`
	Tables []TableConfig `yaml:"tables"`
	Output OutputConfig  `yaml:"output"`
	Log    LogConfig     `yaml:"log"`
}

// SourceConfig selects where records are read from.
type SourceConfig struct {
	// Driver is "sqlite" or "hive".
	Driver string `yaml:"driver"`

	// DSN is the SQLite database file or connection string.
	DSN string `yaml:"dsn"`

	Hive HiveConfig `yaml:"hive"`
}

// HiveConfig holds the HiveServer2 connection settings.
type HiveConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Auth string `yaml:"auth"`
}

// TableConfig names a table to export. An empty Schema picks the rule
// table from the table name.
type TableConfig struct {
	Name   string `yaml:"name"`
	Schema string `yaml:"schema"`
}

// ResolveSchema returns the rule table for the table.
func (t TableConfig) ResolveSchema() (*exchange.Schema, error) {
	if t.Schema == "" {
		return exchange.SchemaForTable(t.Name), nil
	}
	return exchange.SchemaByName(t.Schema)
}

type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"`
	Workers int    `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values and validates the configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides (ESEDBEXPORT_SOURCE_DSN,
// ESEDBEXPORT_OUTPUT_DIR, ESEDBEXPORT_LOG_LEVEL).
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ESEDBEXPORT_SOURCE_DSN"); val != "" {
		cfg.Source.DSN = val
	}
	if val := os.Getenv("ESEDBEXPORT_OUTPUT_DIR"); val != "" {
		cfg.Output.Dir = val
	}
	if val := os.Getenv("ESEDBEXPORT_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.Source.Driver == "" {
		cfg.Source.Driver = "sqlite"
	}
	if cfg.Source.Hive.Host == "" {
		cfg.Source.Hive.Host = "localhost"
	}
	if cfg.Source.Hive.Port == 0 {
		cfg.Source.Hive.Port = 10000
	}
	if cfg.Source.Hive.Auth == "" {
		cfg.Source.Hive.Auth = "NONE"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "tsv"
	}
	if cfg.Output.Workers <= 0 {
		cfg.Output.Workers = 1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate reports every invalid field at once.
func Validate(cfg *Config) error {
	var errs []error
	switch cfg.Source.Driver {
	case "sqlite":
		if cfg.Source.DSN == "" {
			errs = append(errs, errors.New("source.dsn is required for the sqlite driver"))
		}
	case "hive":
		if cfg.Source.Hive.Port <= 0 || cfg.Source.Hive.Port > 65535 {
			errs = append(errs, fmt.Errorf("source.hive.port out of range: %d", cfg.Source.Hive.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported source.driver: %q", cfg.Source.Driver))
	}
	for i, t := range cfg.Tables {
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("tables[%d].name is required", i))
		}
		if _, err := t.ResolveSchema(); err != nil {
			errs = append(errs, fmt.Errorf("tables[%d].schema: %w", i, err))
		}
	}
	switch cfg.Output.Format {
	case "tsv", "csv", "json", "html", "xml":
	default:
		errs = append(errs, fmt.Errorf("unsupported output.format: %q", cfg.Output.Format))
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unsupported log.level: %q", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log.format: %q", cfg.Log.Format))
	}
	return errors.Join(errs...)
}
