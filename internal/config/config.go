package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file written into a data directory.
const FileName = "finance.yaml"

// Config represents the top-level finance.yaml configuration.
type Config struct {
	Database   string           `yaml:"database"` // path to the SQLite file, relative to the data dir
	Currency   string           `yaml:"currency"` // symbol used when printing amounts
	Recurrence RecurrenceConfig `yaml:"recurrence"`
}

// RecurrenceConfig controls the background materializer.
type RecurrenceConfig struct {
	Interval string `yaml:"interval"` // time.ParseDuration syntax, e.g. "1h"
}

// MaterializeInterval returns the configured materializer interval, or zero
// if unset or unparsable (callers fall back to their own default).
func (c *Config) MaterializeInterval() time.Duration {
	d, err := time.ParseDuration(c.Recurrence.Interval)
	if err != nil {
		return 0
	}
	return d
}

// Load reads a finance.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default() *Config {
	return &Config{
		Database: "finance.db",
		Currency: "$",
		Recurrence: RecurrenceConfig{
			Interval: "1h",
		},
	}
}
