// Package config loads valuation run configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete valuation run configuration.
type Config struct {
	Terms      string           `json:"terms" yaml:"terms"`
	Paths      PathsConfig      `json:"paths" yaml:"paths"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	MonteCarlo MonteCarloConfig `json:"monte_carlo" yaml:"monte_carlo"`
}

// PathsConfig locates the simulated path batch.
type PathsConfig struct {
	// File is a CSV path file; .xz files are decompressed transparently.
	File string `json:"file" yaml:"file"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	RunsFile      string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	ScenariosFile string `json:"scenarios_file,omitempty" yaml:"scenarios_file,omitempty"`
}

// MonteCarloConfig contains batch execution parameters.
type MonteCarloConfig struct {
	// NumWorkers <= 0 means one worker per CPU.
	NumWorkers int `json:"num_workers,omitempty" yaml:"num_workers,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Terms == "" {
		return fmt.Errorf("terms is required")
	}
	if c.Paths.File == "" {
		return fmt.Errorf("paths.file is required")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.ScenariosFile == "" {
			return fmt.Errorf("journal runs_file and scenarios_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}
