// Package models defines data structures for configuration and compression results.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxMappings = 50
	DefaultTopTags     = 10

	ScannerPattern = "pattern"
	ScannerStrict  = "strict"

	ReportText = "text"
	ReportYAML = "yaml"
)

// Config holds runtime configuration for a compression run.
// Values come from CLI flags, optionally overlaid by a YAML file.
type Config struct {
	MaxMappings  int    `yaml:"max_mappings"`
	Scanner      string `yaml:"scanner"`
	Verify       bool   `yaml:"verify"`
	HistoryDB    string `yaml:"history_db"`
	ReportFormat string `yaml:"report_format"`
	TopTags      int    `yaml:"top_tags"`
}

// DefaultConfig returns the configuration used when no flags or file are given.
func DefaultConfig() Config {
	return Config{
		MaxMappings:  DefaultMaxMappings,
		Scanner:      ScannerPattern,
		ReportFormat: ReportText,
		TopTags:      DefaultTopTags,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: reading config %s: %v", ErrIO, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing config %s: %v", ErrConfiguration, path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	if c.MaxMappings <= 0 {
		return fmt.Errorf("%w: max_mappings must be a positive integer, got %d", ErrConfiguration, c.MaxMappings)
	}
	switch c.Scanner {
	case ScannerPattern, ScannerStrict:
	default:
		return fmt.Errorf("%w: unknown scanner %q (want %q or %q)", ErrConfiguration, c.Scanner, ScannerPattern, ScannerStrict)
	}
	switch c.ReportFormat {
	case ReportText, ReportYAML:
	default:
		return fmt.Errorf("%w: unknown report format %q", ErrConfiguration, c.ReportFormat)
	}
	if c.TopTags < 0 {
		return fmt.Errorf("%w: top_tags must not be negative", ErrConfiguration)
	}
	return nil
}
