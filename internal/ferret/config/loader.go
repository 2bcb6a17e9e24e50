package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the conventional configuration file name. Load
// does not search for it: an empty path yields DefaultConfig.
const ConfigFileName = "ferret.yaml"

// Load loads configuration from path, or returns DefaultConfig
// unmodified if path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return loadFromFile(path)
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects tuning values that would make the search pipeline
// misbehave rather than merely produce unusual scores.
func (c *Config) Validate() error {
	if c.Search.DefaultTopN < 0 {
		return fmt.Errorf("search.default_top_n must be >= 0, got %d", c.Search.DefaultTopN)
	}
	if c.Rewrite.MaxExpandedTerms < 0 {
		return fmt.Errorf("rewrite.max_expanded_terms must be >= 0, got %d", c.Rewrite.MaxExpandedTerms)
	}
	return nil
}
