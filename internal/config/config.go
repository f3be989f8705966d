// Package config loads the optional YAML defaults file for the jarr CLI.
// Command-line flags override anything set here; absence of a config file
// is not an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the writer parameters the CLI can preset per project.
type Config struct {
	File      string `yaml:"file"`      // target array file
	Compact   bool   `yaml:"compact"`   // disable pretty printing
	Indent    int    `yaml:"indent"`    // indentation width when pretty
	NoCreate  bool   `yaml:"no_create"` // disable auto-initialization of absent/empty files
	Threshold int    `yaml:"threshold"` // pending entries per file mutation
}

// DefaultConfig returns the defaults used when no file is found: pretty
// output with two-space indent, auto-initialization on, flush per entry.
func DefaultConfig() *Config {
	return &Config{
		Indent:    2,
		Threshold: 1,
	}
}

// Load reads configuration from a file. If path is specified, it attempts
// to load exactly that file. If path is empty, default locations are tried
// in order and missing files fall back to DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"jarr.yaml", ".jarr.yaml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
