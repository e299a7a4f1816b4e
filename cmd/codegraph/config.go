package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// defaultOutputPath is where the graph artifact lands when neither flag nor
// config file names one.
const defaultOutputPath = "codegraph.json"

// ProjectConfig holds the contents of .codegraph/config.yaml.
type ProjectConfig struct {
	Output    string   `yaml:"output"`
	Exclude   []string `yaml:"exclude"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
}

// loadProjectConfig reads .codegraph/config.yaml from the current directory.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(".codegraph/config.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveOutputPath returns the artifact path to use, applying the fallback
// chain:
//  1. Explicit --output flag value (non-empty override)
//  2. output from .codegraph/config.yaml
//  3. Default: codegraph.json
func resolveOutputPath(flagValue string, cfg *ProjectConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.Output != "" {
		return cfg.Output
	}
	return defaultOutputPath
}
