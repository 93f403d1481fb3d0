package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all portcheck configuration.
type Config struct {
	Port         uint16 `yaml:"port"`          // port checked when --port is not given
	LsofPath     string `yaml:"lsof_path"`     // lookup utility binary
	ColorEnabled bool   `yaml:"color_enabled"` // style human output
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Port:         8080,
		LsofPath:     "lsof",
		ColorEnabled: true,
	}
}

// Load loads config from the given path. If path is empty, it uses the
// default location (~/.config/portcheck/config.yaml). If the file does not
// exist, it returns defaults without creating the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(path)
}

// LoadFrom loads and parses config from the given path. Missing fields
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "portcheck", "config.yaml")
}
