package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigFiles are the file names looked up when no config path is given.
var ConfigFiles = []string{
	"phantoman.yml",
	"phantoman.yaml",
	"phantoman.json",
}

// FindConfigFile returns configPath when set, otherwise searches the default locations.
func FindConfigFile(configPath string) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return ResolveConfigPath(ConfigFiles...)
}

// LoadConfig loads the configuration from a file.
func LoadConfig(configPath string) (*Config, error) {
	foundPath, err := FindConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(foundPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, foundPath)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// JSON is parsed by the YAML decoder as well, so both keep key order.
	ext := strings.ToLower(filepath.Ext(foundPath))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: unsupported config file format %q, use .json or .yaml", ErrInvalidConfig, ext)
	}

	cfg, err := Parse(data, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", foundPath, err)
	}
	return cfg, nil
}
