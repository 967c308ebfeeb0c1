package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigPath overrides config file discovery.
const EnvConfigPath = "PHANTOMAN_CONFIG_PATH"

func ResolveConfigPath(files ...string) (string, error) {
	if value, exists := os.LookupEnv(EnvConfigPath); exists {
		return value, nil
	}

	lookup := getResolutionPath()

	for _, dir := range lookup {
		for _, file := range files {
			path := filepath.Join(dir, file)
			stat, err := os.Stat(path)
			if err == nil && !stat.IsDir() {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%w in %v", ErrConfigNotFound, lookup)
}

func getBaseResolutionPath() []string {
	var paths []string

	if dir, err := os.Getwd(); err == nil {
		paths = append(paths, dir)
	}

	if exe, err := os.Executable(); err == nil {
		path := filepath.Dir(filepath.Dir(exe))
		paths = append(paths, path)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "Phantoman"))
	}

	return paths
}
