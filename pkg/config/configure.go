package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// IsWindows reports whether a platform identifier (GOOS or similar) names Windows.
// Only a leading "win" counts, so "darwin" is not Windows.
func IsWindows(platform string) bool {
	return strings.HasPrefix(strings.ToLower(platform), "win")
}

// Configurator fills in defaults and resolves the executable path.
type Configurator struct {
	platform string
}

func NewConfigurator() *Configurator {
	return &Configurator{platform: runtime.GOOS}
}

// NewConfiguratorFor is NewConfigurator for an explicit platform identifier.
func NewConfiguratorFor(platform string) *Configurator {
	return &Configurator{platform: platform}
}

// Configure returns a finalized copy of cfg: the executable path is absolute
// and exists, and port, debug and logDir are set.
func (c *Configurator) Configure(cfg *Config) (*Config, error) {
	out := cfg.Clone()

	path, err := c.findExecutable(out.Path())
	if err != nil {
		return nil, err
	}
	out.Set(KeyPath, path)

	if v, ok := out.Get(KeyPort); !ok || v == nil {
		out.Set(KeyPort, DefaultPort)
	} else if port, ok := intValue(v); ok {
		out.Set(KeyPort, port)
	} else {
		return nil, fmt.Errorf("%w: port must be an integer, got %v", ErrInvalidConfig, v)
	}

	if v, ok := out.Get(KeyDebug); !ok || v == nil {
		out.Set(KeyDebug, false)
	} else if debug, ok := boolValue(v); ok {
		out.Set(KeyDebug, debug)
	} else {
		return nil, fmt.Errorf("%w: debug must be a boolean, got %v", ErrInvalidConfig, v)
	}

	if out.LogDir() == "" {
		out.Set(KeyLogDir, DefaultLogDir)
	}

	return out, nil
}

func (c *Configurator) findExecutable(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}

	if IsWindows(c.platform) && !strings.HasSuffix(strings.ToLower(path), ".exe") {
		if isFile(path + ".exe") {
			path += ".exe"
		}
	}

	resolved, err := realpath(path)
	if err != nil || !isFile(resolved) {
		return "", fmt.Errorf("%w: %s", ErrExecutableNotFound, path)
	}
	return resolved, nil
}

func realpath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func isFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}
