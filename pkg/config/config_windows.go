//go:build windows

package config

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

func getResolutionPath() []string {
	paths := getBaseResolutionPath()

	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Phantoman`, registry.READ)
	if err == nil {
		v, _, err := key.GetStringValue("ConfigPath")
		if err == nil && v != "" {
			paths = append(paths, v)
		}
		_ = key.Close()
	}

	if os.Getenv("ProgramData") != "" {
		paths = append(paths, filepath.Join(os.Getenv("ProgramData"), "Phantoman"))
	}

	return paths
}
