//go:build !windows && !darwin

package config

func getResolutionPath() []string {
	return append(getBaseResolutionPath(), "/usr/local/etc/phantoman")
}
