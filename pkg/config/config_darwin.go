//go:build darwin

package config

func getResolutionPath() []string {
	return append(getBaseResolutionPath(), "/Library/Application Support/Phantoman")
}
