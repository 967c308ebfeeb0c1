package command

import (
	"fmt"

	"github.com/eslym/phantoman/pkg/config"
)

// flagMapping maps configuration keys to PhantomJS command-line flags.
var flagMapping = map[string]string{
	"port":                   "--webdriver",
	"proxy":                  "--proxy",
	"proxyType":              "--proxy-type",
	"proxyAuth":              "--proxy-auth",
	"webSecurity":            "--web-security",
	"ignoreSslErrors":        "--ignore-ssl-errors",
	"sslProtocol":            "--ssl-protocol",
	"sslCertificatesPath":    "--ssl-certificates-path",
	"remoteDebuggerPort":     "--remote-debugger-port",
	"remoteDebuggerAutorun":  "--remote-debugger-autorun",
	"cookiesFile":            "--cookies-file",
	"diskCache":              "--disk-cache",
	"maxDiskCacheSize":       "--max-disk-cache-size",
	"loadImages":             "--load-images",
	"localStoragePath":       "--local-storage-path",
	"localStorageQuota":      "--local-storage-quota",
	"localToRemoteUrlAccess": "--local-to-remote-url-access",
	"outputEncoding":         "--output-encoding",
	"scriptEncoding":         "--script-encoding",
	"webdriverLoglevel":      "--webdriver-loglevel",
	"webdriverLogfile":       "--webdriver-logfile",
}

// Mapper turns configuration entries into command-line flags.
type Mapper interface {
	Flags(cfg *config.Config) []string
}

type flagMapper struct{}

func NewMapper() Mapper {
	return flagMapper{}
}

// Flags returns one "--flag=value" per recognised key, in config order.
// Unknown keys and nil values are skipped.
func (flagMapper) Flags(cfg *config.Config) []string {
	var flags []string
	for _, e := range cfg.Entries() {
		flag, ok := flagMapping[e.Key]
		if !ok || e.Value == nil {
			continue
		}
		flags = append(flags, flag+"="+renderValue(e.Value))
	}
	return flags
}

func renderValue(v any) string {
	switch value := v.(type) {
	case bool:
		// never 1/0
		if value {
			return "true"
		}
		return "false"
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
