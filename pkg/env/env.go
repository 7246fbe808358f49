package env

import (
	"os"
	"strings"
)

// Prefix namespaces the service's variables, matching the config loader.
const Prefix = "ZORA_"

// Get returns ZORA_<key>, then the bare key, then fallback. Used for settings read before the
// config is loaded, such as the log format.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
