package env

import "os"

// Get returns the value of the named environment variable or the fallback.
func Get(name, fallback string) string {
	if value, ok := os.LookupEnv(name); ok {
		return value
	}
	return fallback
}
