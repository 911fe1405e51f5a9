package config

import "os"

// PathEnv overrides the settings file location.
const PathEnv = "LULL_SETTINGS"

// PathFromEnv returns the settings path from PathEnv, or empty for the default.
func PathFromEnv() string {
	return os.Getenv(PathEnv)
}
