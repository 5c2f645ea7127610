package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files (default ".env") into the
// process environment. Variables that are already set win. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		LogDebug("No .env file loaded", map[string]interface{}{"reason": err.Error()})
	}
}

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

// GetenvInt is Getenv for integer values. Unparseable values yield the fallback.
func GetenvInt(key string, fallback int) int {
	value, err := strconv.Atoi(Getenv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

// GetenvDuration parses a time.Duration ("10s", "800ms") from the environment.
func GetenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Getenv(key, "")
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
