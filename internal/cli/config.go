package cli

import (
	"os"
	"strconv"
)

// Config holds server CLI configuration
type Config struct {
	Host           string
	Port           int
	StorageType    string
	RedisURL       string
	DictionaryPath string
	RandomSeed     int64
	EndOnLeave     bool
}

// DefaultConfig returns a Config with default values, taking environment
// variables into account.
func DefaultConfig() *Config {
	return &Config{
		Host:           os.Getenv("ORDGRID_HOST"),
		Port:           getEnvIntOrDefault("ORDGRID_PORT", 8080),
		StorageType:    getEnvOrDefault("ORDGRID_STORAGE", "memory"),
		RedisURL:       os.Getenv("ORDGRID_REDIS_URL"),
		DictionaryPath: getEnvOrDefault("ORDGRID_DICTIONARY", "data/words.txt"),
		EndOnLeave:     os.Getenv("ORDGRID_END_ON_LEAVE") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
