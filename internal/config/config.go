// Package config loads flight-plan settings from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by every command.
type Config struct {
	DBPath   string
	LogLevel string
}

// Load reads an optional .env file and the FLIGHTPLAN_* variables.
func Load() *Config {
	// A missing .env is fine.
	godotenv.Load()

	return &Config{
		DBPath:   getEnv("FLIGHTPLAN_DB", defaultDBPath()),
		LogLevel: getEnv("FLIGHTPLAN_LOG_LEVEL", "warn"),
	}
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".flight-plan", "flight-plan.db")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
