package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	JWTSecret    string
	FrontendURL  string
	Env          string // "development" or "production"
	ReminderCron string // cron expression for the due-date reminder scan
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./taskhive.db"),
		JWTSecret:    getEnv("JWT_SECRET", "default_secret"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		Env:          getEnv("APP_ENV", "development"),
		ReminderCron: getEnv("REMINDER_CRON", "*/5 * * * *"),
	}, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
