package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDriver        string
	DatabaseURL           string
	JWTSecret             string
	JWTExpiration         time.Duration
	ServerPort            string
	Timezone              string
	MissingReportSchedule string
	MissingReportEnabled  bool

	location *time.Location
}

// Load reads configuration from the environment, after merging in a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring unreadable .env file: %v", err)
	}

	expiration, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parsing JWT_EXPIRATION: %w", err)
	}

	enabled, err := strconv.ParseBool(getEnv("MISSING_REPORT_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("parsing MISSING_REPORT_ENABLED: %w", err)
	}

	cfg := &Config{
		DatabaseDriver:        getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseURL:           getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/projectdb"),
		JWTSecret:             getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:         expiration,
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		Timezone:              getEnv("APP_TIMEZONE", "Local"),
		MissingReportSchedule: getEnv("MISSING_REPORT_SCHEDULE", "0 0 9 * * *"),
		MissingReportEnabled:  enabled,
	}

	cfg.location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location is the single time zone in which "today" is evaluated.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
