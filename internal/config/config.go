package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBConnectionString string
	MigrationsEnabled  bool

	// Auth
	JWTSecret       string
	JWTAccessTTL    time.Duration
	JWTRefreshTTL   time.Duration
	CronSecret      string
	TwoFactorIssuer string

	// Scheduler
	AutoSavingsSchedule string
	SchedulerEnabled    bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are loaded first; variables already set win.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),
		MigrationsEnabled:  getEnvBool("MIGRATIONS_ENABLED", true),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessTTL:    getEnvDuration("JWT_ACCESS_TTL", 7*24*time.Hour),
		JWTRefreshTTL:   getEnvDuration("JWT_REFRESH_TTL", 720*time.Hour),
		CronSecret:      getEnv("CRON_SECRET", ""),
		TwoFactorIssuer: getEnv("TWO_FACTOR_ISSUER", "FinanceLedger"),

		AutoSavingsSchedule: getEnv("AUTO_SAVINGS_SCHEDULE", "0 0 * * *"),
		SchedulerEnabled:    getEnvBool("SCHEDULER_ENABLED", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBConnectionString == "" {
		errors = append(errors, "DB_CONNECTION_STRING is required")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}
	if c.JWTAccessTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid access token ttl %v: must be positive", c.JWTAccessTTL))
	}
	if c.JWTRefreshTTL < c.JWTAccessTTL {
		errors = append(errors, fmt.Sprintf("invalid refresh token ttl %v: must not be shorter than the access token ttl", c.JWTRefreshTTL))
	}

	if c.SchedulerEnabled {
		if _, err := cron.ParseStandard(c.AutoSavingsSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("invalid auto savings schedule '%s': %v", c.AutoSavingsSchedule, err))
		}
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'console' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
