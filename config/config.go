package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration, loaded from the environment with
// an optional .env file for local development.
type Config struct {
	AppName    string
	Port       int
	LogLevel   string
	PrettyLogs bool

	HTTPServerWriteTimeout time.Duration
	HTTPServerReadTimeout  time.Duration
	HTTPServerIdleTimeout  time.Duration

	// DatabasePath is the SQLite file. ":memory:" is accepted for throwaway
	// environments.
	DatabasePath           string
	DatabaseBusyTimeout    time.Duration
	DatabaseMigrateOnStart bool

	TracingExporter string
	TracingEndpoint string
	TracingInsecure bool
}

// Load reads configuration from the environment. A .env file is applied
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:    getEnv("APP_NAME", "wwtp-equipment-api"),
		Port:       getEnvAsInt("PORT", 8080),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		PrettyLogs: getEnvAsBool("PRETTY_LOGS", false),

		HTTPServerWriteTimeout: getEnvAsDuration("HTTP_SERVER_WRITE_TIMEOUT", 10*time.Second),
		HTTPServerReadTimeout:  getEnvAsDuration("HTTP_SERVER_READ_TIMEOUT", 10*time.Second),
		HTTPServerIdleTimeout:  getEnvAsDuration("HTTP_SERVER_IDLE_TIMEOUT", 60*time.Second),

		DatabasePath:           getEnv("DB_PATH", "wwtp_equipment.db"),
		DatabaseBusyTimeout:    getEnvAsDuration("DB_BUSY_TIMEOUT", 5*time.Second),
		DatabaseMigrateOnStart: getEnvAsBool("DB_MIGRATE_ON_START", true),

		TracingExporter: getEnv("TRACING_EXPORTER", "none"),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", ""),
		TracingInsecure: getEnvAsBool("TRACING_INSECURE", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %d", c.Port)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
