// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the generator configuration
type Config struct {
	// Optional reference databases
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// Generation settings
	Seed            int64 // 0 means a random reproducibility code is chosen per run
	HistoryCapacity int   // 0 means unbounded history
	Workers         int   // 0 or 1 means sequential generation

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables, reading a
// .env file from the working directory first when one exists
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom is LoadConfig with an explicit dotenv path. Variables
// already present in the environment take precedence over the file.
func LoadConfigFrom(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
			}
		}
	}

	cfg := &Config{
		Seed:            getEnvAsInt64("SYNTH_SEED", 0),
		HistoryCapacity: getEnvAsInt("SYNTH_HISTORY_CAPACITY", 0),
		Workers:         getEnvAsInt("SYNTH_WORKERS", 0),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}

	// Reference databases are optional: only load them when configured
	if os.Getenv("SNOWFLAKE_ACCOUNT") != "" {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		cfg.Snowflake = snowConfig
	}

	if os.Getenv("POSTGRES_DB") != "" {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		cfg.Postgres = pgConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.HistoryCapacity < 0 {
		return errors.New("history capacity cannot be negative")
	}

	if c.Workers < 0 {
		return errors.New("worker count cannot be negative")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
