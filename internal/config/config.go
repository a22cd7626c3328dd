package config

import (
	"os"
	"strconv"
	"time"

	"sheetdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Host    string
	Port    string
	GinMode string
}

// DataConfig holds workbook loading and view defaults
type DataConfig struct {
	// File is an optional workbook path loaded at startup and re-read by
	// the refresh scheduler on every tick.
	File            string
	SampleOnStart   bool
	RefreshInterval time.Duration
	MaxUploadBytes  int64
	DefaultPageSize int
	DefaultTopN     int
	MaxExportCols   int
}

// DatabaseConfig holds the optional snapshot history store settings.
// An empty URL disables Postgres and the in-memory store is used instead.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	config.Server = *loadServerConfig()
	config.Data = *loadDataConfig()
	config.Database = *loadDatabaseConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:    getEnvOrDefault("HOST", ""),
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:            getEnvOrDefault("DATA_FILE", ""),
		SampleOnStart:   getEnvBoolOrDefault("SAMPLE_ON_START", false),
		RefreshInterval: getEnvDurationOrDefault("REFRESH_INTERVAL", 30*time.Second),
		MaxUploadBytes:  getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 50*1024*1024),
		DefaultPageSize: getEnvIntOrDefault("DEFAULT_PAGE_SIZE", 10),
		DefaultTopN:     getEnvIntOrDefault("DEFAULT_TOP_N", 10),
		MaxExportCols:   getEnvIntOrDefault("MAX_EXPORT_COLS", 10),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", ""),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("server port must be numeric")
	}
	if config.Data.RefreshInterval < time.Second {
		return errors.ConfigInvalid("refresh interval must be at least 1s")
	}
	if config.Data.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("max upload bytes must be positive")
	}
	if config.Data.DefaultPageSize < 1 {
		return errors.ConfigInvalid("default page size must be positive")
	}
	if config.Data.DefaultTopN < 1 {
		return errors.ConfigInvalid("default top N must be positive")
	}
	if config.Data.MaxExportCols < 1 {
		return errors.ConfigInvalid("max export columns must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
