package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Server   ServerConfig
	CORS     CORSConfig
	Logging  LoggingConfig
	Events   EventsConfig
}

// StoreConfig selects the playlist storage backend.
type StoreConfig struct {
	Driver string
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// PostgresConfig holds the relational backend connection settings.
type PostgresConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// EventsConfig holds the optional Redis pub/sub settings.
type EventsConfig struct {
	RedisURL string
	Channel  string
}

// Enabled reports whether playlist events should be published.
func (e EventsConfig) Enabled() bool {
	return e.RedisURL != ""
}

// Load reads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Store.Driver = strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverMongo))

	cfg.Mongo.URI = getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = getEnvOrDefault("MONGODB_DATABASE", "reelbox")
	cfg.Mongo.Collection = getEnvOrDefault("MONGODB_COLLECTION", "playlists")

	cfg.Postgres.URL = os.Getenv("DATABASE_URL")

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	cfg.loadCORS()

	if err := cfg.loadLogging(); err != nil {
		return nil, fmt.Errorf("load logging config: %w", err)
	}

	cfg.Events.RedisURL = os.Getenv("REDIS_URL")
	cfg.Events.Channel = getEnvOrDefault("EVENTS_CHANNEL", "playlists")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default for local development
		c.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}
		return
	}

	var origins []string
	for _, origin := range strings.Split(originsEnv, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORS.AllowedOrigins = origins
}

func (c *Config) loadLogging() error {
	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
	c.Logging.File = os.Getenv("LOG_FILE")

	var err error
	if c.Logging.MaxSizeMB, err = getEnvInt("LOG_MAX_SIZE_MB", 100); err != nil {
		return err
	}
	if c.Logging.MaxBackups, err = getEnvInt("LOG_MAX_BACKUPS", 3); err != nil {
		return err
	}
	if c.Logging.MaxAgeDays, err = getEnvInt("LOG_MAX_AGE_DAYS", 28); err != nil {
		return err
	}
	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			errors = append(errors, "MONGODB_URI is required when STORE_DRIVER=mongo")
		}
		if c.Mongo.Database == "" || c.Mongo.Collection == "" {
			errors = append(errors, "MONGODB_DATABASE and MONGODB_COLLECTION must not be empty")
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			errors = append(errors, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		errors = append(errors, "STORE_DRIVER must be one of: mongo, postgres, memory")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		errors = append(errors, "LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS and LOG_MAX_AGE_DAYS must not be negative")
	}

	if c.Events.Enabled() && c.Events.Channel == "" {
		errors = append(errors, "EVENTS_CHANNEL must not be empty when REDIS_URL is set")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
