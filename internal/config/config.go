package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreBackendWebhook  = "webhook"
	StoreBackendPostgres = "postgres"
)

// Config represents application configuration
type Config struct {
	Server     ServerConfig     `json:"server"`
	Store      StoreConfig      `json:"store"`
	Database   DatabaseConfig   `json:"database"`
	JWT        JWTConfig        `json:"jwt"`
	Logging    LoggingConfig    `json:"logging"`
	RateLimit  RateLimitConfig  `json:"rate_limit"`
	FormSchema FormSchemaConfig `json:"form_schema"`
	Notifier   NotifierConfig   `json:"notifier"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Environment  string        `json:"environment"`
}

// StoreConfig selects and configures the record store backend
type StoreConfig struct {
	Backend        string        `json:"backend"`
	WebhookBaseURL string        `json:"webhook_base_url"`
	WebhookToken   string        `json:"webhook_token"`
	WebhookTimeout time.Duration `json:"webhook_timeout"`
}

// DatabaseConfig represents PostgreSQL configuration, used when the store
// backend is postgres.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// JWTConfig represents token issuance configuration
type JWTConfig struct {
	Secret     string        `json:"secret"`
	Expiration time.Duration `json:"expiration"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json, text
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	Enabled  bool   `json:"enabled"`
	RedisURL string `json:"redis_url"`
}

// FormSchemaConfig represents the active application form contract
type FormSchemaConfig struct {
	Version string `json:"version"`
	Path    string `json:"path"`
}

// NotifierConfig represents notification delivery configuration
type NotifierConfig struct {
	WebhookURL string        `json:"webhook_url"`
	Timeout    time.Duration `json:"timeout"`
}

// Load loads configuration from the environment, with a .env file as a
// development convenience.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Store: StoreConfig{
			Backend:        getEnv("STORE_BACKEND", StoreBackendWebhook),
			WebhookBaseURL: getEnv("STORE_WEBHOOK_BASE_URL", ""),
			WebhookToken:   getEnv("STORE_WEBHOOK_TOKEN", ""),
			WebhookTimeout: getEnvDuration("STORE_WEBHOOK_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "loanflow"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  getEnvBool("RATE_LIMIT_ENABLED", false),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		FormSchema: FormSchemaConfig{
			Version: getEnv("FORM_SCHEMA_VERSION", "v1"),
			Path:    getEnv("FORM_SCHEMA_PATH", ""),
		},
		Notifier: NotifierConfig{
			WebhookURL: getEnv("NOTIFIER_WEBHOOK_URL", ""),
			Timeout:    getEnvDuration("NOTIFIER_TIMEOUT", 10*time.Second),
		},
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Store.Backend {
	case StoreBackendWebhook:
		if c.Store.WebhookBaseURL == "" {
			return fmt.Errorf("store webhook base URL is required")
		}
	case StoreBackendPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("database host, user and name are required")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.FormSchema.Version == "" {
		return fmt.Errorf("form schema version is required")
	}
	if c.RateLimit.Enabled && c.RateLimit.RedisURL == "" {
		return fmt.Errorf("redis URL is required when rate limiting is enabled")
	}
	return nil
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// Helper functions for environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
