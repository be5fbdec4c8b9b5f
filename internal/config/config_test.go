package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Store: StoreConfig{
			Backend:        StoreBackendWebhook,
			WebhookBaseURL: "https://store.example.com",
		},
		JWT:        JWTConfig{Secret: "secret", Expiration: time.Hour},
		FormSchema: FormSchemaConfig{Version: "v1"},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	t.Run("webhook backend requires base URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.WebhookBaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres backend requires database settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Backend = StoreBackendPostgres
		assert.Error(t, cfg.Validate())

		cfg.Database = DatabaseConfig{Host: "localhost", User: "postgres", DBName: "loanflow"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Backend = "spreadsheet"
		assert.Error(t, cfg.Validate())
	})

	t.Run("jwt secret required", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoreBackendWebhook, cfg.Store.Backend)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "v1", cfg.FormSchema.Version)
}

func TestDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{
		Host: "db", Port: 5432, User: "app", Password: "pw", DBName: "loanflow", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=app password=pw dbname=loanflow sslmode=disable",
		cfg.DatabaseURL())
}
