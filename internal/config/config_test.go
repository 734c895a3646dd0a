package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("SessionTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{SessionTTLSeconds: 86400}
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	})

	t.Run("ContextTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{ContextTTLSeconds: 7200}
		assert.Equal(t, 2*time.Hour, cfg.ContextTTL())
	})

	t.Run("TempTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{TempTTLSeconds: 300}
		assert.Equal(t, 5*time.Minute, cfg.TempTTL())
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:              8080,
			DatabasePath:      "data/conversations.db",
			SessionTTLSeconds: 86400,
			ContextTTLSeconds: 7200,
			TempTTLSeconds:    300,
		}
	}

	t.Run("accepts valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects out-of-range port", func(t *testing.T) {
		cfg := valid()
		cfg.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive TTLs", func(t *testing.T) {
		cfg := valid()
		cfg.SessionTTLSeconds = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.ContextTTLSeconds = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty database path", func(t *testing.T) {
		cfg := valid()
		cfg.DatabasePath = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"PORT":                os.Getenv("PORT"),
		"REDIS_URL":           os.Getenv("REDIS_URL"),
		"DATABASE_PATH":       os.Getenv("DATABASE_PATH"),
		"SESSION_TTL_SECONDS": os.Getenv("SESSION_TTL_SECONDS"),
		"CONTEXT_TTL_SECONDS": os.Getenv("CONTEXT_TTL_SECONDS"),
		"TEMP_TTL_SECONDS":    os.Getenv("TEMP_TTL_SECONDS"),
		"LOG_LEVEL":           os.Getenv("LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads config with defaults", func(t *testing.T) {
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Unsetenv("PORT")
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("SESSION_TTL_SECONDS")
		os.Unsetenv("CONTEXT_TTL_SECONDS")
		os.Unsetenv("TEMP_TTL_SECONDS")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
		assert.Equal(t, "data/conversations.db", cfg.DatabasePath)
		assert.Equal(t, 86400, cfg.SessionTTLSeconds)
		assert.Equal(t, 7200, cfg.ContextTTLSeconds)
		assert.Equal(t, 300, cfg.TempTTLSeconds)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("loads custom values", func(t *testing.T) {
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Setenv("PORT", "3000")
		os.Setenv("DATABASE_PATH", "/tmp/test.db")
		os.Setenv("SESSION_TTL_SECONDS", "3600")
		os.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
		assert.Equal(t, 3600, cfg.SessionTTLSeconds)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("fails without required REDIS_URL", func(t *testing.T) {
		os.Unsetenv("REDIS_URL")

		_, err := Load()
		assert.Error(t, err)
	})
}
