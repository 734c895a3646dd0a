package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port                  int    `env:"PORT" envDefault:"8080"`
	RedisURL              string `env:"REDIS_URL,required"`
	DatabasePath          string `env:"DATABASE_PATH" envDefault:"data/conversations.db"`
	SessionTTLSeconds     int    `env:"SESSION_TTL_SECONDS" envDefault:"86400"`
	ContextTTLSeconds     int    `env:"CONTEXT_TTL_SECONDS" envDefault:"7200"`
	TempTTLSeconds        int    `env:"TEMP_TTL_SECONDS" envDefault:"300"`
	CensusIntervalSeconds int    `env:"CENSUS_INTERVAL_SECONDS" envDefault:"300"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c *Config) ContextTTL() time.Duration {
	return time.Duration(c.ContextTTLSeconds) * time.Second
}

func (c *Config) TempTTL() time.Duration {
	return time.Duration(c.TempTTLSeconds) * time.Second
}

func (c *Config) CensusInterval() time.Duration {
	return time.Duration(c.CensusIntervalSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be positive, got %d", c.SessionTTLSeconds)
	}
	if c.ContextTTLSeconds <= 0 {
		return fmt.Errorf("CONTEXT_TTL_SECONDS must be positive, got %d", c.ContextTTLSeconds)
	}
	if c.TempTTLSeconds <= 0 {
		return fmt.Errorf("TEMP_TTL_SECONDS must be positive, got %d", c.TempTTLSeconds)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
