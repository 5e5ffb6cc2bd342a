// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/pinochle-score/internal/api"
	"github.com/mcoot/pinochle-score/internal/storage/redis"
	"github.com/mcoot/pinochle-score/internal/telemetry"
)

// ServiceName identifies the server in traces
const ServiceName = "pinochle-score"

// Environment names the deployment the server runs in
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds settings read from environment variables
type Config struct {
	Env             Environment   `env:"APP_ENV" envDefault:"development"`
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageType     string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL        string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	GameTTL         time.Duration `env:"GAME_TTL" envDefault:"168h"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	OTelEndpoint    string        `env:"OTEL_ENDPOINT"`
	OTelEnabled     bool          `env:"OTEL_ENABLED" envDefault:"true"`
}

// Load parses the environment and fills per-environment defaults
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() (Config, error) {
	switch c.Env {
	case Development:
		if c.Port == 0 {
			c.Port = 3000
		}
		if c.Host == "" {
			c.Host = "127.0.0.1"
		}
		if c.AllowedOrigins == nil {
			c.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
		}
	case Testing:
		if c.Port == 0 {
			c.Port = 3001
		}
		if c.AllowedOrigins == nil {
			c.AllowedOrigins = []string{"http://localhost:3001"}
		}
	case Production:
		if c.Port == 0 {
			c.Port = 8080
		}
	default:
		return Config{}, fmt.Errorf("unknown APP_ENV %q", c.Env)
	}

	switch c.StorageType {
	case StorageMemory, StorageRedis:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}

	if _, err := c.SlogLevel(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// SlogLevel converts LOG_LEVEL to a slog level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}

// ServerConfig returns the HTTP server settings
func (c Config) ServerConfig() api.ServerConfig {
	sc := api.DefaultServerConfig()
	sc.Host = c.Host
	sc.Port = c.Port
	sc.ShutdownTimeout = c.ShutdownTimeout
	return sc
}

// RedisConfig returns the storage settings for the redis backend
func (c Config) RedisConfig() redis.Config {
	rc := redis.DefaultConfig()
	rc.URL = c.RedisURL
	rc.GameTTL = c.GameTTL
	return rc
}

// TelemetryConfig returns the trace export settings
func (c Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		ServiceName: ServiceName,
		Endpoint:    c.OTelEndpoint,
		Enabled:     c.OTelEnabled,
	}
}
