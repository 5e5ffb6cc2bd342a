package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// GameTTL expires games that have not been written to. Zero keeps
	// games forever.
	GameTTL time.Duration

	// MaxUpdateRetries bounds optimistic retries when another writer
	// changes a game mid-update
	MaxUpdateRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		GameTTL:          7 * 24 * time.Hour,
		MaxUpdateRetries: 10,
	}
}
