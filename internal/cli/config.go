package cli

import (
	"fmt"
	"os"
)

// EnvServer overrides the default server URL
const EnvServer = "PINOCHLE_SERVER"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault(EnvServer, "http://localhost:8080"),
		Output:    FormatText,
	}
}

// Validate checks flag values before any command runs
func (c *Config) Validate() error {
	switch c.Output {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: must be text or json", c.Output)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
