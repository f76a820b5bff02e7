// Package config loads the agent server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string // debug, info, warn, error

	// RPCPath is where JSON-RPC requests are accepted.
	RPCPath string
	// AgentCardPath points at the agent card JSON file. Empty disables the
	// well-known endpoint.
	AgentCardPath string

	AllowedOrigins []string
}

// Load reads a .env file if present, then the environment, and validates the result.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		LogLevel:       strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		RPCPath:        getEnvOrDefault("RPC_PATH", "/a2a"),
		AgentCardPath:  os.Getenv("AGENT_CARD_PATH"),
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if !strings.HasPrefix(c.RPCPath, "/") {
		return fmt.Errorf("RPC_PATH must start with /, got %q", c.RPCPath)
	}

	if c.AgentCardPath != "" {
		if _, err := os.Stat(c.AgentCardPath); err != nil {
			return fmt.Errorf("AGENT_CARD_PATH: %w", err)
		}
	}

	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AllowAllOrigins reports whether the origin list is the wildcard.
func (c *Config) AllowAllOrigins() bool {
	return len(c.AllowedOrigins) == 1 && c.AllowedOrigins[0] == "*"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
