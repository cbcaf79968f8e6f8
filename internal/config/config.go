// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Port        string `env:"PORT" envDefault:"8000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// SQLite database holding the song catalog, execution history and
	// comparison results.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/echoes.db"`

	// Redis backing the asynq job queue.
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	OpenAI OpenAIConfig  `envPrefix:"OPENAI_"`
	Cache  CacheConfig   `envPrefix:"CACHE_"`
	Limit  RateLimit     `envPrefix:"RATE_LIMIT_"`
	Agent  AgentDefaults `envPrefix:"AGENT_"`

	// Hard ceiling on request handling time.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
}

// OpenAIConfig holds credentials and endpoint for the chat model API.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
}

// CacheConfig sizes the query result cache.
type CacheConfig struct {
	MaxEntries int           `env:"MAX_ENTRIES" envDefault:"1000"`
	TTL        time.Duration `env:"TTL" envDefault:"5m"`
}

// RateLimit configures the per-client token bucket.
type RateLimit struct {
	PerMinute int `env:"PER_MINUTE" envDefault:"60"`
	Burst     int `env:"BURST" envDefault:"10"`
}

// AgentDefaults are applied when a query request omits the field.
type AgentDefaults struct {
	Model         string  `env:"MODEL" envDefault:"gpt-4o-mini"`
	Temperature   float64 `env:"TEMPERATURE" envDefault:"0.1"`
	MaxTokens     int     `env:"MAX_TOKENS" envDefault:"1000"`
	MaxIterations int     `env:"MAX_ITERATIONS" envDefault:"5"`
}

// Load reads configuration from environment variables and validates it.
// Misconfiguration is reported here so it surfaces at startup rather
// than as subtly wrong runtime behavior.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that env parsing cannot express.
func (c *Config) Validate() error {
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be >= 0, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0, got %v", c.Cache.TTL)
	}
	if c.Limit.PerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be > 0, got %d", c.Limit.PerMinute)
	}
	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("AGENT_MAX_ITERATIONS must be >= 1, got %d", c.Agent.MaxIterations)
	}
	return nil
}

// HasOpenAI returns true if an API key is configured.
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}
