package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for the embedding service.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible
	// server.
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// APIToken authenticates against the embedding service. Local
	// OpenAI-compatible servers typically accept any value.
	APIToken string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the embedding service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible embedding service.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		APIToken:       "none",
	}
}

// NewConfig creates a Config with default values and applies the provided
// options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validation errors
var (
	ErrEmptyHost  = errors.New("embedding host must not be empty")
	ErrEmptyModel = errors.New("embedding model must not be empty")
	ErrBadScheme  = errors.New("embedding host must use http or https")
)

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.EmbeddingHost == "" {
		return ErrEmptyHost
	}
	if !strings.HasPrefix(c.EmbeddingHost, "http://") && !strings.HasPrefix(c.EmbeddingHost, "https://") {
		return ErrBadScheme
	}
	if c.EmbeddingModel == "" {
		return ErrEmptyModel
	}
	return nil
}
