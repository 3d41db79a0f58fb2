package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables holding API keys.
const (
	EnvMapsAPIKey   = "GOOGLE_MAPS_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// FromEnv returns a Config populated from environment variables only.
// Useful as the lowest-priority defaults for MergeWithDefaults.
func FromEnv() Config {
	return Config{
		MapsAPIKey:   strings.TrimSpace(os.Getenv(EnvMapsAPIKey)),
		GeminiAPIKey: strings.TrimSpace(os.Getenv(EnvGeminiAPIKey)),
	}
}

// RequireMapsAPIKey returns an error if no Maps key is configured.
func (c *Config) RequireMapsAPIKey() error {
	if c.MapsAPIKey == "" {
		return fmt.Errorf("%s is required but not set", EnvMapsAPIKey)
	}
	return nil
}

// RequireGeminiAPIKey returns an error if LLM enrichment is enabled without a Gemini key.
func (c *Config) RequireGeminiAPIKey() error {
	if c.UseLLM && c.GeminiAPIKey == "" {
		return fmt.Errorf("%s is required when LLM enrichment is enabled", EnvGeminiAPIKey)
	}
	return nil
}
