// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Search
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`           // Address or place to search around
	RadiusMeters int    `json:"radius_meters,omitempty" yaml:"radius_meters,omitempty"` // Search radius in meters
	Limit        int    `json:"limit,omitempty" yaml:"limit,omitempty"`                 // Maximum providers to return
	Keyword      string `json:"keyword,omitempty" yaml:"keyword,omitempty"`             // Places keyword (default "daycare")

	// Scoring inputs
	WeightsFile      string `json:"weights_file,omitempty" yaml:"weights_file,omitempty"`             // Path to weight configuration
	DiscountListFile string `json:"discount_list_file,omitempty" yaml:"discount_list_file,omitempty"` // Path to discount-eligible provider names

	// Output
	Output string `json:"output,omitempty" yaml:"output,omitempty"` // Path to write results (.json or .csv)
	Top    int    `json:"top,omitempty" yaml:"top,omitempty"`       // Number of providers to print

	// Behavior
	MapsAPIKey   string `json:"maps_api_key,omitempty" yaml:"maps_api_key,omitempty"`     // Google Maps API key
	GeminiAPIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"` // Gemini API key (LLM enrichment)
	Enrich       bool   `json:"enrich,omitempty" yaml:"enrich,omitempty"`                 // Scrape provider websites for program attributes
	UseLLM       bool   `json:"use_llm,omitempty" yaml:"use_llm,omitempty"`               // Use Gemini instead of keyword matching
	UseBrowser   bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`       // Use headless browser for JS-heavy sites
	Concurrency  int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`       // Websites fetched at once
	Verbose      bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`               // Print detailed debug information
	LogLevel     string `json:"log_level,omitempty" yaml:"log_level,omitempty"`           // debug, info, warn, error
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.RadiusMeters < 0 {
		return fmt.Errorf("config error: 'radius_meters' must be non-negative")
	}
	if c.Limit < 0 {
		return fmt.Errorf("config error: 'limit' must be non-negative")
	}
	if c.Top < 0 {
		return fmt.Errorf("config error: 'top' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.UseLLM && !c.Enrich {
		return fmt.Errorf("config error: 'use_llm' requires 'enrich'")
	}

	if c.WeightsFile != "" {
		if _, err := os.Stat(c.WeightsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: weights file not found: %s", c.WeightsFile)
		}
	}
	if c.DiscountListFile != "" {
		if _, err := os.Stat(c.DiscountListFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: discount list file not found: %s", c.DiscountListFile)
		}
	}

	if c.Output != "" {
		switch strings.ToLower(filepath.Ext(c.Output)) {
		case ".json", ".csv":
		default:
			return fmt.Errorf("config error: 'output' must end in .json or .csv: %s", c.Output)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Location == "" {
		result.Location = defaults.Location
	}
	if result.Keyword == "" {
		result.Keyword = defaults.Keyword
	}
	if result.WeightsFile == "" {
		result.WeightsFile = defaults.WeightsFile
	}
	if result.DiscountListFile == "" {
		result.DiscountListFile = defaults.DiscountListFile
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.MapsAPIKey == "" {
		result.MapsAPIKey = defaults.MapsAPIKey
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.RadiusMeters == 0 {
		result.RadiusMeters = defaults.RadiusMeters
	}
	if result.Limit == 0 {
		result.Limit = defaults.Limit
	}
	if result.Top == 0 {
		result.Top = defaults.Top
	}
	if result.Concurrency == 0 {
		if defaults.Concurrency > 0 {
			result.Concurrency = defaults.Concurrency
		} else {
			result.Concurrency = 1 // One website at a time
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
