package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/daycare-finder/internal/ranking"
	"github.com/jonathan/daycare-finder/internal/schemas"
)

// LoadWeights reads a weight configuration file (JSON or YAML: a flat mapping of
// criterion name to number). An empty path yields the default weights.
// Every failure is returned as a *ranking.ConfigError.
func LoadWeights(path string) (ranking.Weights, error) {
	if path == "" {
		return ranking.DefaultWeights(), nil
	}

	doc, err := readDocument(path)
	if err != nil {
		return ranking.Weights{}, err
	}

	if err := schemas.ValidateDocument(schemas.Weights, doc); err != nil {
		return ranking.Weights{}, &ranking.ConfigError{Field: path, Message: "invalid weight configuration", Cause: err}
	}

	mapping, ok := doc.(map[string]any)
	if !ok {
		return ranking.Weights{}, &ranking.ConfigError{Field: path, Message: "weight configuration must be a mapping"}
	}

	raw := make(map[string]float64, len(mapping))
	for key, value := range mapping {
		f, ok := toFloat(value)
		if !ok {
			return ranking.Weights{}, &ranking.ConfigError{Field: key, Message: fmt.Sprintf("weight must be numeric, got %T", value)}
		}
		raw[key] = f
	}

	return ranking.NewWeights(raw)
}

// LoadDiscountList reads a JSON or YAML list of provider names eligible for the
// employer discount. An empty path yields an empty list.
// Every failure is returned as a *ranking.ConfigError.
func LoadDiscountList(path string) (ranking.DiscountList, error) {
	if path == "" {
		return ranking.NewDiscountList(nil)
	}

	doc, err := readDocument(path)
	if err != nil {
		return ranking.DiscountList{}, err
	}

	if err := schemas.ValidateDocument(schemas.DiscountList, doc); err != nil {
		return ranking.DiscountList{}, &ranking.ConfigError{Field: path, Message: "invalid discount list", Cause: err}
	}

	items, ok := doc.([]any)
	if !ok {
		return ranking.DiscountList{}, &ranking.ConfigError{Field: path, Message: "discount list must be a list of names"}
	}

	names := make([]string, 0, len(items))
	for i, item := range items {
		name, ok := item.(string)
		if !ok {
			return ranking.DiscountList{}, &ranking.ConfigError{Field: path, Message: fmt.Sprintf("entry %d is not a string", i)}
		}
		names = append(names, name)
	}

	return ranking.NewDiscountList(names)
}

// readDocument decodes a JSON or YAML file into generic values.
// JSON is a subset of YAML, so one decoder serves both.
func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ranking.ConfigError{Field: path, Message: "file not found"}
		}
		return nil, &ranking.ConfigError{Field: path, Message: "failed to read file", Cause: err}
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ranking.ConfigError{Field: path, Message: "failed to parse file", Cause: err}
	}
	if doc == nil {
		return nil, &ranking.ConfigError{Field: path, Message: "file is empty"}
	}

	return doc, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
