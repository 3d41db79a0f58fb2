package places

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/daycare-finder/internal/enrich"
	"github.com/jonathan/daycare-finder/internal/schemas"
	"github.com/jonathan/daycare-finder/internal/types"
)

// StaticSearcher serves providers from a fixed list, ignoring the location.
// It backs offline scoring runs and tests.
type StaticSearcher struct {
	providers []types.Provider
}

// NewStaticSearcher returns a searcher over a copy of providers.
func NewStaticSearcher(providers []types.Provider) *StaticSearcher {
	out := make([]types.Provider, len(providers))
	copy(out, providers)
	return &StaticSearcher{providers: out}
}

// LoadProvidersFile reads a JSON array of providers, validated against the
// providers schema and the provider field rules.
func LoadProvidersFile(path string) ([]types.Provider, error) {
	if err := schemas.ValidateFile(schemas.Providers, path); err != nil {
		return nil, fmt.Errorf("invalid providers file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}

	var providers []types.Provider
	if err := json.Unmarshal(data, &providers); err != nil {
		return nil, fmt.Errorf("failed to parse providers file: %w", err)
	}

	for i := range providers {
		if err := providers[i].Validate(); err != nil {
			return nil, fmt.Errorf("provider %d: %w", i, err)
		}
		if providers[i].Type == "" {
			providers[i].Type = enrich.ClassifyType(providers[i].Name)
		}
	}
	return providers, nil
}

// NewStaticSearcherFromFile loads a fixture file into a StaticSearcher.
func NewStaticSearcherFromFile(path string) (*StaticSearcher, error) {
	providers, err := LoadProvidersFile(path)
	if err != nil {
		return nil, &CollaboratorError{Stage: StageFixture, Cause: err}
	}
	return NewStaticSearcher(providers), nil
}

// SearchProviders returns up to req.Limit providers in fixture order.
func (s *StaticSearcher) SearchProviders(ctx context.Context, req types.SearchRequest) ([]types.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CollaboratorError{Stage: StageFixture, Cause: err}
	}
	if len(s.providers) == 0 {
		return nil, &CollaboratorError{Stage: StageFixture, Cause: ErrNoResults}
	}

	n := len(s.providers)
	if req.Limit > 0 && req.Limit < n {
		n = req.Limit
	}
	out := make([]types.Provider, n)
	copy(out, s.providers[:n])
	return out, nil
}
