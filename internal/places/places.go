// Package places resolves a location into nearby daycare providers.
package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/daycare-finder/internal/types"
)

// Searcher finds providers around a location.
type Searcher interface {
	SearchProviders(ctx context.Context, req types.SearchRequest) ([]types.Provider, error)
}

// ErrNoResults is returned (wrapped in a CollaboratorError) when a search finds nothing.
var ErrNoResults = errors.New("no providers found")

// Search stages reported in CollaboratorError.
const (
	StageRequest = "request"
	StageGeocode = "geocode"
	StageNearby  = "nearby_search"
	StageFixture = "fixture"
)

// CollaboratorError reports a failure of the provider search backend.
// No scoring should be attempted after one.
type CollaboratorError struct {
	Stage string
	Cause error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("provider search failed at %s: %v", e.Stage, e.Cause)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Cause
}

// IsNoResults reports whether err means the search completed but found no providers.
func IsNoResults(err error) bool {
	return errors.Is(err, ErrNoResults)
}
