package types

import (
	"time"

	"github.com/google/uuid"
)

// ScoredProvider is a Provider annotated with its computed score and discount eligibility.
type ScoredProvider struct {
	Provider
	Rank             int                `json:"rank"`
	Score            float64            `json:"score"`
	DiscountEligible bool               `json:"discount_eligible"`
	Components       map[string]float64 `json:"components"`
	Notes            string             `json:"notes,omitempty"`
}

// RankedProviders is the output document of a single search-and-rank run.
type RankedProviders struct {
	RunID        uuid.UUID          `json:"run_id"`
	Location     string             `json:"location,omitempty"`
	RadiusMeters int                `json:"radius_meters,omitempty"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Weights      map[string]float64 `json:"weights"`
	Providers    []ScoredProvider   `json:"providers"`
}
