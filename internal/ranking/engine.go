package ranking

import (
	"github.com/jonathan/daycare-finder/internal/types"
)

// Engine scores providers with a fixed weight configuration and discount list.
// It holds no mutable state, so a single Engine may be shared freely.
type Engine struct {
	weights   Weights
	discounts DiscountList
}

// NewEngine creates an Engine. Weights must come from NewWeights or DefaultWeights.
func NewEngine(weights Weights, discounts DiscountList) (*Engine, error) {
	if weights.IsZero() {
		return nil, &ConfigError{Message: "weight configuration is empty"}
	}
	return &Engine{weights: weights, discounts: discounts}, nil
}

// Weights returns the engine's weight configuration.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Eligible reports whether the provider name is on the discount list.
func (e *Engine) Eligible(name string) bool {
	return e.discounts.Eligible(name)
}

// Score computes the weighted score of one provider:
// the sum over criteria of weight[c] * normalized(c).
// Rank and Notes are left for Rank to fill in.
func (e *Engine) Score(p types.Provider) types.ScoredProvider {
	eligible := e.discounts.Eligible(p.Name)
	normalized := normalizedComponents(&p, eligible)

	components := make(map[string]float64, len(normalized))
	score := 0.0
	// Fixed order keeps floating point summation identical across runs.
	for _, c := range AllCriteria {
		v := normalized[c]
		components[string(c)] = v
		score += e.weights.Get(c) * v
	}

	return types.ScoredProvider{
		Provider:         p,
		Score:            score,
		DiscountEligible: eligible,
		Components:       components,
	}
}
