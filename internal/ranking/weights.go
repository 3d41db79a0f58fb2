// Package ranking scores daycare providers against a weight configuration and ranks them.
package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Criterion names a scoring input that can carry a weight.
type Criterion string

// Known criteria
const (
	CriterionRating            Criterion = "rating"
	CriterionReviewCount       Criterion = "review_count"
	CriterionMandarin          Criterion = "mandarin"
	CriterionMeals             Criterion = "meals"
	CriterionCurriculum        Criterion = "curriculum"
	CriterionStaffStability    Criterion = "staff_stability"
	CriterionCulturalDiversity Criterion = "cultural_diversity"
	CriterionEmployerDiscount  Criterion = "employer_discount"
)

// AllCriteria lists every criterion in evaluation order.
var AllCriteria = []Criterion{
	CriterionRating,
	CriterionReviewCount,
	CriterionMandarin,
	CriterionMeals,
	CriterionCurriculum,
	CriterionStaffStability,
	CriterionCulturalDiversity,
	CriterionEmployerDiscount,
}

// IsKnownCriterion reports whether name is a supported criterion.
func IsKnownCriterion(name string) bool {
	for _, c := range AllCriteria {
		if string(c) == name {
			return true
		}
	}
	return false
}

// ConfigError reports a malformed weight configuration or discount list.
// It is fatal: no scoring happens with a configuration that produced one.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", msg, e.Cause)
	}
	return "configuration error: " + msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Weights is an immutable mapping from criterion to non-negative weight.
// Criteria absent from the mapping carry weight zero.
type Weights struct {
	values map[Criterion]float64
}

// NewWeights validates raw and returns the corresponding Weights.
func NewWeights(raw map[string]float64) (Weights, error) {
	if len(raw) == 0 {
		return Weights{}, &ConfigError{Message: "weight configuration is empty"}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[Criterion]float64, len(raw))
	positive := false
	for _, key := range keys {
		name := strings.TrimSpace(key)
		w := raw[key]
		if !IsKnownCriterion(name) {
			return Weights{}, &ConfigError{Field: key, Message: fmt.Sprintf("unknown criterion (known: %s)", knownCriteriaList())}
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return Weights{}, &ConfigError{Field: key, Message: "weight must be a finite number"}
		}
		if w < 0 {
			return Weights{}, &ConfigError{Field: key, Message: fmt.Sprintf("weight must be non-negative, got %g", w)}
		}
		if _, dup := values[Criterion(name)]; dup {
			return Weights{}, &ConfigError{Field: key, Message: "criterion specified more than once"}
		}
		if w > 0 {
			positive = true
		}
		values[Criterion(name)] = w
	}

	if !positive {
		return Weights{}, &ConfigError{Message: "at least one weight must be positive"}
	}

	return Weights{values: values}, nil
}

// DefaultWeights returns the weights the tool ships with.
func DefaultWeights() Weights {
	w, err := NewWeights(map[string]float64{
		string(CriterionRating):            1,
		string(CriterionReviewCount):       0.5,
		string(CriterionMandarin):          2,
		string(CriterionMeals):             1,
		string(CriterionCurriculum):        1,
		string(CriterionStaffStability):    2,
		string(CriterionCulturalDiversity): 1,
		string(CriterionEmployerDiscount):  3,
	})
	if err != nil {
		panic(fmt.Sprintf("default weights are invalid: %v", err))
	}
	return w
}

// Get returns the weight for c, zero when unset.
func (w Weights) Get(c Criterion) float64 {
	return w.values[c]
}

// IsZero reports whether w was never initialized through NewWeights.
func (w Weights) IsZero() bool {
	return len(w.values) == 0
}

// Map returns a copy of the weights keyed by criterion name.
func (w Weights) Map() map[string]float64 {
	out := make(map[string]float64, len(w.values))
	for c, v := range w.values {
		out[string(c)] = v
	}
	return out
}

func knownCriteriaList() string {
	names := make([]string, len(AllCriteria))
	for i, c := range AllCriteria {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
