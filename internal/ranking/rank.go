package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/daycare-finder/internal/types"
)

// Rank scores every provider and returns them best first.
// Ties on score are broken by review count (descending), then normalized name,
// raw name, address and place ID (ascending), so identical input sets always
// produce the same order regardless of input order.
func (e *Engine) Rank(providers []types.Provider) []types.ScoredProvider {
	scored := make([]types.ScoredProvider, 0, len(providers))
	for _, p := range providers {
		scored = append(scored, e.Score(p))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return less(&scored[i], &scored[j])
	})

	for i := range scored {
		scored[i].Rank = i + 1
		scored[i].Notes = generateNotes(&scored[i])
	}

	return scored
}

// Top returns at most n providers from an already ranked slice.
func Top(ranked []types.ScoredProvider, n int) []types.ScoredProvider {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

func less(a, b *types.ScoredProvider) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if ra, rb := a.ReviewCountValue(), b.ReviewCountValue(); ra != rb {
		return ra > rb
	}
	if na, nb := NormalizeName(a.Name), NormalizeName(b.Name); na != nb {
		return na < nb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Address != b.Address {
		return a.Address < b.Address
	}
	return a.PlaceID < b.PlaceID
}

// generateNotes creates a brief explanation of the score.
func generateNotes(sp *types.ScoredProvider) string {
	var parts []string

	if sp.Rating != nil {
		reviews := ""
		if sp.ReviewCount != nil {
			reviews = fmt.Sprintf(" from %d reviews", *sp.ReviewCount)
		}
		parts = append(parts, fmt.Sprintf("Rated %.1f%s", *sp.Rating, reviews))
	} else {
		parts = append(parts, "No rating")
	}

	var features []string
	if sp.Components[string(CriterionMandarin)] > 0 {
		features = append(features, "Mandarin")
	}
	if sp.Components[string(CriterionMeals)] > 0 {
		features = append(features, "meals")
	}
	if sp.Components[string(CriterionCurriculum)] > 0 {
		features = append(features, sp.Program.Curriculum+" curriculum")
	}
	if sp.Components[string(CriterionStaffStability)] > 0 {
		features = append(features, "stable staff")
	}
	if d := sp.Components[string(CriterionCulturalDiversity)]; d >= 1 {
		features = append(features, "high diversity")
	} else if d > 0 {
		features = append(features, "some diversity")
	}
	if len(features) > 0 {
		parts = append(parts, "Offers "+strings.Join(features, ", "))
	}

	if sp.DiscountEligible {
		parts = append(parts, "Employer discount")
	}

	return strings.Join(parts, ". ")
}
