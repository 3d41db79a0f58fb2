package ranking

import (
	"math"
	"strings"

	"github.com/jonathan/daycare-finder/internal/types"
)

const (
	// maxRating is the top of the search API's rating scale.
	maxRating = 5.0
	// reviewCountCeiling is the review count that earns a full review_count score.
	reviewCountCeiling = 1000.0
	// mediumDiversityScore is the credit given for "Medium" cultural diversity.
	mediumDiversityScore = 0.5
)

// normalizeRating maps a 0-5 rating to [0,1]. Missing ratings score 0.
func normalizeRating(p *types.Provider) float64 {
	if p.Rating == nil {
		return 0.0
	}
	r := *p.Rating
	if math.IsNaN(r) || r <= 0 {
		return 0.0
	}
	if r >= maxRating {
		return 1.0
	}
	return r / maxRating
}

// normalizeReviewCount log-scales the review count so a handful of reviews counts for
// something but a few thousand cannot dominate the rating. 1000 reviews or more scores 1.
func normalizeReviewCount(p *types.Provider) float64 {
	if p.ReviewCount == nil || *p.ReviewCount <= 0 {
		return 0.0
	}
	score := math.Log10(1+float64(*p.ReviewCount)) / math.Log10(1+reviewCountCeiling)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// normalizeYes scores "yes" answers as 1, everything else as 0.
func normalizeYes(answer string) float64 {
	if strings.EqualFold(strings.TrimSpace(answer), types.AnswerYes) {
		return 1.0
	}
	return 0.0
}

// normalizeCurriculum credits any named curriculum.
func normalizeCurriculum(curriculum string) float64 {
	switch strings.ToLower(strings.TrimSpace(curriculum)) {
	case "", "no", "none", "unknown", "n/a":
		return 0.0
	default:
		return 1.0
	}
}

// normalizeDiversity maps High/Medium/Low to 1/0.5/0.
func normalizeDiversity(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high":
		return 1.0
	case "medium":
		return mediumDiversityScore
	default:
		return 0.0
	}
}

func boolScore(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// normalizedComponents computes every criterion's normalized value for a provider.
func normalizedComponents(p *types.Provider, discountEligible bool) map[Criterion]float64 {
	return map[Criterion]float64{
		CriterionRating:            normalizeRating(p),
		CriterionReviewCount:       normalizeReviewCount(p),
		CriterionMandarin:          normalizeYes(p.Program.Mandarin),
		CriterionMeals:             normalizeYes(p.Program.MealsProvided),
		CriterionCurriculum:        normalizeCurriculum(p.Program.Curriculum),
		CriterionStaffStability:    normalizeYes(p.Program.StaffStability),
		CriterionCulturalDiversity: normalizeDiversity(p.Program.CulturalDiversity),
		CriterionEmployerDiscount:  boolScore(discountEligible),
	}
}
