// Package enrich derives program attributes for providers from their websites.
package enrich

import (
	"strings"

	"github.com/jonathan/daycare-finder/internal/types"
)

// keywordLabel maps a phrase found in page text to the value it contributes.
type keywordLabel struct {
	phrase string
	label  string
}

var (
	ageKeywords = []keywordLabel{
		{"infant", "infant"},
		{"toddler", "toddler"},
		{"preschool", "preschool"},
		{"pre-k", "pre-k"},
		{"pre-kindergarten", "pre-k"},
		{"school age", "school age"},
		{"school-age", "school age"},
	}
	mandarinKeywords = []string{"mandarin", "chinese", "bilingual"}
	mealKeywords     = []string{"meals", "lunch", "snack included", "snacks included"}
	// Order matters: the first match names the curriculum.
	curriculumKeywords = []keywordLabel{
		{"montessori", "Montessori"},
		{"reggio", "Reggio Emilia"},
		{"waldorf", "Waldorf"},
		{"play-based", "Play-based"},
		{"play based", "Play-based"},
		{"emergent", "Emergent"},
	}
	diversityKeywords = []string{"diverse", "inclusive", "multicultural", "equity"}
	stabilityKeywords = []string{"same teacher", "low turnover", "consistent caregiver", "long term", "long-term staff"}
)

// ScanKeywords maps page text to program attributes using fixed keyword banks.
// Matching is case-insensitive substring search. Yes/no attributes are "No" when
// no keyword appears; cultural diversity is High for two or more distinct
// keywords, Medium for one and Low for none.
func ScanKeywords(text string) types.ProgramAttributes {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return types.ProgramAttributes{}
	}

	attrs := types.ProgramAttributes{
		Mandarin:       yesNo(containsAny(lower, mandarinKeywords)),
		MealsProvided:  yesNo(containsAny(lower, mealKeywords)),
		StaffStability: yesNo(containsAny(lower, stabilityKeywords)),
	}

	seen := make(map[string]bool)
	for _, k := range ageKeywords {
		if !seen[k.label] && strings.Contains(lower, k.phrase) {
			seen[k.label] = true
			attrs.AgesServed = append(attrs.AgesServed, k.label)
		}
	}

	for _, k := range curriculumKeywords {
		if strings.Contains(lower, k.phrase) {
			attrs.Curriculum = k.label
			break
		}
	}

	hits := 0
	for _, k := range diversityKeywords {
		if strings.Contains(lower, k) {
			hits++
		}
	}
	switch {
	case hits >= 2:
		attrs.CulturalDiversity = types.DiversityHigh
	case hits == 1:
		attrs.CulturalDiversity = types.DiversityMedium
	default:
		attrs.CulturalDiversity = types.DiversityLow
	}

	return attrs
}

// ClassifyType infers the care setting from a provider's name.
func ClassifyType(name string) types.ProviderType {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, []string{"academy", "montessori", "center", "centre"}):
		return types.ProviderTypeCenter
	case containsAny(lower, []string{"family", "home"}):
		return types.ProviderTypeFamily
	default:
		return types.ProviderTypeUnknown
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return types.AnswerYes
	}
	return types.AnswerNo
}
