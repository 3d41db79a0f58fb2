package ranking

import (
	"testing"

	"github.com/jonathan/daycare-finder/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name     string
		rating   *float64
		expected float64
	}{
		{"missing", nil, 0.0},
		{"zero", types.Float64Ptr(0), 0.0},
		{"mid", types.Float64Ptr(4.5), 0.9},
		{"max", types.Float64Ptr(5), 1.0},
		{"above scale clamps", types.Float64Ptr(7), 1.0},
		{"negative clamps", types.Float64Ptr(-1), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &types.Provider{Name: "X", Rating: tt.rating}
			assert.InDelta(t, tt.expected, normalizeRating(p), 1e-9)
		})
	}
}

func TestNormalizeReviewCount(t *testing.T) {
	assert.Equal(t, 0.0, normalizeReviewCount(&types.Provider{}))
	assert.Equal(t, 0.0, normalizeReviewCount(&types.Provider{ReviewCount: types.IntPtr(0)}))
	assert.InDelta(t, 1.0, normalizeReviewCount(&types.Provider{ReviewCount: types.IntPtr(1000)}), 1e-9)
	assert.Equal(t, 1.0, normalizeReviewCount(&types.Provider{ReviewCount: types.IntPtr(50000)}))

	few := normalizeReviewCount(&types.Provider{ReviewCount: types.IntPtr(9)})
	many := normalizeReviewCount(&types.Provider{ReviewCount: types.IntPtr(99)})
	assert.Greater(t, many, few)
	assert.InDelta(t, 1.0/3.0, few, 0.001) // log10(10)/log10(1001)
}

func TestNormalizeYes(t *testing.T) {
	assert.Equal(t, 1.0, normalizeYes("Yes"))
	assert.Equal(t, 1.0, normalizeYes(" yes "))
	assert.Equal(t, 0.0, normalizeYes("No"))
	assert.Equal(t, 0.0, normalizeYes(""))
	assert.Equal(t, 0.0, normalizeYes("maybe"))
}

func TestNormalizeCurriculum(t *testing.T) {
	assert.Equal(t, 1.0, normalizeCurriculum("Montessori"))
	assert.Equal(t, 1.0, normalizeCurriculum("play-based, Reggio"))
	assert.Equal(t, 0.0, normalizeCurriculum(""))
	assert.Equal(t, 0.0, normalizeCurriculum("Unknown"))
	assert.Equal(t, 0.0, normalizeCurriculum("none"))
}

func TestNormalizeDiversity(t *testing.T) {
	assert.Equal(t, 1.0, normalizeDiversity("High"))
	assert.Equal(t, 0.5, normalizeDiversity("medium"))
	assert.Equal(t, 0.0, normalizeDiversity("Low"))
	assert.Equal(t, 0.0, normalizeDiversity("Unknown"))
	assert.Equal(t, 0.0, normalizeDiversity(""))
}

func TestNormalizedComponents_AllInUnitRange(t *testing.T) {
	p := &types.Provider{
		Name:        "Full Marks Academy",
		Rating:      types.Float64Ptr(5),
		ReviewCount: types.IntPtr(5000),
		Program: types.ProgramAttributes{
			Mandarin:          "Yes",
			MealsProvided:     "Yes",
			Curriculum:        "Montessori",
			StaffStability:    "Yes",
			CulturalDiversity: "High",
		},
	}

	components := normalizedComponents(p, true)
	assert.Len(t, components, len(AllCriteria))
	for c, v := range components {
		assert.Equal(t, 1.0, v, "criterion %s", c)
	}
}
