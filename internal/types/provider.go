// Package types provides type definitions for structured data used throughout the daycare-finder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// ProviderType is the coarse kind of care setting inferred from a provider's name.
type ProviderType string

// Provider types
const (
	ProviderTypeCenter  ProviderType = "Center"
	ProviderTypeFamily  ProviderType = "Family"
	ProviderTypeUnknown ProviderType = "Unknown"
)

// Answer values used by the yes/no program attributes.
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
)

// Diversity levels used by ProgramAttributes.CulturalDiversity.
const (
	DiversityHigh   = "High"
	DiversityMedium = "Medium"
	DiversityLow    = "Low"
)

// Provider is a daycare as returned by the location search, optionally enriched
// with program attributes read from its website.
// Numeric fields are pointers so that "not reported" is distinguishable from zero.
type Provider struct {
	PlaceID     string            `json:"place_id,omitempty"`
	Name        string            `json:"name" validate:"required"`
	Address     string            `json:"address"`
	Website     string            `json:"website,omitempty" validate:"omitempty,url"`
	Phone       string            `json:"phone,omitempty"`
	Rating      *float64          `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ReviewCount *int              `json:"review_count,omitempty" validate:"omitempty,gte=0"`
	PriceLevel  *int              `json:"price_level,omitempty" validate:"omitempty,gte=0,lte=4"`
	Type        ProviderType      `json:"type,omitempty"`
	Program     ProgramAttributes `json:"program"`
}

// ProgramAttributes holds the development-oriented attributes scraped from a provider's website.
// Empty strings mean the attribute could not be determined.
type ProgramAttributes struct {
	AgesServed        []string `json:"ages_served,omitempty"`
	Mandarin          string   `json:"mandarin,omitempty"`
	MealsProvided     string   `json:"meals_provided,omitempty"`
	Curriculum        string   `json:"curriculum,omitempty"`
	StaffStability    string   `json:"staff_stability,omitempty"`
	CulturalDiversity string   `json:"cultural_diversity,omitempty"`
}

// Validate validates the Provider using the validator.
func (p *Provider) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// RatingValue returns the rating, or 0 when the search API did not report one.
func (p *Provider) RatingValue() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// ReviewCountValue returns the review count, or 0 when the search API did not report one.
func (p *Provider) ReviewCountValue() int {
	if p.ReviewCount == nil {
		return 0
	}
	return *p.ReviewCount
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
