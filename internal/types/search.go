package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Search defaults.
const (
	DefaultRadiusMeters = 5000
	DefaultLimit        = 10
	DefaultKeyword      = "daycare"
)

// SearchRequest describes one places search around a location.
type SearchRequest struct {
	Location     string `json:"location" validate:"required"`
	RadiusMeters int    `json:"radius_meters" validate:"gte=1000,lte=50000"`
	Limit        int    `json:"limit" validate:"gte=1,lte=50"`
	Keyword      string `json:"keyword,omitempty"`
}

// WithDefaults returns a copy of the request with zero values replaced by defaults.
func (r SearchRequest) WithDefaults() SearchRequest {
	r.Location = strings.TrimSpace(r.Location)
	if r.RadiusMeters == 0 {
		r.RadiusMeters = DefaultRadiusMeters
	}
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if strings.TrimSpace(r.Keyword) == "" {
		r.Keyword = DefaultKeyword
	}
	return r
}

// Validate validates the SearchRequest using the validator.
func (r *SearchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
