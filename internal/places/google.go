package places

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"

	"github.com/jonathan/daycare-finder/internal/enrich"
	"github.com/jonathan/daycare-finder/internal/types"
)

// Defaults for the Google Maps client.
const (
	DefaultDetailsRate  = 5 // place details requests per second
	DefaultPageDelay    = 2 * time.Second
	maxResultsPerPage   = 20
	breakerFailureLimit = 3
)

// mapsAPI is the part of *maps.Client the searcher uses.
type mapsAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskPlaceID,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskWebsite,
	maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskUserRatingsTotal,
	maps.PlaceDetailsFieldMaskPriceLevel,
}

// GoogleClient searches the Google Maps Places API.
type GoogleClient struct {
	api       mapsAPI
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	logger    zerolog.Logger
	pageDelay time.Duration
	sleep     func(context.Context, time.Duration) error
}

// GoogleOption customizes a GoogleClient.
type GoogleOption func(*GoogleClient)

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) GoogleOption {
	return func(c *GoogleClient) { c.logger = logger }
}

// WithDetailsRate limits place details requests to perSecond.
func WithDetailsRate(perSecond float64) GoogleOption {
	return func(c *GoogleClient) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1) }
}

// WithPageDelay sets the wait before requesting the next result page.
// Google rejects page tokens used immediately after they are issued.
func WithPageDelay(d time.Duration) GoogleOption {
	return func(c *GoogleClient) { c.pageDelay = d }
}

// NewGoogleClient creates a searcher backed by the Maps API.
func NewGoogleClient(apiKey string, opts ...GoogleOption) (*GoogleClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("maps API key is required")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newGoogleClient(client, opts...), nil
}

func newGoogleClient(api mapsAPI, opts ...GoogleOption) *GoogleClient {
	c := &GoogleClient{
		api:       api,
		limiter:   rate.NewLimiter(rate.Limit(DefaultDetailsRate), 1),
		logger:    zerolog.Nop(),
		pageDelay: DefaultPageDelay,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "place-details",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureLimit
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return c
}

// SearchProviders geocodes the location, runs a nearby search and fetches
// details for up to req.Limit results.
func (c *GoogleClient) SearchProviders(ctx context.Context, req types.SearchRequest) ([]types.Provider, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, &CollaboratorError{Stage: StageRequest, Cause: err}
	}

	origin, err := c.geocode(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("location", req.Location).Float64("lat", origin.Lat).Float64("lng", origin.Lng).Msg("geocoded location")

	summaries, err := c.nearby(ctx, origin, req)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, &CollaboratorError{Stage: StageNearby, Cause: ErrNoResults}
	}
	c.logger.Info().Int("results", len(summaries)).Msg("nearby search complete")

	providers := make([]types.Provider, 0, len(summaries))
	for _, summary := range summaries {
		p, err := c.details(ctx, summary)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &CollaboratorError{Stage: StageNearby, Cause: ctx.Err()}
			}
			c.logger.Warn().Err(err).Str("place_id", summary.PlaceID).Msg("place details unavailable, using search summary")
			p = fromSummary(summary)
		}
		providers = append(providers, p)
	}

	return providers, nil
}

func (c *GoogleClient) geocode(ctx context.Context, location string) (maps.LatLng, error) {
	results, err := c.api.Geocode(ctx, &maps.GeocodingRequest{Address: location})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return maps.LatLng{}, &CollaboratorError{Stage: StageGeocode, Cause: fmt.Errorf("location %q not found", location)}
		}
		return maps.LatLng{}, &CollaboratorError{Stage: StageGeocode, Cause: err}
	}
	if len(results) == 0 {
		return maps.LatLng{}, &CollaboratorError{Stage: StageGeocode, Cause: fmt.Errorf("location %q not found", location)}
	}
	return results[0].Geometry.Location, nil
}

func (c *GoogleClient) nearby(ctx context.Context, origin maps.LatLng, req types.SearchRequest) ([]maps.PlacesSearchResult, error) {
	search := &maps.NearbySearchRequest{
		Location: &origin,
		Radius:   uint(req.RadiusMeters),
		Keyword:  req.Keyword,
		Type:     maps.PlaceTypeSchool,
	}

	var results []maps.PlacesSearchResult
	seen := make(map[string]bool)
	for {
		resp, err := c.api.NearbySearch(ctx, search)
		if err != nil {
			if strings.Contains(err.Error(), "ZERO_RESULTS") {
				break
			}
			return nil, &CollaboratorError{Stage: StageNearby, Cause: err}
		}
		for _, r := range resp.Results {
			if r.PlaceID != "" && seen[r.PlaceID] {
				continue
			}
			seen[r.PlaceID] = true
			results = append(results, r)
			if len(results) >= req.Limit {
				return results, nil
			}
		}
		if resp.NextPageToken == "" || len(resp.Results) < maxResultsPerPage {
			break
		}
		if err := c.sleep(ctx, c.pageDelay); err != nil {
			return nil, &CollaboratorError{Stage: StageNearby, Cause: err}
		}
		search = &maps.NearbySearchRequest{PageToken: resp.NextPageToken}
	}
	return results, nil
}

func (c *GoogleClient) details(ctx context.Context, summary maps.PlacesSearchResult) (types.Provider, error) {
	if summary.PlaceID == "" {
		return types.Provider{}, errors.New("search result has no place ID")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return types.Provider{}, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.api.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
			PlaceID: summary.PlaceID,
			Fields:  detailFields,
		})
	})
	if err != nil {
		return types.Provider{}, err
	}

	d := out.(maps.PlaceDetailsResult)
	p := types.Provider{
		PlaceID: summary.PlaceID,
		Name:    firstNonEmpty(d.Name, summary.Name),
		Address: firstNonEmpty(d.FormattedAddress, summary.FormattedAddress, summary.Vicinity),
		Website: strings.TrimSpace(d.Website),
		Phone:   strings.TrimSpace(d.FormattedPhoneNumber),
	}
	setRatings(&p, d.Rating, d.UserRatingsTotal, d.PriceLevel)
	p.Type = enrich.ClassifyType(p.Name)
	return p, nil
}

// fromSummary builds a provider from nearby-search data alone.
func fromSummary(s maps.PlacesSearchResult) types.Provider {
	p := types.Provider{
		PlaceID: s.PlaceID,
		Name:    s.Name,
		Address: firstNonEmpty(s.FormattedAddress, s.Vicinity),
	}
	setRatings(&p, s.Rating, s.UserRatingsTotal, s.PriceLevel)
	p.Type = enrich.ClassifyType(p.Name)
	return p
}

// setRatings copies API values, treating zeros as missing: the API reports an
// unrated place as rating 0 with no reviews.
func setRatings(p *types.Provider, rating float32, reviews, priceLevel int) {
	if reviews > 0 || rating > 0 {
		p.Rating = types.Float64Ptr(roundTenth(float64(rating)))
		p.ReviewCount = types.IntPtr(reviews)
	}
	if priceLevel > 0 {
		p.PriceLevel = types.IntPtr(priceLevel)
	}
}

// roundTenth removes float32 noise (4.7 arrives as 4.699999809).
func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
