package places

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/jonathan/daycare-finder/internal/types"
)

type fakeMaps struct {
	geocode    []maps.GeocodingResult
	geocodeErr error

	pages       []maps.PlacesSearchResponse
	nearbyErr   error
	nearbyCalls []*maps.NearbySearchRequest

	details      map[string]maps.PlaceDetailsResult
	detailsErr   error
	detailsCalls int
}

func (f *fakeMaps) Geocode(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	return f.geocode, f.geocodeErr
}

func (f *fakeMaps) NearbySearch(_ context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	f.nearbyCalls = append(f.nearbyCalls, r)
	if f.nearbyErr != nil {
		return maps.PlacesSearchResponse{}, f.nearbyErr
	}
	i := len(f.nearbyCalls) - 1
	if i >= len(f.pages) {
		return maps.PlacesSearchResponse{}, nil
	}
	return f.pages[i], nil
}

func (f *fakeMaps) PlaceDetails(_ context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	f.detailsCalls++
	if f.detailsErr != nil {
		return maps.PlaceDetailsResult{}, f.detailsErr
	}
	d, ok := f.details[r.PlaceID]
	if !ok {
		return maps.PlaceDetailsResult{}, fmt.Errorf("maps: NOT_FOUND - %s", r.PlaceID)
	}
	return d, nil
}

func bellevue() []maps.GeocodingResult {
	return []maps.GeocodingResult{{
		Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 47.61, Lng: -122.15}},
	}}
}

func summaries(n int) []maps.PlacesSearchResult {
	out := make([]maps.PlacesSearchResult, n)
	for i := range out {
		out[i] = maps.PlacesSearchResult{
			PlaceID:          fmt.Sprintf("place-%d", i),
			Name:             fmt.Sprintf("Daycare %d", i),
			Vicinity:         fmt.Sprintf("%d Main St", i),
			Rating:           4.5,
			UserRatingsTotal: 10 + i,
		}
	}
	return out
}

func testClient(api mapsAPI) *GoogleClient {
	return newGoogleClient(api, WithDetailsRate(1000), WithPageDelay(0))
}

func TestNewGoogleClient_RequiresKey(t *testing.T) {
	_, err := NewGoogleClient("  ")
	assert.ErrorContains(t, err, "maps API key is required")
}

func TestSearchProviders_DetailsMerged(t *testing.T) {
	api := &fakeMaps{
		geocode: bellevue(),
		pages: []maps.PlacesSearchResponse{{Results: []maps.PlacesSearchResult{
			{PlaceID: "p1", Name: "Little Sprouts Montessori", Vicinity: "1 Elm St", Rating: 4.7, UserRatingsTotal: 31},
			{PlaceID: "p2", Name: "Grandma's Family Home Care", Vicinity: "2 Oak St"},
		}}},
		details: map[string]maps.PlaceDetailsResult{
			"p1": {
				Name:                 "Little Sprouts Montessori",
				FormattedAddress:     "1 Elm St, Bellevue, WA 98008, USA",
				Website:              "https://littlesprouts.example.com",
				FormattedPhoneNumber: "(425) 555-0100",
				Rating:               4.7,
				UserRatingsTotal:     31,
				PriceLevel:           3,
			},
			"p2": {
				Name:             "Grandma's Family Home Care",
				FormattedAddress: "2 Oak St, Bellevue, WA 98008, USA",
			},
		},
	}

	providers, err := testClient(api).SearchProviders(context.Background(), types.SearchRequest{Location: "Bellevue, WA 98008"})
	require.NoError(t, err)
	require.Len(t, providers, 2)

	first := providers[0]
	assert.Equal(t, "p1", first.PlaceID)
	assert.Equal(t, "1 Elm St, Bellevue, WA 98008, USA", first.Address)
	assert.Equal(t, "https://littlesprouts.example.com", first.Website)
	assert.Equal(t, "(425) 555-0100", first.Phone)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4.7, *first.Rating)
	assert.Equal(t, 31, first.ReviewCountValue())
	require.NotNil(t, first.PriceLevel)
	assert.Equal(t, 3, *first.PriceLevel)
	assert.Equal(t, types.ProviderTypeCenter, first.Type)

	second := providers[1]
	assert.Nil(t, second.Rating, "unrated place has no rating")
	assert.Nil(t, second.ReviewCount)
	assert.Nil(t, second.PriceLevel)
	assert.Equal(t, types.ProviderTypeFamily, second.Type)

	require.Len(t, api.nearbyCalls, 1)
	call := api.nearbyCalls[0]
	assert.Equal(t, uint(types.DefaultRadiusMeters), call.Radius)
	assert.Equal(t, types.DefaultKeyword, call.Keyword)
	assert.Equal(t, maps.PlaceTypeSchool, call.Type)
	assert.Equal(t, 47.61, call.Location.Lat)
}

func TestSearchProviders_LimitTruncates(t *testing.T) {
	api := &fakeMaps{
		geocode: bellevue(),
		pages:   []maps.PlacesSearchResponse{{Results: summaries(8)}},
		details: map[string]maps.PlaceDetailsResult{},
	}

	providers, err := testClient(api).SearchProviders(context.Background(), types.SearchRequest{Location: "Bellevue", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, providers, 3)
	assert.Equal(t, 3, api.detailsCalls)
}

func TestSearchProviders_Pagination(t *testing.T) {
	api := &fakeMaps{
		geocode: bellevue(),
		pages: []maps.PlacesSearchResponse{
			{Results: summaries(20), NextPageToken: "next"},
			{Results: summaries(25)[20:]},
		},
		details: map[string]maps.PlaceDetailsResult{},
	}

	providers, err := testClient(api).SearchProviders(context.Background(), types.SearchRequest{Location: "Bellevue", Limit: 22})
	require.NoError(t, err)
	assert.Len(t, providers, 22)
	require.Len(t, api.nearbyCalls, 2)
	assert.Equal(t, "next", api.nearbyCalls[1].PageToken)
	assert.Equal(t, "place-21", providers[21].PlaceID)
}

func TestSearchProviders_DuplicatesAcrossPagesSkipped(t *testing.T) {
	api := &fakeMaps{
		geocode: bellevue(),
		pages: []maps.PlacesSearchResponse{
			{Results: summaries(20), NextPageToken: "next"},
			{Results: summaries(3)},
		},
		details: map[string]maps.PlaceDetailsResult{},
	}

	providers, err := testClient(api).SearchProviders(context.Background(), types.SearchRequest{Location: "Bellevue", Limit: 50})
	require.NoError(t, err)
	assert.Len(t, providers, 20)
}

func TestSearchProviders_DetailsFailureFallsBackToSummary(t *testing.T) {
	api := &fakeMaps{
		geocode:    bellevue(),
		pages:      []maps.PlacesSearchResponse{{Results: summaries(5)}},
		detailsErr: errors.New("maps: OVER_QUERY_LIMIT"),
	}

	providers, err := testClient(api).SearchProviders(context.Background(), types.SearchRequest{Location: "Bellevue"})
	require.NoError(t, err)
	require.Len(t, providers, 5)

	for i, p := range providers {
		assert.Equal(t, fmt.Sprintf("Daycare %d", i), p.Name)
		assert.Equal(t, fmt.Sprintf("%d Main St", i), p.Address)
		assert.Equal(t, 10+i, p.ReviewCountValue())
		assert.Empty(t, p.Website)
	}

	// The breaker opens after three consecutive failures.
	assert.Equal(t, breakerFailureLimit, api.detailsCalls)
}

func TestSearchProviders_Errors(t *testing.T) {
	tests := []struct {
		name      string
		api       *fakeMaps
		req       types.SearchRequest
		wantStage string
		noResults bool
	}{
		{
			name:      "invalid request",
			api:       &fakeMaps{},
			req:       types.SearchRequest{Location: "Bellevue", RadiusMeters: 10},
			wantStage: StageRequest,
		},
		{
			name:      "blank location",
			api:       &fakeMaps{},
			req:       types.SearchRequest{Location: "   "},
			wantStage: StageRequest,
		},
		{
			name:      "invalid key",
			api:       &fakeMaps{geocodeErr: errors.New("maps: REQUEST_DENIED - The provided API key is invalid.")},
			req:       types.SearchRequest{Location: "Bellevue"},
			wantStage: StageGeocode,
		},
		{
			name:      "unknown location",
			api:       &fakeMaps{},
			req:       types.SearchRequest{Location: "Nowhere"},
			wantStage: StageGeocode,
		},
		{
			name:      "nearby failure",
			api:       &fakeMaps{geocode: bellevue(), nearbyErr: errors.New("connection reset")},
			req:       types.SearchRequest{Location: "Bellevue"},
			wantStage: StageNearby,
		},
		{
			name:      "zero results status",
			api:       &fakeMaps{geocode: bellevue(), nearbyErr: errors.New("maps: ZERO_RESULTS - ")},
			req:       types.SearchRequest{Location: "Bellevue"},
			wantStage: StageNearby,
			noResults: true,
		},
		{
			name:      "empty result set",
			api:       &fakeMaps{geocode: bellevue(), pages: []maps.PlacesSearchResponse{{}}},
			req:       types.SearchRequest{Location: "Bellevue"},
			wantStage: StageNearby,
			noResults: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := testClient(tt.api).SearchProviders(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, providers)

			var collabErr *CollaboratorError
			require.ErrorAs(t, err, &collabErr)
			assert.Equal(t, tt.wantStage, collabErr.Stage)
			assert.Equal(t, tt.noResults, IsNoResults(err))
			assert.Zero(t, tt.api.detailsCalls)
		})
	}
}

func TestRoundTenth(t *testing.T) {
	assert.Equal(t, 4.7, roundTenth(float64(float32(4.7))))
	assert.Equal(t, 5.0, roundTenth(5))
	assert.Equal(t, 0.0, roundTenth(0))
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}
