package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/daycare-finder/internal/schemas"
	"github.com/jonathan/daycare-finder/internal/types"
)

func sampleRanked() *types.RankedProviders {
	return &types.RankedProviders{
		RunID:        uuid.MustParse("6f1c2d7e-8a4b-4c3d-9e2f-1a2b3c4d5e6f"),
		Location:     "Bellevue, WA 98008",
		RadiusMeters: 5000,
		GeneratedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Weights:      map[string]float64{"rating": 1},
		Providers: []types.ScoredProvider{
			{
				Provider: types.Provider{
					Name:        "Beta Care",
					Address:     "2 Main St, Bellevue",
					Rating:      types.Float64Ptr(4.8),
					ReviewCount: types.IntPtr(40),
					Type:        types.ProviderTypeUnknown,
					Program: types.ProgramAttributes{
						AgesServed: []string{"infant", "toddler"},
						Mandarin:   types.AnswerYes,
					},
				},
				Rank:       1,
				Score:      0.96,
				Components: map[string]float64{"rating": 0.96},
				Notes:      "Rated 4.8 from 40 reviews",
			},
			{
				Provider: types.Provider{
					Name:   "Acme Daycare",
					Rating: types.Float64Ptr(4.5),
				},
				Rank:             2,
				Score:            0.9,
				DiscountEligible: true,
				Components:       map[string]float64{"rating": 0.9},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRanked()))

	var decoded types.RankedProviders
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "6f1c2d7e-8a4b-4c3d-9e2f-1a2b3c4d5e6f", decoded.RunID.String())
	require.Len(t, decoded.Providers, 2)
	assert.Equal(t, "Beta Care", decoded.Providers[0].Name)
	assert.True(t, decoded.Providers[1].DiscountEligible)

	assert.NoError(t, schemas.ValidateJSONString(mustSchema(t), buf.String()))
}

func TestWriteJSON_RejectsInvalid(t *testing.T) {
	ranked := sampleRanked()
	ranked.Providers[0].Components["rating"] = 1.5

	var buf bytes.Buffer
	err := WriteJSON(&buf, ranked)
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Empty(t, buf.String())
}

func TestWriteJSON_Nil(t *testing.T) {
	assert.Error(t, WriteJSON(&bytes.Buffer{}, nil))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRanked()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, CSVHeader, records[0])

	beta := records[1]
	assert.Equal(t, "1", beta[0])
	assert.Equal(t, "Beta Care", beta[1])
	assert.Equal(t, "0.960", beta[2])
	assert.Equal(t, "false", beta[3])
	assert.Equal(t, "4.8", beta[4])
	assert.Equal(t, "40", beta[5])
	assert.Equal(t, "2 Main St, Bellevue", beta[6])
	assert.Equal(t, "infant; toddler", beta[10])
	assert.Equal(t, "Yes", beta[11])

	acme := records[2]
	assert.Equal(t, "true", acme[3])
	assert.Equal(t, "", acme[5], "missing review count stays blank")
}

func TestFormatForPath(t *testing.T) {
	f, err := FormatForPath("out/results.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatForPath("results.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatForPath("results.xlsx")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "nested", "ranked.json")
	require.NoError(t, WriteFile(jsonPath, sampleRanked()))
	assert.NoError(t, schemas.ValidateFile(schemas.RankedProviders, jsonPath))

	csvPath := filepath.Join(dir, "ranked.csv")
	require.NoError(t, WriteFile(csvPath, sampleRanked()))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Acme Daycare")

	assert.Error(t, WriteFile(filepath.Join(dir, "ranked.txt"), sampleRanked()))
}

func mustSchema(t *testing.T) string {
	t.Helper()
	s, err := schemas.Schema(schemas.RankedProviders)
	require.NoError(t, err)
	return s
}
