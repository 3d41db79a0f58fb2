package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/daycare-finder/internal/ranking"
	"github.com/jonathan/daycare-finder/internal/types"
)

func TestScoreCommand_AcmeBeta(t *testing.T) {
	providers := writeFile(t, "providers.json", acmeBetaProviders)
	weights := writeFile(t, "weights.yaml", "rating: 1.0\nreview_count: 0.0\n")
	discounts := writeFile(t, "discounts.json", `["Acme Daycare"]`)
	outPath := filepath.Join(t.TempDir(), "out", "ranked.json")

	stdout, _, err := executeCommand(t, "score",
		"--providers", providers,
		"--weights", weights,
		"--discount-list", discounts,
		"--location", "Bellevue, WA",
		"--out", outPath,
	)
	require.NoError(t, err)

	betaIdx := strings.Index(stdout, "#1  Beta Care")
	acmeIdx := strings.Index(stdout, "#2  Acme Daycare")
	assert.GreaterOrEqual(t, betaIdx, 0, "Beta Care should rank first")
	assert.Greater(t, acmeIdx, betaIdx, "Acme Daycare should rank second")
	assert.Contains(t, stdout, "[discount]")
	assert.Contains(t, stdout, "Results written to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var ranked types.RankedProviders
	require.NoError(t, json.Unmarshal(data, &ranked))
	require.Len(t, ranked.Providers, 2)
	assert.Equal(t, "Bellevue, WA", ranked.Location)
	assert.Equal(t, "Beta Care", ranked.Providers[0].Name)
	assert.False(t, ranked.Providers[0].DiscountEligible)
	assert.Equal(t, "Acme Daycare", ranked.Providers[1].Name)
	assert.True(t, ranked.Providers[1].DiscountEligible)
}

func TestScoreCommand_CSVOutput(t *testing.T) {
	providers := writeFile(t, "providers.json", acmeBetaProviders)
	outPath := filepath.Join(t.TempDir(), "ranked.csv")

	_, _, err := executeCommand(t, "score", "--providers", providers, "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3, "header plus one row per provider")
	assert.True(t, strings.HasPrefix(lines[0], "rank,"))
}

func TestScoreCommand_Verbose(t *testing.T) {
	providers := writeFile(t, "providers.json", acmeBetaProviders)

	stdout, _, err := executeCommand(t, "score", "--providers", providers, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, "SCORING WEIGHTS")
	assert.Contains(t, stdout, "RANKED PROVIDERS")
}

func TestScoreCommand_ConfigErrors(t *testing.T) {
	providers := writeFile(t, "providers.json", acmeBetaProviders)

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "negative weight",
			args: []string{"--weights", writeFile(t, "weights.json", `{"rating": -1}`)},
		},
		{
			name: "unknown criterion",
			args: []string{"--weights", writeFile(t, "weights.json", `{"playground": 1}`)},
		},
		{
			name: "blank discount entry",
			args: []string{"--discount-list", writeFile(t, "discounts.json", `["  "]`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"score", "--providers", providers}, tt.args...)
			stdout, _, err := executeCommand(t, args...)
			require.Error(t, err)
			var cfgErr *ranking.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
			assert.NotContains(t, stdout, "RANKED PROVIDERS", "nothing is scored with a bad configuration")
		})
	}
}

func TestScoreCommand_MissingProvidersFlag(t *testing.T) {
	_, _, err := executeCommand(t, "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestScoreCommand_InvalidProvidersFile(t *testing.T) {
	providers := writeFile(t, "providers.json", `[{"address": "no name"}]`)

	_, _, err := executeCommand(t, "score", "--providers", providers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid providers file")
}

func TestScoreCommand_ConfigFile(t *testing.T) {
	providers := writeFile(t, "providers.json", acmeBetaProviders)
	outPath := filepath.Join(t.TempDir(), "ranked.json")
	cfgPath := writeFile(t, "config.yaml", "location: Redmond, WA\noutput: "+outPath+"\ntop: 1\n")

	stdout, _, err := executeCommand(t, "score", "--providers", providers, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Near: Redmond, WA")
	assert.Contains(t, stdout, "... and 1 more providers")
	assert.FileExists(t, outPath)
}
