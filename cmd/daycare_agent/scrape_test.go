package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/daycare-finder/internal/types"
)

const sunflowerPage = `<html><body>
<nav>Home | About | Contact</nav>
<main>
  <h1>Sunflower Montessori</h1>
  <p>We welcome infants, toddlers and preschool children.</p>
  <p>Our bilingual Mandarin immersion program includes healthy meals and snacks every day.</p>
</main>
</body></html>`

func newSunflowerServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, sunflowerPage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeCommand_Keywords(t *testing.T) {
	srv := newSunflowerServer(t)

	stdout, _, err := executeCommand(t, "scrape", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "PROGRAM ATTRIBUTES")
	assert.Contains(t, stdout, "Mandarin:           Yes")
	assert.Contains(t, stdout, "Meals provided:     Yes")
	assert.Contains(t, stdout, "Curriculum:         Montessori")
}

func TestScrapeCommand_JSON(t *testing.T) {
	srv := newSunflowerServer(t)

	stdout, _, err := executeCommand(t, "scrape", "--url", srv.URL, "--json")
	require.NoError(t, err)

	var attrs types.ProgramAttributes
	require.NoError(t, json.Unmarshal([]byte(stdout), &attrs))
	assert.Equal(t, types.AnswerYes, attrs.Mandarin)
	assert.Equal(t, types.AnswerYes, attrs.MealsProvided)
	assert.Contains(t, attrs.AgesServed, "infant")
}

func TestScrapeCommand_InvalidURL(t *testing.T) {
	_, _, err := executeCommand(t, "scrape", "--url", "ftp://example.com")
	require.Error(t, err)
}

func TestScrapeCommand_LLMWithoutKey(t *testing.T) {
	srv := newSunflowerServer(t)

	_, _, err := executeCommand(t, "scrape", "--url", srv.URL, "--llm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestScrapeCommand_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := executeCommand(t, "scrape", "--url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scrape")
}
