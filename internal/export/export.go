// Package export writes ranking results to JSON and CSV files.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/daycare-finder/internal/schemas"
	"github.com/jonathan/daycare-finder/internal/types"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// CSVHeader lists the CSV columns in order.
var CSVHeader = []string{
	"rank", "name", "score", "discount_eligible",
	"rating", "review_count", "address", "phone", "website", "type",
	"ages_served", "mandarin", "meals_provided", "curriculum",
	"staff_stability", "cultural_diversity", "notes",
}

// FormatForPath returns the output format implied by a file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use .json or .csv", filepath.Ext(path))
	}
}

// WriteFile writes ranked results to path in the format implied by its extension,
// creating parent directories as needed.
func WriteFile(path string, ranked *types.RankedProviders) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, ranked)
	default:
		err = WriteJSON(&buf, ranked)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// WriteJSON validates ranked against the ranked providers schema and writes it as
// indented JSON.
func WriteJSON(w io.Writer, ranked *types.RankedProviders) error {
	if ranked == nil {
		return fmt.Errorf("nothing to export")
	}
	if err := schemas.ValidateDocument(schemas.RankedProviders, ranked); err != nil {
		return fmt.Errorf("ranked output failed validation: %w", err)
	}

	jsonOutput, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ranked providers: %w", err)
	}
	jsonOutput = append(jsonOutput, '\n')
	if _, err := w.Write(jsonOutput); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteCSV writes one row per ranked provider, in rank order.
func WriteCSV(w io.Writer, ranked *types.RankedProviders) error {
	if ranked == nil {
		return fmt.Errorf("nothing to export")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, sp := range ranked.Providers {
		if err := cw.Write(csvRow(&sp)); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", sp.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func csvRow(sp *types.ScoredProvider) []string {
	rating := ""
	if sp.Rating != nil {
		rating = strconv.FormatFloat(*sp.Rating, 'f', 1, 64)
	}
	reviews := ""
	if sp.ReviewCount != nil {
		reviews = strconv.Itoa(*sp.ReviewCount)
	}

	return []string{
		strconv.Itoa(sp.Rank),
		sp.Name,
		strconv.FormatFloat(sp.Score, 'f', 3, 64),
		strconv.FormatBool(sp.DiscountEligible),
		rating,
		reviews,
		sp.Address,
		sp.Phone,
		sp.Website,
		string(sp.Type),
		strings.Join(sp.Program.AgesServed, "; "),
		sp.Program.Mandarin,
		sp.Program.MealsProvided,
		sp.Program.Curriculum,
		sp.Program.StaffStability,
		sp.Program.CulturalDiversity,
		sp.Notes,
	}
}
