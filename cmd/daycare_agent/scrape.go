package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/daycare-finder/internal/config"
	"github.com/jonathan/daycare-finder/internal/enrich"
	"github.com/jonathan/daycare-finder/internal/fetch"
	"github.com/jonathan/daycare-finder/internal/observability"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract program attributes from one provider website",
	Long:  "Fetches a single daycare website and prints the program attributes found on it. Handy for checking keyword or LLM extraction.",
	Example: `  daycare_agent scrape --url https://www.example-daycare.com
  daycare_agent scrape --url https://www.example-daycare.com --llm --json`,
	RunE: runScrape,
}

var (
	scrapeURL        string
	scrapeUseLLM     bool
	scrapeUseBrowser bool
	scrapeJSON       bool
	scrapeShowText   bool
)

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeURL, "url", "u", "", "Website URL (required)")
	scrapeCmd.Flags().BoolVar(&scrapeUseLLM, "llm", false, "Use Gemini instead of keyword matching (requires GEMINI_API_KEY)")
	scrapeCmd.Flags().BoolVar(&scrapeUseBrowser, "browser", false, "Render thin pages in headless Chrome")
	scrapeCmd.Flags().BoolVar(&scrapeJSON, "json", false, "Print attributes as JSON")
	scrapeCmd.Flags().BoolVar(&scrapeShowText, "show-text", false, "Also print the extracted page text")

	if err := scrapeCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	if err := fetch.ValidateURL(scrapeURL); err != nil {
		return err
	}

	cfg, err := resolveConfig(config.Config{
		Enrich:     true,
		UseLLM:     scrapeUseLLM,
		UseBrowser: scrapeUseBrowser,
		Verbose:    verbose,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	enricher, closeFn, err := buildEnricher(ctx, cfg)
	defer closeFn()
	if err != nil {
		return err
	}

	result, err := enricher.Website(ctx, scrapeURL)
	if err != nil {
		var extractErr *enrich.ExtractionError
		if result == nil || !errors.As(err, &extractErr) {
			return fmt.Errorf("failed to scrape %s: %w", scrapeURL, err)
		}
		logger.Warn().Err(err).Msg("extraction failed, showing defaults")
	}
	logger.Debug().Int("text_len", len(result.Text)).Bool("rendered", result.Rendered).Msg("fetched website")

	out := cmd.OutOrStdout()
	if scrapeShowText {
		_, _ = fmt.Fprintf(out, "%s\n\n", result.Text)
	}
	if scrapeJSON {
		jsonOutput, err := json.MarshalIndent(result.Program, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal program attributes: %w", err)
		}
		_, _ = fmt.Fprintf(out, "%s\n", jsonOutput)
		return nil
	}

	observability.NewPrinter(out).PrintProgram(scrapeURL, result.Program)
	return nil
}
