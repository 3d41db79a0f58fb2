package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/daycare-finder/internal/config"
	"github.com/jonathan/daycare-finder/internal/observability"
	"github.com/jonathan/daycare-finder/internal/pipeline"
	"github.com/jonathan/daycare-finder/internal/places"
	"github.com/jonathan/daycare-finder/internal/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for daycare providers near a location and rank them",
	Long: "Geocodes a location, finds nearby daycare providers through Google Maps, optionally reads their " +
		"websites for program details, then scores and ranks them. Requires GOOGLE_MAPS_API_KEY.",
	Example: `  daycare_agent search --location "Bellevue, WA 98008" --radius 8000 --limit 20
  daycare_agent search -l "Redmond, WA" --enrich --weights weights.yaml --discount-list discounts.json -o ranked.csv`,
	RunE: runSearch,
}

var (
	searchLocation     string
	searchRadius       int
	searchLimit        int
	searchKeyword      string
	searchWeights      string
	searchDiscountList string
	searchOutput       string
	searchTop          int
	searchEnrich       bool
	searchUseLLM       bool
	searchUseBrowser   bool
	searchConcurrency  int
	searchDetailsRate  float64
)

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "Address or place to search around (required unless set in config)")
	searchCmd.Flags().IntVarP(&searchRadius, "radius", "r", 0, fmt.Sprintf("Search radius in meters, 1000-50000 (default %d)", types.DefaultRadiusMeters))
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, fmt.Sprintf("Maximum providers to fetch, 1-50 (default %d)", types.DefaultLimit))
	searchCmd.Flags().StringVar(&searchKeyword, "keyword", "", fmt.Sprintf("Places search keyword (default %q)", types.DefaultKeyword))
	searchCmd.Flags().StringVarP(&searchWeights, "weights", "w", "", "Path to weight configuration (JSON or YAML); built-in weights when empty")
	searchCmd.Flags().StringVarP(&searchDiscountList, "discount-list", "d", "", "Path to list of discount-eligible provider names (JSON or YAML)")
	searchCmd.Flags().StringVarP(&searchOutput, "out", "o", "", "Write results to a .json or .csv file")
	searchCmd.Flags().IntVarP(&searchTop, "top", "t", 0, "Number of providers to print (default 5)")
	searchCmd.Flags().BoolVarP(&searchEnrich, "enrich", "e", false, "Read provider websites for program attributes")
	searchCmd.Flags().BoolVar(&searchUseLLM, "llm", false, "Use Gemini to extract program attributes (requires --enrich and GEMINI_API_KEY)")
	searchCmd.Flags().BoolVar(&searchUseBrowser, "browser", false, "Render thin pages in headless Chrome")
	searchCmd.Flags().IntVar(&searchConcurrency, "concurrency", 0, "Websites read at once during enrichment (default 1)")
	searchCmd.Flags().Float64Var(&searchDetailsRate, "details-rate", places.DefaultDetailsRate, "Maximum place details requests per second")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Location:         searchLocation,
		RadiusMeters:     searchRadius,
		Limit:            searchLimit,
		Keyword:          searchKeyword,
		WeightsFile:      searchWeights,
		DiscountListFile: searchDiscountList,
		Output:           searchOutput,
		Top:              searchTop,
		Enrich:           searchEnrich,
		UseLLM:           searchUseLLM,
		UseBrowser:       searchUseBrowser,
		Concurrency:      searchConcurrency,
		Verbose:          verbose,
	})
	if err != nil {
		return err
	}

	req := types.SearchRequest{
		Location:     cfg.Location,
		RadiusMeters: cfg.RadiusMeters,
		Limit:        cfg.Limit,
		Keyword:      cfg.Keyword,
	}.WithDefaults()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid search: %w", err)
	}

	// Scoring configuration is checked before any network call.
	engine, err := loadEngine(cfg)
	if err != nil {
		return err
	}

	if err := cfg.RequireMapsAPIKey(); err != nil {
		return err
	}
	searcher, err := places.NewGoogleClient(cfg.MapsAPIKey,
		places.WithLogger(logger),
		places.WithDetailsRate(searchDetailsRate),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := pipeline.RunOptions{
		Request:  req,
		Searcher: searcher,
		Engine:   engine,
		Logger:   logger,
	}
	if cfg.Enrich {
		enricher, closeFn, err := buildEnricher(ctx, cfg)
		defer closeFn()
		if err != nil {
			return err
		}
		opts.Enricher = enricher
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSearchRequest(req)
	}

	start := time.Now()
	ranked, err := pipeline.Run(ctx, opts)
	if err != nil {
		return describeSearchError(err)
	}
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("search finished")

	return presentResults(cmd.OutOrStdout(), cfg, ranked)
}
