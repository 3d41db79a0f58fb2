package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/daycare-finder/internal/config"
	"github.com/jonathan/daycare-finder/internal/pipeline"
	"github.com/jonathan/daycare-finder/internal/places"
	"github.com/jonathan/daycare-finder/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score and rank providers from a JSON file",
	Long: "Ranks an existing list of providers (for example the output of an earlier search) without calling " +
		"the maps API. Useful for trying different weights or discount lists.",
	Example: `  daycare_agent score --providers providers.json --weights weights.yaml --discount-list discounts.json`,
	RunE:    runScore,
}

var (
	scoreProviders    string
	scoreWeights      string
	scoreDiscountList string
	scoreOutput       string
	scoreTop          int
	scoreEnrich       bool
	scoreUseLLM       bool
	scoreUseBrowser   bool
	scoreConcurrency  int
	scoreLocation     string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreProviders, "providers", "p", "", "Path to providers JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreWeights, "weights", "w", "", "Path to weight configuration (JSON or YAML); built-in weights when empty")
	scoreCmd.Flags().StringVarP(&scoreDiscountList, "discount-list", "d", "", "Path to list of discount-eligible provider names (JSON or YAML)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Write results to a .json or .csv file")
	scoreCmd.Flags().IntVarP(&scoreTop, "top", "t", 0, "Number of providers to print (default 5)")
	scoreCmd.Flags().BoolVarP(&scoreEnrich, "enrich", "e", false, "Read provider websites for program attributes")
	scoreCmd.Flags().BoolVar(&scoreUseLLM, "llm", false, "Use Gemini to extract program attributes (requires --enrich and GEMINI_API_KEY)")
	scoreCmd.Flags().BoolVar(&scoreUseBrowser, "browser", false, "Render thin pages in headless Chrome")
	scoreCmd.Flags().IntVar(&scoreConcurrency, "concurrency", 0, "Websites read at once during enrichment (default 1)")
	scoreCmd.Flags().StringVarP(&scoreLocation, "location", "l", "", "Location label recorded in the output")

	if err := scoreCmd.MarkFlagRequired("providers"); err != nil {
		panic(fmt.Sprintf("failed to mark providers flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Location:         scoreLocation,
		WeightsFile:      scoreWeights,
		DiscountListFile: scoreDiscountList,
		Output:           scoreOutput,
		Top:              scoreTop,
		Enrich:           scoreEnrich,
		UseLLM:           scoreUseLLM,
		UseBrowser:       scoreUseBrowser,
		Concurrency:      scoreConcurrency,
		Verbose:          verbose,
	})
	if err != nil {
		return err
	}

	engine, err := loadEngine(cfg)
	if err != nil {
		return err
	}

	providers, err := places.LoadProvidersFile(scoreProviders)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := pipeline.RunOptions{
		Request: types.SearchRequest{
			Location:     cfg.Location,
			RadiusMeters: cfg.RadiusMeters,
			Limit:        len(providers),
		},
		Searcher: places.NewStaticSearcher(providers),
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

	ranked, err := pipeline.Run(ctx, opts)
	if err != nil {
		return describeSearchError(err)
	}

	return presentResults(cmd.OutOrStdout(), cfg, ranked)
}
