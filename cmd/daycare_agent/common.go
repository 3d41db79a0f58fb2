package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/daycare-finder/internal/config"
	"github.com/jonathan/daycare-finder/internal/enrich"
	"github.com/jonathan/daycare-finder/internal/export"
	"github.com/jonathan/daycare-finder/internal/fetch"
	"github.com/jonathan/daycare-finder/internal/llm"
	"github.com/jonathan/daycare-finder/internal/logging"
	"github.com/jonathan/daycare-finder/internal/observability"
	"github.com/jonathan/daycare-finder/internal/places"
	"github.com/jonathan/daycare-finder/internal/ranking"
	"github.com/jonathan/daycare-finder/internal/types"
)

// resolveConfig layers settings: command-line flags, then the config file, then
// the environment. Booleans are enabled when either flags or the file enable them.
func resolveConfig(flags config.Config) (config.Config, error) {
	cfg := flags
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		merged.Enrich = cfg.Enrich || fileCfg.Enrich
		merged.UseLLM = cfg.UseLLM || fileCfg.UseLLM
		merged.UseBrowser = cfg.UseBrowser || fileCfg.UseBrowser
		merged.Verbose = cfg.Verbose || fileCfg.Verbose
		cfg = merged
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	if (cfg.Verbose && !verbose) || (cfg.LogLevel != "" && logLevel == "") {
		logger = logging.New(logging.Options{Out: logOut, Level: cfg.LogLevel, Verbose: cfg.Verbose || verbose, JSON: logJSON})
	}
	return cfg, nil
}

// loadEngine builds the scoring engine from the weight and discount files.
// Configuration errors are fatal and reported before any search.
func loadEngine(cfg config.Config) (*ranking.Engine, error) {
	weights, err := config.LoadWeights(cfg.WeightsFile)
	if err != nil {
		return nil, err
	}
	discounts, err := config.LoadDiscountList(cfg.DiscountListFile)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("weights_file", cfg.WeightsFile).
		Str("discount_list_file", cfg.DiscountListFile).
		Int("discount_entries", discounts.Len()).
		Msg("loaded scoring configuration")
	return ranking.NewEngine(weights, discounts)
}

// buildExtractor returns the keyword extractor, or a Gemini-backed one when
// LLM extraction is enabled. The returned close function is never nil.
func buildExtractor(ctx context.Context, cfg config.Config) (enrich.Extractor, func(), error) {
	if !cfg.UseLLM {
		return enrich.KeywordExtractor{}, func() {}, nil
	}
	if err := cfg.RequireGeminiAPIKey(); err != nil {
		return nil, func() {}, err
	}
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, func() {}, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Debug().Err(err).Msg("failed to close LLM client")
		}
	}
	return enrich.NewLLMExtractor(client, logger), closeFn, nil
}

// buildEnricher returns the website enricher configured by cfg.
func buildEnricher(ctx context.Context, cfg config.Config) (*enrich.Enricher, func(), error) {
	extractor, closeFn, err := buildExtractor(ctx, cfg)
	if err != nil {
		return nil, closeFn, err
	}

	opts := []enrich.Option{
		enrich.WithConcurrency(cfg.Concurrency),
		enrich.WithLogger(logger),
	}
	if cfg.UseBrowser {
		opts = append(opts, enrich.WithRenderer(fetch.ChromeRenderer(0, logger)))
	}
	return enrich.NewEnricher(extractor, opts...), closeFn, nil
}

// presentResults prints the ranking and writes it to cfg.Output when set.
func presentResults(out io.Writer, cfg config.Config, ranked *types.RankedProviders) error {
	printer := observability.NewPrinter(out)
	if cfg.Verbose {
		printer.PrintWeights(ranked.Weights)
	}
	printer.PrintRankedProviders(ranked, cfg.Top)

	if cfg.Output != "" {
		if err := export.WriteFile(cfg.Output, ranked); err != nil {
			return fmt.Errorf("failed to write results to %s: %w", cfg.Output, err)
		}
		_, _ = fmt.Fprintf(out, "Results written to %s\n", cfg.Output)
	}
	return nil
}

// describeSearchError turns collaborator failures into a user-facing message.
func describeSearchError(err error) error {
	if places.IsNoResults(err) {
		return fmt.Errorf("no daycare providers found; try a larger radius or a different location: %w", err)
	}
	var collabErr *places.CollaboratorError
	if errors.As(err, &collabErr) {
		return fmt.Errorf("provider search unavailable (%s): %w", collabErr.Stage, err)
	}
	return err
}
