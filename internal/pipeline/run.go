// Package pipeline orchestrates a search-enrich-rank run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/daycare-finder/internal/places"
	"github.com/jonathan/daycare-finder/internal/ranking"
	"github.com/jonathan/daycare-finder/internal/types"
)

// Step names reported in progress events.
const (
	StepSearch = "search"
	StepEnrich = "enrich"
	StepRank   = "rank"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Count   int    `json:"count"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Enricher adds program attributes to providers.
type Enricher interface {
	Enrich(ctx context.Context, providers []types.Provider) ([]types.Provider, error)
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Request    types.SearchRequest
	Searcher   places.Searcher
	Enricher   Enricher // nil skips enrichment
	Engine     *ranking.Engine
	Logger     zerolog.Logger
	OnProgress ProgressCallback

	// Overridable for tests
	Now   func() time.Time
	NewID func() uuid.UUID
}

func (o *RunOptions) emit(runID uuid.UUID, step, message string, count int) {
	if o.OnProgress != nil {
		o.OnProgress(ProgressEvent{Step: step, Message: message, RunID: runID.String(), Count: count})
	}
}

// Run searches for providers, optionally enriches them, and ranks them.
// Search failures, including an empty result set, are returned before any
// scoring happens.
func Run(ctx context.Context, opts RunOptions) (*types.RankedProviders, error) {
	if opts.Searcher == nil {
		return nil, fmt.Errorf("pipeline: searcher is required")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("pipeline: scoring engine is required")
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.New
	}

	req := opts.Request.WithDefaults()
	runID := newID()
	logger := opts.Logger.With().Str("run_id", runID.String()).Logger()

	logger.Info().Str("location", req.Location).Int("radius_m", req.RadiusMeters).Int("limit", req.Limit).Msg("searching for providers")
	providers, err := opts.Searcher.SearchProviders(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("search failed: %w", &places.CollaboratorError{Stage: places.StageNearby, Cause: places.ErrNoResults})
	}
	opts.emit(runID, StepSearch, "providers found", len(providers))

	if opts.Enricher != nil {
		logger.Info().Int("providers", len(providers)).Msg("enriching providers from websites")
		enriched, err := opts.Enricher.Enrich(ctx, providers)
		if err != nil {
			return nil, fmt.Errorf("enrichment failed: %w", err)
		}
		providers = enriched
		opts.emit(runID, StepEnrich, "providers enriched", len(providers))
	}

	ranked := Rank(opts.Engine, providers)
	ranked.RunID = runID
	ranked.Location = req.Location
	ranked.RadiusMeters = req.RadiusMeters
	ranked.GeneratedAt = now()
	opts.emit(runID, StepRank, "providers ranked", len(ranked.Providers))

	if len(ranked.Providers) > 0 {
		top := ranked.Providers[0]
		logger.Info().Str("top", top.Name).Float64("score", top.Score).Msg("ranking complete")
	}
	return ranked, nil
}

// Rank scores providers with engine and wraps them in an output document
// without run metadata.
func Rank(engine *ranking.Engine, providers []types.Provider) *types.RankedProviders {
	return &types.RankedProviders{
		Weights:   engine.Weights().Map(),
		Providers: engine.Rank(providers),
	}
}
