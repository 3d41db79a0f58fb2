package enrich

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/daycare-finder/internal/fetch"
	"github.com/jonathan/daycare-finder/internal/types"
)

// Enricher fills in program attributes by reading each provider's website.
// Website and extraction failures never fail a run; the provider keeps empty
// attributes, which score as missing.
type Enricher struct {
	extractor   Extractor
	fetchOpts   *fetch.Options
	render      fetch.RenderFunc
	concurrency int
	logger      zerolog.Logger
}

// Option customizes an Enricher.
type Option func(*Enricher)

// WithConcurrency sets how many websites are processed at once.
func WithConcurrency(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithRenderer enables headless browser rendering for thin pages.
func WithRenderer(render fetch.RenderFunc) Option {
	return func(e *Enricher) { e.render = render }
}

// WithFetchOptions overrides the HTTP fetch options.
func WithFetchOptions(opts *fetch.Options) Option {
	return func(e *Enricher) { e.fetchOpts = opts }
}

// WithTimeout sets the per-website HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		opts := *fetch.DefaultOptions()
		if e.fetchOpts != nil {
			opts = *e.fetchOpts
		}
		opts.Timeout = d
		e.fetchOpts = &opts
	}
}

// WithLogger sets the enricher logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Enricher) { e.logger = logger }
}

// NewEnricher creates an Enricher. A nil extractor means keyword matching.
func NewEnricher(extractor Extractor, opts ...Option) *Enricher {
	if extractor == nil {
		extractor = KeywordExtractor{}
	}
	e := &Enricher{
		extractor:   extractor,
		fetchOpts:   fetch.DefaultOptions(),
		concurrency: 1,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes the enrichment of one website.
type Result struct {
	URL      string
	Text     string
	Rendered bool
	Program  types.ProgramAttributes
}

// Enrich returns copies of providers with Program filled from their websites.
// Input order is preserved. Only context cancellation is returned as an error.
func (e *Enricher) Enrich(ctx context.Context, providers []types.Provider) ([]types.Provider, error) {
	out := make([]types.Provider, len(providers))
	copy(out, providers)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range out {
		if out[i].Type == "" {
			out[i].Type = ClassifyType(out[i].Name)
		}
		if out[i].Website == "" {
			e.logger.Debug().Str("provider", out[i].Name).Msg("no website, skipping enrichment")
			continue
		}

		// Each goroutine writes only its own element.
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			result, err := e.Website(gCtx, out[i].Website)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				e.logger.Warn().Err(err).Str("provider", out[i].Name).Msg("enrichment failed, using defaults")
				return nil
			}
			out[i].Program = mergeProgram(out[i].Program, result.Program)
			e.logger.Debug().
				Str("provider", out[i].Name).
				Bool("rendered", result.Rendered).
				Int("text_len", len(result.Text)).
				Msg("enriched provider")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Website fetches one website and extracts its program attributes.
// On extraction failure the returned Result is still populated with the page text.
func (e *Enricher) Website(ctx context.Context, url string) (*Result, error) {
	page, err := fetch.PageWithFallback(ctx, url, e.fetchOpts, e.render, e.logger)
	if err != nil {
		return nil, err
	}

	result := &Result{URL: url, Text: page.Text, Rendered: page.Rendered}
	program, err := e.extractor.Extract(ctx, page.Text)
	if err != nil {
		return result, err
	}
	result.Program = program
	return result, nil
}

// mergeProgram fills the empty fields of base from found.
// Attributes already present on a record are not overwritten.
func mergeProgram(base, found types.ProgramAttributes) types.ProgramAttributes {
	if len(base.AgesServed) == 0 {
		base.AgesServed = found.AgesServed
	}
	if base.Mandarin == "" {
		base.Mandarin = found.Mandarin
	}
	if base.MealsProvided == "" {
		base.MealsProvided = found.MealsProvided
	}
	if base.Curriculum == "" {
		base.Curriculum = found.Curriculum
	}
	if base.StaffStability == "" {
		base.StaffStability = found.StaffStability
	}
	if base.CulturalDiversity == "" {
		base.CulturalDiversity = found.CulturalDiversity
	}
	return base
}
