package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/daycare-finder/internal/llm"
	"github.com/jonathan/daycare-finder/internal/types"
)

// MaxLLMInputRunes bounds the page text sent to the model.
const MaxLLMInputRunes = 16000

// DefaultLLMAttempts is the number of model calls made before giving up on a page.
const DefaultLLMAttempts = 3

// Extractor turns website text into program attributes.
type Extractor interface {
	Extract(ctx context.Context, text string) (types.ProgramAttributes, error)
}

// KeywordExtractor applies ScanKeywords.
type KeywordExtractor struct{}

// Extract implements Extractor.
func (KeywordExtractor) Extract(_ context.Context, text string) (types.ProgramAttributes, error) {
	return ScanKeywords(text), nil
}

// ExtractionError reports that the model never produced usable output for a page.
type ExtractionError struct {
	Attempts int
	Cause    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("program extraction failed after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// LLMExtractor asks a language model for program attributes.
type LLMExtractor struct {
	client   llm.Client
	tier     llm.ModelTier
	attempts int
	logger   zerolog.Logger
	sleep    func(context.Context, time.Duration) error
}

// NewLLMExtractor creates an extractor using client.
func NewLLMExtractor(client llm.Client, logger zerolog.Logger) *LLMExtractor {
	return &LLMExtractor{
		client:   client,
		tier:     llm.TierStandard,
		attempts: DefaultLLMAttempts,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Extract implements Extractor. Failed calls are retried with exponential
// backoff (2s, 4s). When every attempt fails the zero attributes are returned
// along with an *ExtractionError.
func (x *LLMExtractor) Extract(ctx context.Context, text string) (types.ProgramAttributes, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.ProgramAttributes{}, nil
	}
	prompt := llm.BuildExtractionPrompt(llm.ProgramInfoSchema(), truncateRunes(text, MaxLLMInputRunes))

	var lastErr error
	for attempt := 1; attempt <= x.attempts; attempt++ {
		raw, err := x.client.GenerateJSON(ctx, prompt, x.tier)
		if err == nil {
			attrs, parseErr := ParseProgramJSON(raw)
			if parseErr == nil {
				return attrs, nil
			}
			err = parseErr
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < x.attempts {
			wait := time.Duration(1<<attempt) * time.Second
			x.logger.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("program extraction failed, retrying")
			if sleepErr := x.sleep(ctx, wait); sleepErr != nil {
				lastErr = sleepErr
				break
			}
		}
	}

	return types.ProgramAttributes{}, &ExtractionError{Attempts: x.attempts, Cause: lastErr}
}

// programJSON mirrors llm.ProgramInfoSchema. ages_served is raw because models
// return it either as a list or as a comma separated string.
type programJSON struct {
	AgesServed        json.RawMessage `json:"ages_served"`
	Mandarin          string          `json:"mandarin"`
	MealsProvided     string          `json:"meals_provided"`
	Curriculum        string          `json:"curriculum"`
	CulturalDiversity string          `json:"cultural_diversity"`
	StaffStability    string          `json:"staff_stability"`
}

// ParseProgramJSON decodes a model response into canonical program attributes.
func ParseProgramJSON(raw string) (types.ProgramAttributes, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return types.ProgramAttributes{}, errors.New("empty model response")
	}

	var doc programJSON
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return types.ProgramAttributes{}, fmt.Errorf("failed to parse model response: %w", err)
	}

	ages, err := parseAges(doc.AgesServed)
	if err != nil {
		return types.ProgramAttributes{}, err
	}

	return types.ProgramAttributes{
		AgesServed:        ages,
		Mandarin:          canonicalYesNo(doc.Mandarin),
		MealsProvided:     canonicalYesNo(doc.MealsProvided),
		Curriculum:        canonicalCurriculum(doc.Curriculum),
		CulturalDiversity: canonicalDiversity(doc.CulturalDiversity),
		StaffStability:    canonicalYesNo(doc.StaffStability),
	}, nil
}

func parseAges(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		var joined string
		if err := json.Unmarshal(raw, &joined); err != nil {
			return nil, fmt.Errorf("ages_served must be a string or list of strings")
		}
		list = strings.Split(joined, ",")
	}

	out := make([]string, 0, len(list))
	for _, age := range list {
		if age = strings.ToLower(strings.TrimSpace(age)); age != "" {
			out = append(out, age)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func canonicalYesNo(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "y":
		return types.AnswerYes
	case "no", "false", "n":
		return types.AnswerNo
	default:
		return ""
	}
}

func canonicalCurriculum(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "unknown", "n/a", "none", "not stated":
		return ""
	default:
		return v
	}
}

func canonicalDiversity(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high":
		return types.DiversityHigh
	case "medium":
		return types.DiversityMedium
	case "low":
		return types.DiversityLow
	default:
		return ""
	}
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
