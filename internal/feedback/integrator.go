// Package feedback turns a single answer into a FeedbackRecord, falling back
// to a fixed record whenever the configured source cannot deliver one.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/practice"
)

// Fallback values.
const (
	FallbackScore        = 7
	FallbackKeywordMatch = 70

	fallbackAssessment  = "Thanks for your answer! While we couldn't generate AI feedback at the moment, remember to focus on clear explanations with practical examples."
	fallbackImprovement = "Try to include more specific examples and cover the key concepts mentioned in the question."
)

var fallbackStrengths = []string{"Completed the answer", "Engaged with the question"}

// Fallback returns the record used when no feedback could be obtained.
func Fallback() practice.FeedbackRecord {
	return practice.FeedbackRecord{
		Score:                 FallbackScore,
		KeywordMatchPercent:   FallbackKeywordMatch,
		Assessment:            fallbackAssessment,
		ImprovementSuggestion: fallbackImprovement,
		Strengths:             append([]string(nil), fallbackStrengths...),
		Origin:                practice.OriginFallback,
	}
}

// Config controls the Integrator.
type Config struct {
	// Timeout bounds a single feedback request. Zero disables the bound.
	Timeout time.Duration
}

// DefaultConfig returns a Config with a 30s timeout.
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

var errOutOfRange = errors.New("score or keyword match out of range")

// Integrator requests feedback from a source and normalizes the result.
type Integrator struct {
	source practice.FeedbackSource
	cfg    Config
	logger *zap.Logger
}

// New creates an Integrator. A nil source always yields the fallback record;
// a nil logger disables logging.
func New(source practice.FeedbackSource, cfg Config, logger *zap.Logger) *Integrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Integrator{source: source, cfg: cfg, logger: logger}
}

// Evaluate scores answer for q. It never fails: any error from the source
// is logged and replaced by Fallback().
func (i *Integrator) Evaluate(ctx context.Context, q practice.Question, answer string, profile practice.ProfileContext) practice.FeedbackRecord {
	rec, err := i.request(ctx, q, answer, profile)
	if err != nil {
		i.logger.Warn("feedback fell back",
			zap.String("question_id", q.ID),
			zap.String("kind", string(practice.Classify(err))),
			zap.Error(err),
		)
		return Fallback()
	}
	return rec
}

func (i *Integrator) request(ctx context.Context, q practice.Question, answer string, profile practice.ProfileContext) (practice.FeedbackRecord, error) {
	if i.source == nil {
		return practice.FeedbackRecord{}, practice.Unavailable(errors.New("no feedback source configured"))
	}

	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	rec, err := i.source.Feedback(ctx, q.Clone(), answer, profile)
	if err != nil {
		return practice.FeedbackRecord{}, fmt.Errorf("request feedback: %w", err)
	}
	if rec == nil {
		return practice.FeedbackRecord{}, practice.Malformed(errors.New("empty feedback"))
	}
	if !rec.Valid() {
		return practice.FeedbackRecord{}, practice.Malformed(errOutOfRange)
	}
	return rec.Clone(), nil
}
