// Package coach produces interview questions and answer feedback directly
// from an LLM provider. Both sources satisfy the practice source
// interfaces, so the session controller treats them like the remote
// backend.
package coach

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/remote"
)

// Coach is an LLM-backed question and feedback source.
type Coach struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Coach. Zero fields of cfg take their defaults.
func New(provider llm.Provider, cfg Config) *Coach {
	def := DefaultConfig()
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = def.QuestionCount
	}
	if cfg.QuestionMaxTokens <= 0 {
		cfg.QuestionMaxTokens = def.QuestionMaxTokens
	}
	if cfg.FeedbackMaxTokens <= 0 {
		cfg.FeedbackMaxTokens = def.FeedbackMaxTokens
	}
	return &Coach{provider: provider, cfg: cfg}
}

var (
	_ practice.QuestionSource = (*Coach)(nil)
	_ practice.FeedbackSource = (*Coach)(nil)
)

// Questions asks the model for a batch tailored to p.
func (c *Coach) Questions(ctx context.Context, p practice.ProfileContext) (*practice.Batch, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestions)

	req := llm.Prompt(questionSystemPrompt, buildQuestionMessage(p, c.cfg.QuestionCount),
		QuestionBatchSchema, c.cfg.QuestionMaxTokens)
	req.Temperature = c.cfg.QuestionTemperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question generation: %w", classify(err))
	}

	var out remote.QuestionResponse
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("question generation: %w", classify(err))
	}
	if len(out.Questions) == 0 {
		return nil, practice.Malformed(errors.New("no questions generated"))
	}
	return out.Batch(practice.OriginLLM), nil
}

// Feedback asks the model to score answer.
func (c *Coach) Feedback(ctx context.Context, q practice.Question, answer string, p practice.ProfileContext) (*practice.FeedbackRecord, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeFeedback)

	req := llm.Prompt(feedbackSystemPrompt, buildFeedbackMessage(q, answer, p),
		AnswerFeedbackSchema, c.cfg.FeedbackMaxTokens)
	req.Temperature = c.cfg.FeedbackTemperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feedback generation: %w", classify(err))
	}

	var out remote.FeedbackResponse
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("feedback generation: %w", classify(err))
	}
	rec := out.Record(practice.OriginLLM)
	if !rec.Valid() {
		return nil, practice.Malformed(fmt.Errorf("score %v or keyword match %v out of range",
			rec.Score, rec.KeywordMatchPercent))
	}
	return rec, nil
}

// classify maps provider errors onto the practice taxonomy.
func classify(err error) error {
	var (
		rejected *llm.ErrRequestRejected
		invalid  *llm.ErrInvalidResponse
		maxTok   *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &rejected):
		return practice.Rejected(rejected.Status, err)
	case errors.As(err, &invalid), errors.As(err, &maxTok):
		return practice.Malformed(err)
	}
	return practice.Unavailable(err)
}
