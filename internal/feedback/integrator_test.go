package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/prepcoach/internal/practice"
)

type stubSource struct {
	rec   *practice.FeedbackRecord
	err   error
	block bool

	gotQuestion practice.Question
	gotAnswer   string
	gotProfile  practice.ProfileContext
}

func (s *stubSource) Feedback(ctx context.Context, q practice.Question, answer string, p practice.ProfileContext) (*practice.FeedbackRecord, error) {
	s.gotQuestion, s.gotAnswer, s.gotProfile = q, answer, p
	if s.block {
		<-ctx.Done()
		return nil, practice.Unavailable(ctx.Err())
	}
	return s.rec, s.err
}

func testQuestion() practice.Question {
	return practice.Question{ID: "q1", Prompt: "Explain closures.", Difficulty: practice.DifficultyMedium}
}

func assertFallback(t *testing.T, rec practice.FeedbackRecord) {
	t.Helper()
	assert.Equal(t, 7.0, rec.Score)
	assert.Equal(t, 70.0, rec.KeywordMatchPercent)
	assert.Equal(t, []string{"Completed the answer", "Engaged with the question"}, rec.Strengths)
	assert.NotEmpty(t, rec.Assessment)
	assert.NotEmpty(t, rec.ImprovementSuggestion)
	assert.Equal(t, practice.OriginFallback, rec.Origin)
}

func TestEvaluate_Success(t *testing.T) {
	src := &stubSource{rec: &practice.FeedbackRecord{
		Score:               9,
		KeywordMatchPercent: 85,
		Assessment:          "Strong answer.",
		Origin:              practice.OriginRemote,
	}}
	in := New(src, DefaultConfig(), nil)

	profile := practice.ProfileContext{JobRole: "Frontend Developer"}
	rec := in.Evaluate(context.Background(), testQuestion(), "A closure captures...", profile)

	assert.Equal(t, 9.0, rec.Score)
	assert.Equal(t, 85.0, rec.KeywordMatchPercent)
	assert.NotNil(t, rec.Strengths, "strengths normalized to empty")
	assert.Equal(t, "A closure captures...", src.gotAnswer)
	assert.Equal(t, "q1", src.gotQuestion.ID)
	assert.Equal(t, profile, src.gotProfile)
}

func TestEvaluate_FallbackOnError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	src := &stubSource{err: practice.Rejected(500, errors.New("internal"))}
	in := New(src, DefaultConfig(), zap.New(core))

	rec := in.Evaluate(context.Background(), testQuestion(), "answer", practice.ProfileContext{})
	assertFallback(t, rec)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "remote_rejected", entry.ContextMap()["kind"])
	assert.Equal(t, "q1", entry.ContextMap()["question_id"])
}

func TestEvaluate_FallbackOnOutOfRange(t *testing.T) {
	src := &stubSource{rec: &practice.FeedbackRecord{Score: 42, KeywordMatchPercent: 50}}
	rec := New(src, DefaultConfig(), nil).Evaluate(context.Background(), testQuestion(), "a", practice.ProfileContext{})
	assertFallback(t, rec)
}

func TestEvaluate_FallbackOnNilRecord(t *testing.T) {
	rec := New(&stubSource{}, DefaultConfig(), nil).Evaluate(context.Background(), testQuestion(), "a", practice.ProfileContext{})
	assertFallback(t, rec)
}

func TestEvaluate_NilSource(t *testing.T) {
	rec := New(nil, DefaultConfig(), nil).Evaluate(context.Background(), testQuestion(), "a", practice.ProfileContext{})
	assertFallback(t, rec)
}

func TestEvaluate_TimeoutFallsBack(t *testing.T) {
	src := &stubSource{block: true}
	in := New(src, Config{Timeout: 10 * time.Millisecond}, nil)

	start := time.Now()
	rec := in.Evaluate(context.Background(), testQuestion(), "a", practice.ProfileContext{})
	assertFallback(t, rec)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFallback_ReturnsFreshSlices(t *testing.T) {
	a := Fallback()
	a.Strengths[0] = "mutated"
	assert.Equal(t, "Completed the answer", Fallback().Strengths[0])
}
