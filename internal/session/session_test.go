package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/prepcoach/internal/feedback"
	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/profile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type questionFunc func(ctx context.Context, p practice.ProfileContext) (*practice.Batch, error)

func (f questionFunc) Questions(ctx context.Context, p practice.ProfileContext) (*practice.Batch, error) {
	return f(ctx, p)
}

type feedbackFunc func(ctx context.Context, q practice.Question, answer string, p practice.ProfileContext) (*practice.FeedbackRecord, error)

func (f feedbackFunc) Feedback(ctx context.Context, q practice.Question, answer string, p practice.ProfileContext) (*practice.FeedbackRecord, error) {
	return f(ctx, q, answer, p)
}

func remoteBatch(n int, tag string) *practice.Batch {
	b := &practice.Batch{Origin: practice.OriginRemote}
	for i := range n {
		b.Questions = append(b.Questions, practice.Question{
			ID:               fmt.Sprintf("r%d", i+1),
			Prompt:           fmt.Sprintf("%s question %d", tag, i+1),
			TimeLimitMinutes: 5,
			Difficulty:       practice.DifficultyEasy,
			Category:         "Technical",
		})
	}
	return b
}

func staticQuestions(b *practice.Batch) practice.QuestionSource {
	return questionFunc(func(context.Context, practice.ProfileContext) (*practice.Batch, error) {
		return b, nil
	})
}

func failingQuestions() practice.QuestionSource {
	return questionFunc(func(context.Context, practice.ProfileContext) (*practice.Batch, error) {
		return nil, practice.Unavailable(errors.New("connection refused"))
	})
}

func goodFeedback() practice.FeedbackSource {
	return feedbackFunc(func(context.Context, practice.Question, string, practice.ProfileContext) (*practice.FeedbackRecord, error) {
		return &practice.FeedbackRecord{
			Score:               9,
			KeywordMatchPercent: 90,
			Assessment:          "Clear and complete.",
			Strengths:           []string{"Precise"},
			Origin:              practice.OriginRemote,
		}, nil
	})
}

func failingFeedback() practice.FeedbackSource {
	return feedbackFunc(func(context.Context, practice.Question, string, practice.ProfileContext) (*practice.FeedbackRecord, error) {
		return nil, practice.Rejected(500, errors.New("internal error"))
	})
}

func newInterview(questions practice.QuestionSource, fb practice.FeedbackSource, opts ...Option) *Controller[*profile.Profile] {
	return New[*profile.Profile](questions, feedback.New(fb, feedback.DefaultConfig(), nil), DefaultConfig(), opts...)
}

func frontendProfile() *profile.Profile {
	p := profile.New("Frontend Developer")
	_ = p.AddKeyword("React")
	return p
}

func assertInvariant[P Shape[P]](t *testing.T, c *Controller[P]) {
	t.Helper()
	s, ok := c.Session()
	if !ok {
		return
	}
	assert.LessOrEqual(t, len(s.AnswerLog), s.CurrentIndex)
	assert.LessOrEqual(t, s.CurrentIndex, len(s.Questions))
}

func TestStart_Remote(t *testing.T) {
	c := newInterview(staticQuestions(remoteBatch(4, "remote")), goodFeedback())

	s, err := c.Start(context.Background(), frontendProfile())
	require.NoError(t, err)

	assert.Len(t, s.Questions, 4)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.AnswerLog)
	assert.Equal(t, practice.OriginRemote, s.Origin)
	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.Rubric)
	assert.Equal(t, StateActive, c.State())
	assert.False(t, c.Pending())

	q, ok := c.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "remote question 1", q.Prompt)
}

func TestStart_FallbackWhenRemoteDown(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := newInterview(failingQuestions(), goodFeedback(), WithLogger(zap.New(core)))

	s, err := c.Start(context.Background(), frontendProfile())
	require.NoError(t, err)

	require.Len(t, s.Questions, 3)
	assert.Equal(t, practice.OriginFallback, s.Origin)
	assert.Equal(t, 0, s.CurrentIndex)

	var diffs []practice.Difficulty
	var limits []int
	for _, q := range s.Questions {
		diffs = append(diffs, q.Difficulty)
		limits = append(limits, q.TimeLimitMinutes)
	}
	assert.Equal(t, []practice.Difficulty{practice.DifficultyMedium, practice.DifficultyMedium, practice.DifficultyHard}, diffs)
	assert.Equal(t, []int{5, 7, 6}, limits)
	assert.Contains(t, s.Questions[0].Prompt, "Frontend Developer")

	entries := logs.FilterMessage("questions fell back").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "remote_unavailable", entries[0].ContextMap()["kind"])
}

func TestStart_FallbackOnEmptyBatch(t *testing.T) {
	c := newInterview(staticQuestions(&practice.Batch{}), goodFeedback())

	s, err := c.Start(context.Background(), frontendProfile())
	require.NoError(t, err)
	assert.Len(t, s.Questions, 3)
	assert.Equal(t, practice.OriginFallback, s.Origin)
}

func TestStart_FallbackOnTimeout(t *testing.T) {
	slow := questionFunc(func(ctx context.Context, _ practice.ProfileContext) (*practice.Batch, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	cfg := DefaultConfig()
	cfg.QuestionTimeout = 20 * time.Millisecond
	c := New[*profile.Profile](slow, feedback.New(goodFeedback(), feedback.DefaultConfig(), nil), cfg)

	s, err := c.Start(context.Background(), frontendProfile())
	require.NoError(t, err)
	assert.Len(t, s.Questions, 3)
	assert.Equal(t, practice.OriginFallback, s.Origin)
}

func TestStart_NilSourceUsesFallback(t *testing.T) {
	c := newInterview(nil, nil)

	s, err := c.Start(context.Background(), frontendProfile())
	require.NoError(t, err)
	assert.Len(t, s.Questions, 3)
}

func TestStart_InvalidProfile(t *testing.T) {
	c := newInterview(staticQuestions(remoteBatch(2, "remote")), goodFeedback())

	_, err := c.Start(context.Background(), profile.New("  "))
	require.ErrorIs(t, err, practice.ErrInvalidInput)
	assert.Equal(t, StateIdle, c.State())
	assert.Zero(t, c.Generation())
}

func TestStart_SnapshotsProfile(t *testing.T) {
	var got practice.ProfileContext
	src := questionFunc(func(_ context.Context, p practice.ProfileContext) (*practice.Batch, error) {
		got = p
		return remoteBatch(1, "remote"), nil
	})
	c := newInterview(src, goodFeedback())

	p := frontendProfile()
	_, err := c.Start(context.Background(), p)
	require.NoError(t, err)

	_ = p.AddKeyword("Vue")
	p.JobRole = "Backend Developer"

	s, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, "Frontend Developer", s.Profile.JobRole)
	assert.Equal(t, []string{"React"}, s.Profile.Keywords())
	assert.Equal(t, "Frontend Developer", got.JobRole)
}

func TestStart_AgainDiscardsOldSession(t *testing.T) {
	c := newInterview(staticQuestions(remoteBatch(3, "remote")), goodFeedback())
	ctx := context.Background()

	first, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)
	_, err = c.SubmitAnswer(ctx, "An answer")
	require.NoError(t, err)

	second, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.Generation, first.Generation)

	s, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, second.ID, s.ID)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.AnswerLog)
}

func TestStart_StaleResultDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	src := questionFunc(func(context.Context, practice.ProfileContext) (*practice.Batch, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return remoteBatch(2, "old"), nil
		}
		return remoteBatch(2, "new"), nil
	})
	c := newInterview(src, goodFeedback())
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() {
		_, err := c.Start(ctx, frontendProfile())
		errc <- err
	}()
	<-entered
	assert.True(t, c.Pending())

	fresh, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	close(release)
	require.ErrorIs(t, <-errc, ErrSuperseded)

	s, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, fresh.ID, s.ID)
	assert.Equal(t, "new question 1", s.Questions[0].Prompt)
	assert.False(t, c.Pending())
}

func TestReset_DuringStart(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	src := questionFunc(func(context.Context, practice.ProfileContext) (*practice.Batch, error) {
		close(entered)
		<-release
		return remoteBatch(2, "remote"), nil
	})
	c := newInterview(src, goodFeedback())

	errc := make(chan error, 1)
	go func() {
		_, err := c.Start(context.Background(), frontendProfile())
		errc <- err
	}()
	<-entered
	c.Reset()
	assert.False(t, c.Pending())
	close(release)

	require.ErrorIs(t, <-errc, ErrSuperseded)
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmitAnswer_CompletesAfterN(t *testing.T) {
	const n = 4
	c := newInterview(staticQuestions(remoteBatch(n, "remote")), goodFeedback())
	ctx := context.Background()
	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	for i := range n {
		assert.Equal(t, StateActive, c.State())
		entry, err := c.SubmitAnswer(ctx, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("r%d", i+1), entry.Question.ID)
		assert.Equal(t, 9.0, entry.Feedback.Score)
		assertInvariant(t, c)
	}

	assert.Equal(t, StateComplete, c.State())
	s, _ := c.Session()
	assert.Len(t, s.AnswerLog, n)
	assert.Equal(t, n, s.CurrentIndex)

	_, ok := c.CurrentQuestion()
	assert.False(t, ok)

	_, err = c.SubmitAnswer(ctx, "one more")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSubmitAnswer_FeedbackFailureStillAdvances(t *testing.T) {
	c := newInterview(staticQuestions(remoteBatch(2, "remote")), failingFeedback())
	ctx := context.Background()
	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	entry, err := c.SubmitAnswer(ctx, "my answer")
	require.NoError(t, err)
	assert.Equal(t, 7.0, entry.Feedback.Score)
	assert.Equal(t, 70.0, entry.Feedback.KeywordMatchPercent)
	assert.Equal(t, practice.OriginFallback, entry.Feedback.Origin)

	s, _ := c.Session()
	assert.Equal(t, 1, s.CurrentIndex)
	require.Len(t, s.AnswerLog, 1)
	assert.Equal(t, 7.0, s.AnswerLog[0].Feedback.Score)
}

func TestSubmitAnswer_EmptyRejectedWithoutStateChange(t *testing.T) {
	c := newInterview(staticQuestions(remoteBatch(2, "remote")), goodFeedback())
	ctx := context.Background()
	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := c.SubmitAnswer(ctx, text)
		require.ErrorIs(t, err, practice.ErrInvalidInput)
	}

	s, _ := c.Session()
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.AnswerLog)
	assert.False(t, c.Pending())
}

func TestSubmitAnswer_Idle(t *testing.T) {
	c := newInterview(nil, goodFeedback())
	_, err := c.SubmitAnswer(context.Background(), "answer")
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.ErrorIs(t, c.Skip(context.Background()), ErrNoActiveSession)
}

type blockingEvaluator struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEvaluator) Evaluate(ctx context.Context, q practice.Question, answer string, p practice.ProfileContext) practice.FeedbackRecord {
	close(b.entered)
	<-b.release
	return practice.FeedbackRecord{Score: 8, KeywordMatchPercent: 60, Assessment: "ok", Strengths: []string{}, Origin: practice.OriginRemote}
}

func TestSubmitAnswer_ConcurrentSubmissionRejected(t *testing.T) {
	ev := &blockingEvaluator{entered: make(chan struct{}), release: make(chan struct{})}
	c := New[*profile.Profile](staticQuestions(remoteBatch(2, "remote")), ev, DefaultConfig())
	ctx := context.Background()
	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	type result struct {
		entry practice.AnsweredQuestion
		err   error
	}
	done := make(chan result, 1)
	go func() {
		e, err := c.SubmitAnswer(ctx, "first")
		done <- result{e, err}
	}()
	<-ev.entered
	assert.True(t, c.Pending())

	_, err = c.SubmitAnswer(ctx, "second")
	assert.ErrorIs(t, err, ErrSubmissionPending)
	assert.ErrorIs(t, c.Skip(ctx), ErrSubmissionPending)

	close(ev.release)
	r := <-done
	require.NoError(t, r.err)
	assert.Equal(t, "first", r.entry.AnswerText)

	s, _ := c.Session()
	assert.Equal(t, 1, s.CurrentIndex)
	require.Len(t, s.AnswerLog, 1)
	assert.False(t, c.Pending())
}

func TestSubmitAnswer_ResetWhileEvaluating(t *testing.T) {
	ev := &blockingEvaluator{entered: make(chan struct{}), release: make(chan struct{})}
	c := New[*profile.Profile](staticQuestions(remoteBatch(2, "remote")), ev, DefaultConfig())
	ctx := context.Background()
	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := c.SubmitAnswer(ctx, "late")
		errc <- err
	}()
	<-ev.entered
	c.Reset()
	close(ev.release)

	require.ErrorIs(t, <-errc, ErrSuperseded)
	assert.Equal(t, StateIdle, c.State())
	_, ok := c.Session()
	assert.False(t, ok)
}

func TestSkip(t *testing.T) {
	c := newInterview(staticQuestions(remoteBatch(3, "remote")), goodFeedback())
	ctx := context.Background()
	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)

	require.NoError(t, c.Skip(ctx))
	s, _ := c.Session()
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Empty(t, s.AnswerLog)
	assert.Equal(t, []int{0}, s.Skipped)
	assertInvariant(t, c)

	_, err = c.SubmitAnswer(ctx, "answer to second")
	require.NoError(t, err)
	s, _ = c.Session()
	assert.Equal(t, "r2", s.AnswerLog[0].Question.ID)

	require.NoError(t, c.Skip(ctx))
	assert.Equal(t, StateComplete, c.State())
	assert.ErrorIs(t, c.Skip(ctx), ErrNoActiveSession)
	assertInvariant(t, c)
}

func TestSessionCopyIsIsolated(t *testing.T) {
	c := newInterview(staticQuestions(remoteBatch(2, "remote")), goodFeedback())
	ctx := context.Background()
	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)
	_, err = c.SubmitAnswer(ctx, "answer")
	require.NoError(t, err)

	s, _ := c.Session()
	s.Questions[1].Prompt = "mutated"
	s.AnswerLog[0].Feedback.Strengths[0] = "mutated"
	s.Profile.JobRole = "mutated"

	again, _ := c.Session()
	assert.Equal(t, "remote question 2", again.Questions[1].Prompt)
	assert.Equal(t, "Precise", again.AnswerLog[0].Feedback.Strengths[0])
	assert.Equal(t, "Frontend Developer", again.Profile.JobRole)
}

func TestSummary(t *testing.T) {
	scores := []float64{6, 9, 4}
	i := 0
	fb := feedbackFunc(func(context.Context, practice.Question, string, practice.ProfileContext) (*practice.FeedbackRecord, error) {
		s := scores[i]
		i++
		return &practice.FeedbackRecord{Score: s, KeywordMatchPercent: s * 10, Assessment: "ok", Strengths: []string{"Clear"}, Origin: practice.OriginRemote}, nil
	})
	c := newInterview(staticQuestions(remoteBatch(4, "remote")), fb)
	ctx := context.Background()

	_, ok := c.Summary()
	assert.False(t, ok)

	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)
	for range scores {
		_, err := c.SubmitAnswer(ctx, "answer")
		require.NoError(t, err)
	}
	require.NoError(t, c.Skip(ctx))

	sum, ok := c.Summary()
	require.True(t, ok)
	assert.True(t, sum.Complete)
	assert.Equal(t, 4, sum.TotalQuestions)
	assert.Equal(t, 3, sum.Answered)
	assert.Equal(t, 1, sum.Skipped)
	assert.InDelta(t, 19.0/3, sum.AverageScore, 1e-9)
	assert.InDelta(t, 190.0/3, sum.AverageKeywordMatch, 1e-9)
	assert.Equal(t, 1, sum.Best)
	assert.Equal(t, 2, sum.Worst)
	assert.Equal(t, []string{"Clear"}, sum.Strengths)
	assert.Zero(t, sum.FallbackFeedback)
}

func TestBuildSummary_Empty(t *testing.T) {
	sum := BuildSummary(&Session[profile.Drill]{Questions: make([]practice.Question, 3)})
	assert.Equal(t, -1, sum.Best)
	assert.Equal(t, -1, sum.Worst)
	assert.Zero(t, sum.AverageScore)
	assert.False(t, sum.Complete)
}

func TestDrillController(t *testing.T) {
	var gotQuestion, gotFeedback practice.ProfileContext
	src := questionFunc(func(_ context.Context, p practice.ProfileContext) (*practice.Batch, error) {
		gotQuestion = p
		return nil, practice.Malformed(errors.New("no questions field"))
	})
	fb := feedbackFunc(func(_ context.Context, _ practice.Question, _ string, p practice.ProfileContext) (*practice.FeedbackRecord, error) {
		gotFeedback = p
		return nil, practice.Unavailable(errors.New("down"))
	})
	cfg := DefaultConfig()
	cfg.Surface = "drill"
	c := New[profile.Drill](src, feedback.New(fb, feedback.DefaultConfig(), nil), cfg)
	ctx := context.Background()

	_, err := c.Start(ctx, profile.NewDrill(""))
	require.ErrorIs(t, err, practice.ErrInvalidInput)

	s, err := c.Start(ctx, profile.NewDrill("React"))
	require.NoError(t, err)
	require.Len(t, s.Questions, 3)
	assert.Contains(t, s.Questions[0].Prompt, "React")
	assert.Equal(t, "React", gotQuestion.FocusArea)
	assert.Equal(t, "React", gotQuestion.TechnicalKeywords[0])

	entry, err := c.SubmitAnswer(ctx, "Hooks let function components hold state.")
	require.NoError(t, err)
	assert.Equal(t, 7.0, entry.Feedback.Score)
	assert.Equal(t, "Software Developer", gotFeedback.JobRole)
	assert.Empty(t, gotFeedback.FocusArea)
	assert.Empty(t, gotFeedback.CompanyType)
}

type recordingJournal struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (j *recordingJournal) Record(_ context.Context, ev Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, ev)
	return j.err
}

func (j *recordingJournal) kinds() []EventKind {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []EventKind
	for _, ev := range j.events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestJournal(t *testing.T) {
	j := &recordingJournal{}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := newInterview(staticQuestions(remoteBatch(2, "remote")), goodFeedback(),
		WithJournal(j), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	s, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)
	assert.Equal(t, now, s.StartedAt)
	_, err = c.SubmitAnswer(ctx, "answer")
	require.NoError(t, err)
	require.NoError(t, c.Skip(ctx))

	assert.Equal(t, []EventKind{
		EventSessionStarted,
		EventAnswerRecorded,
		EventQuestionSkipped,
		EventSessionCompleted,
	}, j.kinds())

	for _, ev := range j.events {
		assert.Equal(t, s.ID, ev.SessionID)
		assert.Equal(t, "interview", ev.Surface)
		assert.Equal(t, "Frontend Developer", ev.Primary)
		assert.Equal(t, now, ev.Timestamp)
	}
	assert.Equal(t, 2, j.events[0].QuestionCount)
	assert.Equal(t, 9.0, j.events[1].Score)
	assert.Equal(t, "r2", j.events[2].QuestionID)
	assert.Equal(t, 1, j.events[3].Answered)
	assert.Equal(t, 1, j.events[3].Skipped)
}

func TestJournal_ErrorsDoNotAffectState(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	j := &recordingJournal{err: errors.New("disk full")}
	c := newInterview(staticQuestions(remoteBatch(1, "remote")), goodFeedback(),
		WithJournal(j), WithLogger(zap.New(core)))
	ctx := context.Background()

	_, err := c.Start(ctx, frontendProfile())
	require.NoError(t, err)
	_, err = c.SubmitAnswer(ctx, "answer")
	require.NoError(t, err)

	assert.Equal(t, StateComplete, c.State())
	assert.Equal(t, 3, logs.FilterMessage("journal write failed").Len())
}
