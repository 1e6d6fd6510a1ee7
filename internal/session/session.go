package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/questionbank"
)

var (
	// ErrNoActiveSession is returned by operations that need an Active session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrSubmissionPending is returned while an answer for the current
	// question is still being evaluated.
	ErrSubmissionPending = errors.New("submission already in flight")

	// ErrSuperseded is returned when a newer Start or a Reset happened while
	// the request was in flight. The result was discarded.
	ErrSuperseded = errors.New("superseded by a newer session")
)

// Evaluator scores an answer. It never fails; *feedback.Integrator is the
// production implementation.
type Evaluator interface {
	Evaluate(ctx context.Context, q practice.Question, answer string, profile practice.ProfileContext) practice.FeedbackRecord
}

// Config holds controller settings.
type Config struct {
	// Surface labels journal events ("interview" or "drill").
	Surface string

	// QuestionTimeout bounds a single question request.
	QuestionTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Surface:         "interview",
		QuestionTimeout: 30 * time.Second,
	}
}

// Option customizes a Controller.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	journal Journal
	now     func() time.Time
}

// WithLogger sets the controller's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithJournal records practice events into j.
func WithJournal(j Journal) Option {
	return func(o *options) { o.journal = j }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Controller owns at most one session at a time and drives it through the
// question, answer and feedback cycle. All methods are safe for concurrent
// use. Network calls run outside the lock; every call is tagged with the
// generation current at its start and its result is dropped if the
// generation moved on.
type Controller[P Shape[P]] struct {
	questions practice.QuestionSource
	evaluator Evaluator
	cfg       Config
	logger    *zap.Logger
	journal   Journal
	now       func() time.Time

	mu         sync.Mutex
	generation uint64
	session    *Session[P]
	starting   bool
	submitting bool
}

// New creates a Controller. A nil question source always uses the fallback
// bank.
func New[P Shape[P]](questions practice.QuestionSource, evaluator Evaluator, cfg Config, opts ...Option) *Controller[P] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if cfg.QuestionTimeout <= 0 {
		cfg.QuestionTimeout = DefaultConfig().QuestionTimeout
	}
	if cfg.Surface == "" {
		cfg.Surface = DefaultConfig().Surface
	}
	return &Controller[P]{
		questions: questions,
		evaluator: evaluator,
		cfg:       cfg,
		logger:    o.logger,
		journal:   o.journal,
		now:       o.now,
	}
}

// Start begins a new session for p, discarding any current one. Source
// failures are absorbed by the fallback bank, so the only errors are an
// invalid profile and ErrSuperseded.
func (c *Controller[P]) Start(ctx context.Context, p P) (Session[P], error) {
	if err := p.Validate(); err != nil {
		return Session[P]{}, err
	}
	snap := p.Snapshot()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.session = nil
	c.starting = true
	c.submitting = false
	c.mu.Unlock()

	batch := c.fetch(ctx, snap, gen)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded question batch", zap.Uint64("generation", gen))
		return Session[P]{}, ErrSuperseded
	}
	s := &Session[P]{
		ID:         uuid.New().String(),
		Generation: gen,
		Profile:    snap,
		Questions:  batch.Questions,
		Rubric:     batch.Rubric,
		Origin:     batch.Origin,
		StartedAt:  c.now(),
	}
	c.session = s
	c.starting = false
	out := cloneSession(s)
	c.mu.Unlock()

	c.logger.Info("session started",
		zap.String("session_id", s.ID),
		zap.Uint64("generation", gen),
		zap.String("origin", string(s.Origin)),
		zap.Int("questions", len(s.Questions)))
	c.record(ctx, Event{
		Kind:          EventSessionStarted,
		SessionID:     s.ID,
		Origin:        s.Origin,
		QuestionCount: len(s.Questions),
	}, snap)
	return out, nil
}

// fetch asks the question source for a batch and falls back to the local
// bank on any failure.
func (c *Controller[P]) fetch(ctx context.Context, p P, gen uint64) practice.Batch {
	if c.questions == nil {
		return questionbank.Synthesize(p.Primary())
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.QuestionTimeout)
	defer cancel()

	batch, err := c.questions.Questions(reqCtx, p.Context())
	if err == nil && (batch == nil || len(batch.Questions) == 0) {
		err = practice.Malformed(errors.New("empty question batch"))
	}
	if err != nil {
		c.logger.Warn("questions fell back",
			zap.Uint64("generation", gen),
			zap.String("primary", p.Primary()),
			zap.String("kind", string(practice.Classify(err))),
			zap.Error(err))
		return questionbank.Synthesize(p.Primary())
	}

	out := practice.Batch{
		Questions: make([]practice.Question, len(batch.Questions)),
		Rubric:    batch.Rubric,
		Origin:    batch.Origin,
	}
	for i, q := range batch.Questions {
		out.Questions[i] = q.Clone()
	}
	if out.Rubric == nil {
		out.Rubric = questionbank.Rubric()
	}
	if out.Origin == "" {
		out.Origin = practice.OriginRemote
	}
	return out
}

// CurrentQuestion returns the question at the current index while Active.
func (c *Controller[P]) CurrentQuestion() (practice.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return practice.Question{}, false
	}
	return c.session.Current()
}

// SubmitAnswer evaluates text against the current question, appends the
// record and advances. Feedback failures are absorbed by the evaluator.
func (c *Controller[P]) SubmitAnswer(ctx context.Context, text string) (practice.AnsweredQuestion, error) {
	if strings.TrimSpace(text) == "" {
		return practice.AnsweredQuestion{}, practice.InvalidInput("answer")
	}

	c.mu.Lock()
	s := c.session
	if s == nil || s.Complete() {
		c.mu.Unlock()
		return practice.AnsweredQuestion{}, ErrNoActiveSession
	}
	if c.submitting {
		c.mu.Unlock()
		return practice.AnsweredQuestion{}, ErrSubmissionPending
	}
	c.submitting = true
	gen, idx := c.generation, s.CurrentIndex
	q := s.Questions[idx].Clone()
	profile := s.Profile.FeedbackProfile()
	c.mu.Unlock()

	rec := c.evaluator.Evaluate(ctx, q, text, profile)

	c.mu.Lock()
	if gen != c.generation || c.session != s || s.CurrentIndex != idx {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded feedback",
			zap.Uint64("generation", gen),
			zap.String("question_id", q.ID))
		return practice.AnsweredQuestion{}, ErrSuperseded
	}
	entry := practice.AnsweredQuestion{Question: q, AnswerText: text, Feedback: rec}
	s.AnswerLog = append(s.AnswerLog, entry)
	s.CurrentIndex++
	c.submitting = false
	done := s.Complete()
	snap := s.Profile
	answered, skipped := len(s.AnswerLog), len(s.Skipped)
	c.mu.Unlock()

	c.record(ctx, Event{
		Kind:          EventAnswerRecorded,
		SessionID:     s.ID,
		Origin:        rec.Origin,
		QuestionID:    q.ID,
		QuestionIndex: idx,
		Score:         rec.Score,
		KeywordMatch:  rec.KeywordMatchPercent,
	}, snap)
	if done {
		c.completed(ctx, s.ID, s.Origin, answered, skipped, snap)
	}
	return entry.Clone(), nil
}

// Skip advances past the current question without recording an answer.
func (c *Controller[P]) Skip(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	if s == nil || s.Complete() {
		c.mu.Unlock()
		return ErrNoActiveSession
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmissionPending
	}
	idx := s.CurrentIndex
	q := s.Questions[idx]
	s.Skipped = append(s.Skipped, idx)
	s.CurrentIndex++
	done := s.Complete()
	snap := s.Profile
	answered, skipped := len(s.AnswerLog), len(s.Skipped)
	c.mu.Unlock()

	c.record(ctx, Event{
		Kind:          EventQuestionSkipped,
		SessionID:     s.ID,
		Origin:        s.Origin,
		QuestionID:    q.ID,
		QuestionIndex: idx,
	}, snap)
	if done {
		c.completed(ctx, s.ID, s.Origin, answered, skipped, snap)
	}
	return nil
}

// Reset drops the current session and invalidates anything in flight.
func (c *Controller[P]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.session = nil
	c.starting = false
	c.submitting = false
}

// State reports Idle, Active or Complete.
func (c *Controller[P]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.session == nil:
		return StateIdle
	case c.session.Complete():
		return StateComplete
	default:
		return StateActive
	}
}

// Session returns a copy of the current session.
func (c *Controller[P]) Session() (Session[P], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session[P]{}, false
	}
	return cloneSession(c.session), true
}

// Generation returns the current generation counter.
func (c *Controller[P]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Pending reports whether a start or a submission is in flight.
func (c *Controller[P]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starting || c.submitting
}

// Summary aggregates the current session.
func (c *Controller[P]) Summary() (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Summary{}, false
	}
	return BuildSummary(c.session), true
}

func (c *Controller[P]) completed(ctx context.Context, id string, origin practice.Origin, answered, skipped int, p P) {
	c.logger.Info("session complete",
		zap.String("session_id", id),
		zap.Int("answered", answered),
		zap.Int("skipped", skipped))
	c.record(ctx, Event{
		Kind:      EventSessionCompleted,
		SessionID: id,
		Origin:    origin,
		Answered:  answered,
		Skipped:   skipped,
	}, p)
}

func (c *Controller[P]) record(ctx context.Context, ev Event, p P) {
	if c.journal == nil {
		return
	}
	ev.Surface = c.cfg.Surface
	ev.Primary = p.Primary()
	ev.Timestamp = c.now()
	if err := c.journal.Record(context.WithoutCancel(ctx), ev); err != nil {
		c.logger.Warn("journal write failed",
			zap.String("session_id", ev.SessionID),
			zap.String("event", string(ev.Kind)),
			zap.Error(err))
	}
}
