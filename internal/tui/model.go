// Package tui is the terminal practice screen. It drives a session
// controller from a bubbletea event loop; every controller call runs as a
// tea.Cmd and reports back as a message.
package tui

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/session"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseEvaluating
	phaseFeedback
	phaseComplete
	phaseFailed
)

// Model is the practice screen for one profile type.
type Model[P session.Shape[P]] struct {
	ctx     context.Context
	ctrl    *session.Controller[P]
	profile P
	title   string
	logger  *zap.Logger

	phase    phase
	input    textinput.Model
	showHint bool
	notice   string
	err      error

	last      practice.AnsweredQuestion
	asked     time.Time
	now       time.Time
	width     int
	height    int
	sessions  int
	tickEvery time.Duration
}

// New creates the screen. The session starts when the program runs.
func New[P session.Shape[P]](ctx context.Context, ctrl *session.Controller[P], profile P, title string, logger *zap.Logger) *Model[P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	ti := textinput.New()
	ti.Placeholder = "Type your answer and press Enter"
	ti.SetWidth(72)
	styles := ti.Styles()
	styles.Cursor.Blink = false
	ti.SetStyles(styles)
	ti.Focus()

	return &Model[P]{
		ctx:       ctx,
		ctrl:      ctrl,
		profile:   profile,
		title:     title,
		logger:    logger,
		input:     ti,
		tickEvery: time.Second,
	}
}

// Run starts the program and blocks until the user quits.
func Run[P session.Shape[P]](ctx context.Context, ctrl *session.Controller[P], profile P, title string, logger *zap.Logger) error {
	p := tea.NewProgram(New(ctx, ctrl, profile, title, logger), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model[P]) Init() tea.Cmd {
	return tea.Batch(m.start(), m.tick())
}

func (m *Model[P]) start() tea.Cmd {
	m.phase = phaseLoading
	m.notice = ""
	m.sessions++
	ctx, ctrl, p := m.ctx, m.ctrl, m.profile
	return func() tea.Msg {
		_, err := ctrl.Start(ctx, p)
		return startedMsg{err: err}
	}
}

func (m *Model[P]) submit(text string) tea.Cmd {
	m.phase = phaseEvaluating
	ctx, ctrl, gen := m.ctx, m.ctrl, m.ctrl.Generation()
	return func() tea.Msg {
		a, err := ctrl.SubmitAnswer(ctx, text)
		return answeredMsg{gen: gen, answered: a, err: err}
	}
}

func (m *Model[P]) skip() tea.Cmd {
	ctx, ctrl, gen := m.ctx, m.ctrl, m.ctrl.Generation()
	return func() tea.Msg {
		return skippedMsg{gen: gen, err: ctrl.Skip(ctx)}
	}
}

func (m *Model[P]) tick() tea.Cmd {
	return tea.Tick(m.tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model[P]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(max(msg.Width-12, 20))
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, m.tick()

	case startedMsg:
		return m.handleStarted(msg)

	case answeredMsg:
		return m.handleAnswered(msg)

	case skippedMsg:
		return m.handleSkipped(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model[P]) handleStarted(msg startedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, session.ErrSuperseded):
		return m, nil
	case msg.err != nil:
		m.phase = phaseFailed
		m.err = msg.err
		return m, nil
	}
	return m, m.nextQuestion()
}

func (m *Model[P]) handleAnswered(msg answeredMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.ctrl.Generation() || errors.Is(msg.err, session.ErrSuperseded) {
		return m, nil
	}
	switch {
	case errors.Is(msg.err, practice.ErrInvalidInput):
		m.phase = phaseQuestion
		m.notice = "Answer must not be empty."
		return m, nil
	case msg.err != nil:
		m.logger.Warn("submit failed", zap.Error(msg.err))
		m.phase = phaseQuestion
		m.notice = msg.err.Error()
		return m, nil
	}
	m.last = msg.answered
	m.phase = phaseFeedback
	m.input.Reset()
	return m, nil
}

func (m *Model[P]) handleSkipped(msg skippedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.ctrl.Generation() {
		return m, nil
	}
	if msg.err != nil {
		m.notice = msg.err.Error()
		return m, nil
	}
	m.input.Reset()
	return m, m.nextQuestion()
}

// nextQuestion moves to the controller's current question or to the
// completion card.
func (m *Model[P]) nextQuestion() tea.Cmd {
	m.showHint = false
	m.notice = ""
	if _, ok := m.ctrl.CurrentQuestion(); !ok {
		m.phase = phaseComplete
		m.input.Blur()
		return nil
	}
	m.phase = phaseQuestion
	m.asked = m.now
	return m.input.Focus()
}

func (m *Model[P]) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case phaseQuestion:
		switch key {
		case "enter":
			return m, m.submit(m.input.Value())
		case "tab":
			m.showHint = !m.showHint
			return m, nil
		case "ctrl+n":
			return m, m.skip()
		case "esc":
			m.ctrl.Reset()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseFeedback:
		switch key {
		case "enter", "space":
			return m, m.nextQuestion()
		case "esc":
			return m, tea.Quit
		}

	case phaseComplete:
		switch key {
		case "n":
			return m, m.start()
		case "q", "esc":
			return m, tea.Quit
		}

	case phaseFailed:
		return m, tea.Quit
	}
	return m, nil
}
