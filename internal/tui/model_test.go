package tui

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/feedback"
	"github.com/abhisek/prepcoach/internal/profile"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/ui/layout"
)

func newModel(t *testing.T, skill string) (*Model[profile.Drill], *session.Controller[profile.Drill]) {
	t.Helper()
	ctrl := session.New[profile.Drill](nil, feedback.New(nil, feedback.DefaultConfig(), nil), session.Config{Surface: "drill"})
	m := New(context.Background(), ctrl, profile.NewDrill(skill), "Skill drill", nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, ctrl
}

// run executes a command and feeds its message back, the way the event
// loop would. Commands returned by that update are dropped.
func run(m *Model[profile.Drill], cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	m.Update(cmd())
}

func press(m *Model[profile.Drill], k tea.KeyPressMsg) {
	_, cmd := m.Update(k)
	run(m, cmd)
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	tab   = tea.KeyPressMsg{Code: tea.KeyTab}
	skip  = tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
)

func TestFullSession(t *testing.T) {
	m, ctrl := newModel(t, "Docker")
	run(m, m.start())
	require.Equal(t, phaseQuestion, m.phase)

	view := m.content()
	assert.Contains(t, view, "Docker")
	assert.Contains(t, view, "00:00 / 05:00")

	for range 3 {
		require.Equal(t, phaseQuestion, m.phase)
		m.input.SetValue("Containers share the host kernel.")
		press(m, enter)
		require.Equal(t, phaseFeedback, m.phase)
		assert.Contains(t, m.content(), "7.0/10")
		assert.Empty(t, m.input.Value())
		press(m, enter)
	}

	assert.Equal(t, phaseComplete, m.phase)
	assert.Equal(t, session.StateComplete, ctrl.State())
	view = m.content()
	assert.Contains(t, view, "Session complete")
	assert.Contains(t, view, "3 of 3")
}

func TestEmptyAnswerShowsNotice(t *testing.T) {
	m, ctrl := newModel(t, "Go")
	run(m, m.start())

	press(m, enter)
	assert.Equal(t, phaseQuestion, m.phase)
	assert.Contains(t, m.content(), "must not be empty")

	s, ok := ctrl.Session()
	require.True(t, ok)
	assert.Empty(t, s.AnswerLog)
}

func TestHintToggle(t *testing.T) {
	m, _ := newModel(t, "Kubernetes")
	run(m, m.start())

	q, ok := m.ctrl.CurrentQuestion()
	require.True(t, ok)
	require.NotEmpty(t, q.Hint)
	assert.NotContains(t, m.content(), q.Hint)

	press(m, tab)
	assert.Contains(t, m.content(), "Hint:")
	press(m, tab)
	assert.NotContains(t, m.content(), "Hint:")
}

func TestSkipAdvances(t *testing.T) {
	m, ctrl := newModel(t, "SQL")
	run(m, m.start())

	press(m, skip)
	s, _ := ctrl.Session()
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Equal(t, []int{0}, s.Skipped)
	assert.Equal(t, phaseQuestion, m.phase)

	press(m, skip)
	press(m, skip)
	assert.Equal(t, phaseComplete, m.phase)
	assert.Contains(t, m.content(), "Skipped")
}

func TestStaleAnswerIgnored(t *testing.T) {
	m, ctrl := newModel(t, "Go")
	run(m, m.start())

	m.input.SetValue("goroutines")
	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	require.Equal(t, phaseEvaluating, m.phase)
	msg := cmd()

	// A restart lands before the feedback message does.
	run(m, m.start())
	m.Update(msg)

	assert.Equal(t, phaseQuestion, m.phase)
	s, _ := ctrl.Session()
	assert.Empty(t, s.AnswerLog)
}

func TestNewSessionAfterCompletion(t *testing.T) {
	m, ctrl := newModel(t, "Go")
	run(m, m.start())
	for range 3 {
		press(m, skip)
	}
	require.Equal(t, phaseComplete, m.phase)
	first, _ := ctrl.Session()

	press(m, tea.KeyPressMsg{Code: 'n', Text: "n"})
	assert.Equal(t, phaseQuestion, m.phase)
	second, _ := ctrl.Session()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, m.sessions)
}

func TestInvalidProfileFails(t *testing.T) {
	m, _ := newModel(t, "  ")
	run(m, m.start())
	assert.Equal(t, phaseFailed, m.phase)
	assert.Contains(t, m.content(), "Could not start")

	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewTooSmall(t *testing.T) {
	m, _ := newModel(t, "Go")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.Contains(t, layout.RenderMinSizeMessage(40, 10), "Terminal too small")
}

func TestClock(t *testing.T) {
	assert.Equal(t, "01:05 / 07:00", clock(65_000_000_000, 7))
	assert.Equal(t, "00:00 / 05:00", clock(-1, 5))
}
