package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/ui/components"
	"github.com/abhisek/prepcoach/internal/ui/layout"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

func (m *Model[P]) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.title, m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.content(), footer, m.width, m.height))
	return v
}

func (m *Model[P]) status() string {
	s, ok := m.ctrl.Session()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s · %d questions", s.Profile.Primary(), len(s.Questions))
}

func (m *Model[P]) hints() []layout.KeyHint {
	switch m.phase {
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Hint"},
			{Key: "Ctrl+N", Description: "Skip"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseComplete:
		return []layout.KeyHint{
			{Key: "N", Description: "New session"},
			{Key: "Q", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (m *Model[P]) content() string {
	switch m.phase {
	case phaseLoading:
		return theme.Subtitle.Render("Preparing your questions...")
	case phaseQuestion, phaseEvaluating:
		return m.questionView()
	case phaseFeedback:
		return m.feedbackView()
	case phaseComplete:
		return m.completeView()
	case phaseFailed:
		return theme.ErrorText.Render("Could not start a session: "+m.err.Error()) +
			"\n\n" + theme.Hint.Render("Press any key to exit.")
	}
	return ""
}

func (m *Model[P]) progress() string {
	s, ok := m.ctrl.Session()
	if !ok {
		return ""
	}
	return components.ProgressBar{
		Label: "Progress",
		Done:  s.CurrentIndex,
		Total: len(s.Questions),
		Width: min(m.width-6, 60),
	}.View()
}

func (m *Model[P]) questionView() string {
	q, ok := m.ctrl.CurrentQuestion()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.progress())
	b.WriteString("\n\n")

	meta := []string{theme.DifficultyBadge(string(q.Difficulty))}
	if q.Category != "" {
		meta = append(meta, theme.Label.Render(q.Category))
	}
	meta = append(meta, theme.Subtitle.Render(clock(m.now.Sub(m.asked), q.TimeLimitMinutes)))
	b.WriteString(strings.Join(meta, "  "))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Width(min(m.width-6, 90)).Render(q.Prompt))
	b.WriteString("\n\n")

	if m.showHint && q.Hint != "" {
		b.WriteString(theme.Hint.Render("Hint: " + q.Hint))
		b.WriteString("\n\n")
	}

	if m.phase == phaseEvaluating {
		b.WriteString(theme.Subtitle.Render("Evaluating your answer..."))
	} else {
		b.WriteString(m.input.View())
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(m.notice))
	}
	return b.String()
}

// clock renders elapsed time against the suggested limit.
func clock(elapsed time.Duration, limitMinutes int) string {
	if elapsed < 0 {
		elapsed = 0
	}
	secs := int(elapsed.Seconds())
	return fmt.Sprintf("%02d:%02d / %02d:00", secs/60, secs%60, limitMinutes)
}

func (m *Model[P]) feedbackView() string {
	fb := m.last.Feedback
	width := min(m.width-10, 90)

	var b strings.Builder
	b.WriteString(m.progress())
	b.WriteString("\n\n")

	score := theme.Score(fb.Score).Render(fmt.Sprintf("%.1f/10", fb.Score))
	b.WriteString(theme.Label.Render("Score ") + score)
	b.WriteString(theme.Label.Render("   Keyword match ") +
		theme.Body.Render(fmt.Sprintf("%.0f%%", fb.KeywordMatchPercent)))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Width(width).Render(fb.Assessment))
	b.WriteString("\n")

	if len(fb.Strengths) > 0 {
		b.WriteString("\n" + theme.Label.Render("Strengths") + "\n")
		for _, s := range fb.Strengths {
			b.WriteString(theme.Body.Render("  + " + s))
			b.WriteString("\n")
		}
	}
	if fb.ImprovementSuggestion != "" {
		b.WriteString("\n" + theme.Label.Render("Next time") + "\n")
		b.WriteString(theme.Body.Width(width).Render(fb.ImprovementSuggestion))
		b.WriteString("\n")
	}

	return theme.Card.Render(b.String())
}

func (m *Model[P]) completeView() string {
	sum, ok := m.ctrl.Summary()
	if !ok {
		return ""
	}
	s, _ := m.ctrl.Session()
	return renderSummary(sum, s.AnswerLog, min(m.width-10, 90))
}

func renderSummary(sum session.Summary, log []practice.AnsweredQuestion, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Session complete"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-16s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Answered", fmt.Sprintf("%d of %d", sum.Answered, sum.TotalQuestions))
	if sum.Skipped > 0 {
		row("Skipped", fmt.Sprintf("%d", sum.Skipped))
	}
	if sum.Answered > 0 {
		row("Average score", theme.Score(sum.AverageScore).Render(fmt.Sprintf("%.1f/10", sum.AverageScore)))
		row("Keyword match", fmt.Sprintf("%.0f%%", sum.AverageKeywordMatch))
	}

	if sum.Best >= 0 && sum.Best != sum.Worst {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render("Strongest") + "\n")
		b.WriteString(theme.Body.Width(width).Render(log[sum.Best].Question.Prompt) + "\n")
		b.WriteString(theme.Label.Render("Needs work") + "\n")
		b.WriteString(theme.Body.Width(width).Render(log[sum.Worst].Question.Prompt) + "\n")
	}

	if len(sum.Strengths) > 0 {
		b.WriteString("\n" + theme.Label.Render("What went well") + "\n")
		for _, s := range sum.Strengths {
			b.WriteString("  + " + s + "\n")
		}
	}

	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}
