package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette. Muted and high-contrast, readable on dark terminals.
var (
	Primary   = lipgloss.Color("#60A5FA") // Sky
	Secondary = lipgloss.Color("#34D399") // Emerald
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Badge = lipgloss.NewStyle().
		Foreground(BgCard).
		Background(Secondary).
		Padding(0, 1)
)

// DifficultyBadge colors a difficulty label.
func DifficultyBadge(difficulty string) string {
	c := Secondary
	switch difficulty {
	case "medium":
		c = Accent
	case "hard":
		c = Error
	}
	return Badge.Background(c).Render(difficulty)
}

// Score styles a 0-10 score: green from 8, amber from 5, rose below.
func Score(score float64) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch {
	case score >= 8:
		return s.Foreground(Success)
	case score >= 5:
		return s.Foreground(Warning)
	}
	return s.Foreground(Error)
}

// Progress bar segments.
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
