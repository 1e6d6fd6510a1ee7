package components

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name string
		bar  ProgressBar
	}{
		{"empty", ProgressBar{Label: "Questions", Done: 0, Total: 5, Width: 40}},
		{"half", ProgressBar{Label: "Questions", Done: 2, Total: 4, Width: 40}},
		{"full", ProgressBar{Done: 3, Total: 3, Width: 30}},
		{"no questions", ProgressBar{Done: 0, Total: 0, Width: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.bar.View()
			assert.Equal(t, tt.bar.Width, lipgloss.Width(out))
		})
	}
}

func TestProgressBar_NarrowWidthKeepsMinimumBar(t *testing.T) {
	out := ProgressBar{Label: "Questions", Done: 1, Total: 2, Width: 5}.View()
	assert.Contains(t, out, "1/2")
}
