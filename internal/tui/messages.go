package tui

import (
	"time"

	"github.com/abhisek/prepcoach/internal/practice"
)

// startedMsg reports the outcome of Controller.Start.
type startedMsg struct {
	err error
}

// answeredMsg reports the outcome of Controller.SubmitAnswer. gen is the
// controller generation when the answer was sent.
type answeredMsg struct {
	gen      uint64
	answered practice.AnsweredQuestion
	err      error
}

// skippedMsg reports the outcome of Controller.Skip.
type skippedMsg struct {
	gen uint64
	err error
}

// tickMsg drives the per-question clock.
type tickMsg time.Time
