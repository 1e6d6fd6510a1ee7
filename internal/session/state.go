package session

import (
	"slices"
	"time"

	"github.com/abhisek/prepcoach/internal/practice"
)

// State is the controller's coarse state.
type State int

const (
	StateIdle     State = iota // no session
	StateActive                // questions loaded, CurrentIndex < len(Questions)
	StateComplete              // CurrentIndex == len(Questions)
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Shape is what a profile type must provide to drive a session. P is the
// concrete profile type itself, so Snapshot can return it.
type Shape[P any] interface {
	// Validate returns a practice.ErrInvalidInput error when the primary
	// field is empty.
	Validate() error

	// Primary is the role or skill the fallback question bank is keyed on.
	Primary() string

	// Context is sent with question requests.
	Context() practice.ProfileContext

	// FeedbackProfile is sent with feedback requests.
	FeedbackProfile() practice.ProfileContext

	// Snapshot returns a copy unaffected by later edits to the receiver.
	Snapshot() P
}

// Session is one run of question, answer and feedback cycles bound to a
// profile snapshot.
//
// Invariant: len(AnswerLog) <= CurrentIndex <= len(Questions). The first two
// are equal unless questions were skipped.
type Session[P any] struct {
	ID         string
	Generation uint64
	Profile    P

	Questions    []practice.Question
	CurrentIndex int
	AnswerLog    []practice.AnsweredQuestion

	// Skipped holds the indices of skipped questions, ascending.
	Skipped []int

	Rubric    practice.Rubric
	Origin    practice.Origin
	StartedAt time.Time
}

// Complete reports whether every question has been answered or skipped.
func (s *Session[P]) Complete() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// Current returns the question at CurrentIndex.
func (s *Session[P]) Current() (practice.Question, bool) {
	if s.Complete() {
		return practice.Question{}, false
	}
	return s.Questions[s.CurrentIndex].Clone(), true
}

func cloneSession[P Shape[P]](s *Session[P]) Session[P] {
	out := *s
	out.Profile = s.Profile.Snapshot()
	out.Questions = make([]practice.Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	out.AnswerLog = make([]practice.AnsweredQuestion, len(s.AnswerLog))
	for i, a := range s.AnswerLog {
		out.AnswerLog[i] = a.Clone()
	}
	out.Skipped = slices.Clone(s.Skipped)
	if s.Rubric != nil {
		out.Rubric = make(practice.Rubric, len(s.Rubric))
		for k, v := range s.Rubric {
			out.Rubric[k] = v
		}
	}
	return out
}
