package session

import (
	"context"
	"time"

	"github.com/abhisek/prepcoach/internal/practice"
)

// EventKind names a practice event.
type EventKind string

const (
	EventSessionStarted   EventKind = "session_started"
	EventAnswerRecorded   EventKind = "answer_recorded"
	EventQuestionSkipped  EventKind = "question_skipped"
	EventSessionCompleted EventKind = "session_completed"
)

// Event is one entry handed to a Journal.
type Event struct {
	Kind      EventKind
	SessionID string
	Surface   string
	Primary   string
	Origin    practice.Origin
	Timestamp time.Time

	// Question fields are set for answer and skip events.
	QuestionID    string
	QuestionIndex int

	// Feedback fields are set for answer events.
	Score        float64
	KeywordMatch float64

	// QuestionCount is set for start events; Answered and Skipped for
	// completion events.
	QuestionCount int
	Answered      int
	Skipped       int
}

// Journal records practice events. Implementations must be safe for
// concurrent use. Errors are logged by the controller and otherwise ignored.
type Journal interface {
	Record(ctx context.Context, ev Event) error
}
