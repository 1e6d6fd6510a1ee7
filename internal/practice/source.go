package practice

import "context"

// ProfileContext is the profile sent to the remote service with question
// and feedback requests. Experience holds either whole years (int) or a
// label such as "2-5". Empty fields are omitted on the wire.
type ProfileContext struct {
	JobRole           string
	Experience        any
	TechnicalKeywords []string
	CompanyType       string
	InterviewRound    string
	FocusArea         string
}

// QuestionSource produces a batch of questions for a profile.
type QuestionSource interface {
	Questions(ctx context.Context, profile ProfileContext) (*Batch, error)
}

// FeedbackSource scores a single answer.
type FeedbackSource interface {
	Feedback(ctx context.Context, q Question, answer string, profile ProfileContext) (*FeedbackRecord, error)
}
