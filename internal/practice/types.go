package practice

import "slices"

// Difficulty is the coarse difficulty label attached to a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a label onto a Difficulty. Unknown labels map to
// medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	}
	return DifficultyMedium
}

// Origin records where a batch or a feedback record came from. It is
// metadata for logging and the journal; rendering never depends on it.
type Origin string

const (
	OriginRemote   Origin = "remote"
	OriginLLM      Origin = "llm"
	OriginFallback Origin = "fallback"
)

// Question is a single practice prompt. Questions are never mutated once
// issued; use Clone when handing one across an ownership boundary.
type Question struct {
	ID               string
	Prompt           string
	Hint             string
	TimeLimitMinutes int
	Difficulty       Difficulty
	Category         string
	ExpectedKeywords []string
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.ExpectedKeywords = slices.Clone(q.ExpectedKeywords)
	return q
}

// Rubric maps a grade label (excellent, good, needs_improvement) to its
// description.
type Rubric map[string]string

// Batch is the result of a question request.
type Batch struct {
	Questions []Question
	Rubric    Rubric
	Origin    Origin
}

// FeedbackRecord is the normalized scoring of one answer.
type FeedbackRecord struct {
	// Score is in [0, 10].
	Score float64
	// KeywordMatchPercent is in [0, 100].
	KeywordMatchPercent float64

	Assessment            string
	ImprovementSuggestion string

	// Strengths is never nil.
	Strengths []string

	Origin Origin
}

// Valid reports whether the numeric fields are in range.
func (f FeedbackRecord) Valid() bool {
	return f.Score >= 0 && f.Score <= 10 &&
		f.KeywordMatchPercent >= 0 && f.KeywordMatchPercent <= 100
}

// Clone returns a deep copy of f.
func (f FeedbackRecord) Clone() FeedbackRecord {
	f.Strengths = slices.Clone(f.Strengths)
	if f.Strengths == nil {
		f.Strengths = []string{}
	}
	return f
}

// AnsweredQuestion is one entry of a session's answer log.
type AnsweredQuestion struct {
	Question   Question
	AnswerText string
	Feedback   FeedbackRecord
}

// Clone returns a deep copy of a.
func (a AnsweredQuestion) Clone() AnsweredQuestion {
	a.Question = a.Question.Clone()
	a.Feedback = a.Feedback.Clone()
	return a
}
