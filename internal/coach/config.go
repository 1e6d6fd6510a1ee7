package coach

// Config controls LLM-backed question and feedback generation.
type Config struct {
	// QuestionCount is how many questions a batch asks for.
	QuestionCount int

	QuestionMaxTokens int
	FeedbackMaxTokens int

	// QuestionTemperature is kept above zero so repeated sessions with the
	// same profile do not get identical batches.
	QuestionTemperature float64
	FeedbackTemperature float64
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		QuestionCount:       5,
		QuestionMaxTokens:   2048,
		FeedbackMaxTokens:   768,
		QuestionTemperature: 0.7,
		FeedbackTemperature: 0.2,
	}
}
