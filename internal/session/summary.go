package session

import "github.com/abhisek/prepcoach/internal/practice"

// Summary holds the data displayed on the summary screen.
type Summary struct {
	SessionID string
	Origin    practice.Origin

	TotalQuestions int
	Answered       int
	Skipped        int
	Complete       bool

	// AverageScore and AverageKeywordMatch are 0 when nothing was answered.
	AverageScore        float64
	AverageKeywordMatch float64

	// FallbackFeedback counts answers scored by the local fallback.
	FallbackFeedback int

	// Best and Worst index AnswerLog by score; -1 when nothing was answered.
	Best  int
	Worst int

	Strengths []string
}

// BuildSummary aggregates a session's answer log.
func BuildSummary[P any](s *Session[P]) Summary {
	sum := Summary{
		SessionID:      s.ID,
		Origin:         s.Origin,
		TotalQuestions: len(s.Questions),
		Answered:       len(s.AnswerLog),
		Skipped:        len(s.Skipped),
		Complete:       s.Complete(),
		Best:           -1,
		Worst:          -1,
	}

	seen := make(map[string]bool)
	var score, match float64
	for i, a := range s.AnswerLog {
		if sum.Best < 0 || a.Feedback.Score > s.AnswerLog[sum.Best].Feedback.Score {
			sum.Best = i
		}
		if sum.Worst < 0 || a.Feedback.Score < s.AnswerLog[sum.Worst].Feedback.Score {
			sum.Worst = i
		}
		score += a.Feedback.Score
		match += a.Feedback.KeywordMatchPercent
		if a.Feedback.Origin == practice.OriginFallback {
			sum.FallbackFeedback++
		}
		for _, st := range a.Feedback.Strengths {
			if !seen[st] {
				seen[st] = true
				sum.Strengths = append(sum.Strengths, st)
			}
		}
	}
	if n := len(s.AnswerLog); n > 0 {
		sum.AverageScore = score / float64(n)
		sum.AverageKeywordMatch = match / float64(n)
	}
	return sum
}
