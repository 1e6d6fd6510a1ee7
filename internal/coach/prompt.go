package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/prepcoach/internal/practice"
)

const questionSystemPrompt = `You are an experienced technical interviewer preparing a mock interview.

Rules:
- Tailor every question to the candidate's role, experience and listed skills.
- Match the interview round: technical rounds probe concepts and trade-offs, behavioral rounds ask for past situations, system design rounds ask for an architecture.
- When a focus area is given, at least half of the questions must target it.
- Order questions from warm-up to hardest.
- Questions must be self-contained and answerable in a few minutes of speech or typing.
- Do not ask for code longer than a few lines.
- The rubric describes what an excellent, a good and a weak answer look like for this batch.`

const feedbackSystemPrompt = `You are an interview coach scoring a candidate's answer.

Rules:
- Score from 0 to 10 against what a strong candidate at the stated experience level would say.
- keyword_match is the percentage of the expected keywords the answer covers, counting close synonyms.
- An empty, off-topic or one-line answer scores 3 or below.
- Be specific and constructive. Quote or paraphrase the answer when naming a strength.
- Give at most three strengths. Use an empty list when there are none.`

func writeProfile(b *strings.Builder, p practice.ProfileContext) {
	fmt.Fprintf(b, "Role: %s\n", p.JobRole)
	switch exp := p.Experience.(type) {
	case int:
		fmt.Fprintf(b, "Experience: %d years\n", exp)
	case nil:
	default:
		fmt.Fprintf(b, "Experience: %v years\n", exp)
	}
	if len(p.TechnicalKeywords) > 0 {
		fmt.Fprintf(b, "Skills: %s\n", strings.Join(p.TechnicalKeywords, ", "))
	}
	if p.CompanyType != "" {
		fmt.Fprintf(b, "Company type: %s\n", p.CompanyType)
	}
	if p.InterviewRound != "" {
		fmt.Fprintf(b, "Interview round: %s\n", p.InterviewRound)
	}
	if p.FocusArea != "" {
		fmt.Fprintf(b, "Focus area: %s\n", p.FocusArea)
	}
}

func buildQuestionMessage(p practice.ProfileContext, count int) string {
	var b strings.Builder
	writeProfile(&b, p)
	fmt.Fprintf(&b, "\nWrite exactly %d questions.", count)
	return b.String()
}

func buildFeedbackMessage(q practice.Question, answer string, p practice.ProfileContext) string {
	var b strings.Builder
	writeProfile(&b, p)

	fmt.Fprintf(&b, "\nQuestion: %s\n", q.Prompt)
	if q.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", q.Category)
	}
	if q.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", q.Difficulty)
	}
	if len(q.ExpectedKeywords) > 0 {
		fmt.Fprintf(&b, "Expected keywords: %s\n", strings.Join(q.ExpectedKeywords, ", "))
	} else {
		b.WriteString("Expected keywords: none given, judge coverage yourself\n")
	}

	b.WriteString("\nCandidate's answer:\n")
	b.WriteString(answer)
	return b.String()
}
