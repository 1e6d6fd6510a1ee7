// Package questionbank synthesizes a small deterministic question set used
// when no remote question source is reachable.
package questionbank

import (
	"fmt"
	"strings"

	"github.com/abhisek/prepcoach/internal/practice"
)

// MaxExpectedKeywords caps the expected keywords attached to each question.
const MaxExpectedKeywords = 4

const blankSkill = "this technology"

type template struct {
	prompt     string
	hint       string
	minutes    int
	difficulty practice.Difficulty
	category   string
}

// templates are conceptual, scenario and best-practices, in that order.
var templates = [3]template{
	{
		prompt:     "Explain the key concepts of %s and its main advantages in modern development.",
		hint:       "Focus on core principles, architecture, and real-world benefits",
		minutes:    5,
		difficulty: practice.DifficultyMedium,
		category:   "Technical",
	},
	{
		prompt:     "Describe a real-world scenario where you would use %s and explain your implementation approach.",
		hint:       "Think about scalability, performance, and maintainability",
		minutes:    7,
		difficulty: practice.DifficultyMedium,
		category:   "Scenario",
	},
	{
		prompt:     "What are the common challenges or best practices when working with %s in a production environment?",
		hint:       "Consider debugging, optimization, and team collaboration aspects",
		minutes:    6,
		difficulty: practice.DifficultyHard,
		category:   "Best Practices",
	},
}

// Rubric returns the grading rubric attached to synthesized batches.
func Rubric() practice.Rubric {
	return practice.Rubric{
		"excellent":         "Comprehensive answer covering all key concepts with practical examples",
		"good":              "Good understanding with some examples but missing depth in certain areas",
		"needs_improvement": "Basic understanding but lacks depth, examples, or clarity",
	}
}

// Synthesize builds the three fallback questions for skill. It is pure:
// the same skill always yields an identical batch, and every call returns
// freshly allocated slices.
func Synthesize(skill string) practice.Batch {
	name := strings.TrimSpace(skill)
	keywords := RelatedSkills(name)
	if len(keywords) > MaxExpectedKeywords {
		keywords = keywords[:MaxExpectedKeywords]
	}
	if name == "" {
		name = blankSkill
	}

	questions := make([]practice.Question, len(templates))
	for i, t := range templates {
		questions[i] = practice.Question{
			ID:               fmt.Sprintf("%d", i+1),
			Prompt:           fmt.Sprintf(t.prompt, name),
			Hint:             t.hint,
			TimeLimitMinutes: t.minutes,
			Difficulty:       t.difficulty,
			Category:         t.category,
			ExpectedKeywords: append([]string(nil), keywords...),
		}
	}

	return practice.Batch{
		Questions: questions,
		Rubric:    Rubric(),
		Origin:    practice.OriginFallback,
	}
}
