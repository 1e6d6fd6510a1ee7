package coach

import "github.com/abhisek/prepcoach/internal/llm"

// QuestionBatchSchema is the structured output for a batch of interview
// questions. It mirrors the remote question response so both decode the
// same way.
var QuestionBatchSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A batch of interview practice questions with a grading rubric",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"minLength":   1,
							"description": "The question as the interviewer would ask it",
						},
						"hint": map[string]any{
							"type":        "string",
							"description": "One sentence nudging the candidate toward a strong answer",
						},
						"time_limit_minutes": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"maximum":     30,
							"description": "Suggested answering time",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
						"category": map[string]any{
							"type":        "string",
							"description": "Short topic label, e.g. \"Concurrency\" or \"Behavioral\"",
						},
						"expected_keywords": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Terms a strong answer would mention",
						},
					},
					"required":             []any{"question", "hint", "time_limit_minutes", "difficulty", "category", "expected_keywords"},
					"additionalProperties": false,
				},
			},
			"feedback_rubric": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"excellent":         map[string]any{"type": "string"},
					"good":              map[string]any{"type": "string"},
					"needs_improvement": map[string]any{"type": "string"},
				},
				"required":             []any{"excellent", "good", "needs_improvement"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"questions", "feedback_rubric"},
		"additionalProperties": false,
	},
}

// AnswerFeedbackSchema is the structured output for scoring one answer.
var AnswerFeedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Scored feedback on a candidate's answer to one interview question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     10,
				"description": "Overall answer quality from 0 to 10",
			},
			"keyword_match": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     100,
				"description": "Percentage of the expected keywords the answer covers",
			},
			"assessment": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Two or three sentences on how the answer lands",
			},
			"improvement_suggestion": map[string]any{
				"type":        "string",
				"description": "The single most useful change for next time",
			},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"score", "keyword_match", "assessment", "improvement_suggestion", "strengths"},
		"additionalProperties": false,
	},
}
