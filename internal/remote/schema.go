package remote

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var questionResponseSchema = map[string]any{
	"type":     "object",
	"required": []any{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"question"},
				"properties": map[string]any{
					"id":                 map[string]any{"type": []any{"string", "integer", "null"}},
					"question":           map[string]any{"type": "string", "minLength": 1},
					"hint":               map[string]any{"type": []any{"string", "null"}},
					"time_limit_minutes": map[string]any{"type": []any{"number", "null"}, "maximum": MaxTimeLimitMinutes},
					"difficulty":         map[string]any{"type": []any{"string", "null"}},
					"category":           map[string]any{"type": []any{"string", "null"}},
					"expected_keywords": map[string]any{
						"type":  []any{"array", "null"},
						"items": map[string]any{"type": "string"},
					},
				},
			},
		},
		"feedback_rubric": map[string]any{
			"type":                 []any{"object", "null"},
			"additionalProperties": map[string]any{"type": "string"},
		},
	},
}

// feedbackResponseSchema applies after alias normalization.
var feedbackResponseSchema = map[string]any{
	"type":     "object",
	"required": []any{"score", "keyword_match", "assessment"},
	"properties": map[string]any{
		"score":                  map[string]any{"type": "number", "minimum": 0, "maximum": 10},
		"keyword_match":          map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		"assessment":             map[string]any{"type": "string", "minLength": 1},
		"improvement_suggestion": map[string]any{"type": "string"},
		"strengths": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
}

var (
	questionValidator = mustCompile("question-response", questionResponseSchema)
	feedbackValidator = mustCompile("feedback-response", feedbackResponseSchema)
)

func mustCompile(name string, def map[string]any) *jsonschema.Schema {
	// Round trip so numbers are float64, as the compiler expects.
	raw, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("marshal %s schema: %v", name, err))
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("parse %s schema: %v", name, err))
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		panic(fmt.Sprintf("add %s schema: %v", name, err))
	}
	s, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return s
}
