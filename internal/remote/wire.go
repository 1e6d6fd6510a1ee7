package remote

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/abhisek/prepcoach/internal/practice"
)

// DefaultTimeLimitMinutes is used when a question arrives without a usable
// time limit.
const DefaultTimeLimitMinutes = 5

// MaxTimeLimitMinutes caps the time limit of a single question.
const MaxTimeLimitMinutes = 120

// ProfileBody is the profile object sent with question and feedback
// requests.
type ProfileBody struct {
	JobRole           string   `json:"job_role"`
	YearsExperience   any      `json:"years_experience"`
	TechnicalKeywords []string `json:"technical_keywords"`
	CompanyType       string   `json:"company_type,omitempty"`
	InterviewRound    string   `json:"interview_round,omitempty"`
	FocusArea         string   `json:"focus_area,omitempty"`
}

// NewProfileBody converts a profile context to its wire form.
func NewProfileBody(p practice.ProfileContext) ProfileBody {
	kws := append([]string{}, p.TechnicalKeywords...)
	return ProfileBody{
		JobRole:           p.JobRole,
		YearsExperience:   p.Experience,
		TechnicalKeywords: kws,
		CompanyType:       p.CompanyType,
		InterviewRound:    p.InterviewRound,
		FocusArea:         p.FocusArea,
	}
}

// Context converts the wire profile back to a profile context.
func (b ProfileBody) Context() practice.ProfileContext {
	exp := b.YearsExperience
	if f, ok := exp.(float64); ok && f == math.Trunc(f) {
		exp = int(f)
	}
	return practice.ProfileContext{
		JobRole:           b.JobRole,
		Experience:        exp,
		TechnicalKeywords: append([]string{}, b.TechnicalKeywords...),
		CompanyType:       b.CompanyType,
		InterviewRound:    b.InterviewRound,
		FocusArea:         b.FocusArea,
	}
}

// QuestionBody is a question as it appears on the wire.
type QuestionBody struct {
	ID               FlexString `json:"id"`
	Question         string     `json:"question"`
	Hint             string     `json:"hint,omitempty"`
	TimeLimitMinutes *float64   `json:"time_limit_minutes,omitempty"`
	Difficulty       string     `json:"difficulty,omitempty"`
	Category         string     `json:"category,omitempty"`
	ExpectedKeywords []string   `json:"expected_keywords"`
}

// NewQuestionBody converts a question to its wire form.
func NewQuestionBody(q practice.Question) QuestionBody {
	limit := float64(q.TimeLimitMinutes)
	kws := append([]string{}, q.ExpectedKeywords...)
	return QuestionBody{
		ID:               FlexString(q.ID),
		Question:         q.Prompt,
		Hint:             q.Hint,
		TimeLimitMinutes: &limit,
		Difficulty:       string(q.Difficulty),
		Category:         q.Category,
		ExpectedKeywords: kws,
	}
}

// ToQuestion normalizes the wire question. Missing ids become the 1-based
// position, missing or non-positive time limits become
// DefaultTimeLimitMinutes, limits above MaxTimeLimitMinutes are clamped and
// unknown difficulties become medium.
func (b QuestionBody) ToQuestion(pos int) practice.Question {
	id := string(b.ID)
	if id == "" {
		id = strconv.Itoa(pos + 1)
	}
	limit := DefaultTimeLimitMinutes
	if b.TimeLimitMinutes != nil && *b.TimeLimitMinutes > 0 {
		limit = int(math.Round(math.Min(*b.TimeLimitMinutes, MaxTimeLimitMinutes)))
	}
	return practice.Question{
		ID:               id,
		Prompt:           b.Question,
		Hint:             b.Hint,
		TimeLimitMinutes: limit,
		Difficulty:       practice.ParseDifficulty(b.Difficulty),
		Category:         b.Category,
		ExpectedKeywords: append([]string{}, b.ExpectedKeywords...),
	}
}

// FlexString accepts a JSON string or number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// QuestionRequest is the body of POST /api/interview/question.
type QuestionRequest = ProfileBody

// QuestionResponse is the body returned by POST /api/interview/question.
type QuestionResponse struct {
	Questions      []QuestionBody    `json:"questions"`
	FeedbackRubric map[string]string `json:"feedback_rubric,omitempty"`
}

// Batch normalizes the response into a batch.
func (r QuestionResponse) Batch(origin practice.Origin) *practice.Batch {
	b := &practice.Batch{Origin: origin}
	for i, q := range r.Questions {
		b.Questions = append(b.Questions, q.ToQuestion(i))
	}
	if len(r.FeedbackRubric) > 0 {
		b.Rubric = make(practice.Rubric, len(r.FeedbackRubric))
		for k, v := range r.FeedbackRubric {
			b.Rubric[k] = v
		}
	}
	return b
}

// NewQuestionResponse converts a batch to its wire form.
func NewQuestionResponse(b *practice.Batch) QuestionResponse {
	r := QuestionResponse{Questions: make([]QuestionBody, 0, len(b.Questions))}
	for _, q := range b.Questions {
		r.Questions = append(r.Questions, NewQuestionBody(q))
	}
	if len(b.Rubric) > 0 {
		r.FeedbackRubric = make(map[string]string, len(b.Rubric))
		for k, v := range b.Rubric {
			r.FeedbackRubric[k] = v
		}
	}
	return r
}

// FeedbackRequest is the body of POST /api/interview/feedback.
type FeedbackRequest struct {
	Question   QuestionBody `json:"question"`
	UserAnswer string       `json:"userAnswer"`
	Profile    ProfileBody  `json:"profile"`
}

// FeedbackResponse is the normalized body returned by
// POST /api/interview/feedback.
type FeedbackResponse struct {
	Score                 float64  `json:"score"`
	KeywordMatch          float64  `json:"keyword_match"`
	Assessment            string   `json:"assessment"`
	ImprovementSuggestion string   `json:"improvement_suggestion"`
	Strengths             []string `json:"strengths"`
}

// Record converts the response into a feedback record.
func (r FeedbackResponse) Record(origin practice.Origin) *practice.FeedbackRecord {
	strengths := append([]string{}, r.Strengths...)
	return &practice.FeedbackRecord{
		Score:                 r.Score,
		KeywordMatchPercent:   r.KeywordMatch,
		Assessment:            r.Assessment,
		ImprovementSuggestion: r.ImprovementSuggestion,
		Strengths:             strengths,
		Origin:                origin,
	}
}

// NewFeedbackResponse converts a record to its wire form.
func NewFeedbackResponse(rec *practice.FeedbackRecord) FeedbackResponse {
	return FeedbackResponse{
		Score:                 rec.Score,
		KeywordMatch:          rec.KeywordMatchPercent,
		Assessment:            rec.Assessment,
		ImprovementSuggestion: rec.ImprovementSuggestion,
		Strengths:             append([]string{}, rec.Strengths...),
	}
}

// feedbackAliases maps canonical feedback keys to the alternative spellings
// accepted from backends, in order of preference.
var feedbackAliases = map[string][]string{
	"keyword_match":          {"keywordMatch", "keyword_match_percent", "keywordMatchPercent"},
	"improvement_suggestion": {"improvementSuggestion"},
}

// normalizeFeedback rewrites aliased keys to their canonical names in place.
func normalizeFeedback(m map[string]any) {
	for canonical, aliases := range feedbackAliases {
		if _, ok := m[canonical]; ok {
			continue
		}
		for _, alias := range aliases {
			if v, ok := m[alias]; ok {
				m[canonical] = v
				break
			}
		}
	}
	if v, ok := m["strengths"]; !ok || v == nil {
		m["strengths"] = []any{}
	}
	if v, ok := m["improvement_suggestion"]; !ok || v == nil {
		m["improvement_suggestion"] = ""
	}
}
