package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose filters LLM events; SessionID filters practice events.
	Purpose   string
	SessionID string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// PracticeEventData captures one practice event.
type PracticeEventData struct {
	SessionID     string
	Kind          string
	Surface       string
	Topic         string
	Origin        string
	QuestionID    string
	QuestionIndex int
	Score         float64
	KeywordMatch  float64
	QuestionCount int
	Answered      int
	Skipped       int
	Timestamp     time.Time // zero means now
}

// PracticeEvent is a stored practice event.
type PracticeEvent struct {
	ID       int
	Sequence int64
	PracticeEventData
}

// SessionRecord summarizes one journaled session.
type SessionRecord struct {
	SessionID     string
	StartedAt     time.Time
	Surface       string
	Topic         string
	Origin        string
	QuestionCount int
	Answered      int
	Skipped       int
	AverageScore  float64
	Completed     bool
}

// EventRepo provides append and query access to journaled events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates LLM events by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM events by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// AppendPracticeEvent records a practice event.
	AppendPracticeEvent(ctx context.Context, data PracticeEventData) error

	// QueryPracticeEvents returns practice events in sequence order.
	QueryPracticeEvents(ctx context.Context, opts QueryOpts) ([]PracticeEvent, error)

	// SessionHistory summarizes the most recent sessions, newest first.
	SessionHistory(ctx context.Context, limit int) ([]SessionRecord, error)
}
