package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/prepcoach/internal/session"
)

var practiceEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "kind", "surface", "topic",
	"origin", "question_id", "question_index", "score", "keyword_match",
	"question_count", "answered", "skipped",
}

func (r *eventRepo) AppendPracticeEvent(ctx context.Context, data PracticeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := builder.Insert(practiceEventsTable).
		Columns(practiceEventColumns[1:]...).
		Values(
			seqNum,
			ts.UTC(),
			data.SessionID,
			data.Kind,
			data.Surface,
			data.Topic,
			data.Origin,
			data.QuestionID,
			data.QuestionIndex,
			data.Score,
			data.KeywordMatch,
			data.QuestionCount,
			data.Answered,
			data.Skipped,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save practice event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPracticeEvents(ctx context.Context, opts QueryOpts) ([]PracticeEvent, error) {
	sel := builder.Select(practiceEventColumns...).From(entsql.Table(practiceEventsTable))
	applyRange(sel, opts)
	if opts.SessionID != "" {
		sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	sel.OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return r.queryPractice(ctx, sel)
}

func (r *eventRepo) SessionHistory(ctx context.Context, limit int) ([]SessionRecord, error) {
	sel := builder.Select(practiceEventColumns...).
		From(entsql.Table(practiceEventsTable)).
		Where(entsql.EQ("kind", string(session.EventSessionStarted))).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	starts, err := r.queryPractice(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(starts) == 0 {
		return nil, nil
	}

	ids := make([]any, len(starts))
	records := make([]SessionRecord, len(starts))
	index := make(map[string]int, len(starts))
	for i, ev := range starts {
		ids[i] = ev.SessionID
		index[ev.SessionID] = i
		records[i] = SessionRecord{
			SessionID:     ev.SessionID,
			StartedAt:     ev.Timestamp,
			Surface:       ev.Surface,
			Topic:         ev.Topic,
			Origin:        ev.Origin,
			QuestionCount: ev.QuestionCount,
		}
	}

	events, err := r.queryPractice(ctx, builder.Select(practiceEventColumns...).
		From(entsql.Table(practiceEventsTable)).
		Where(entsql.In("session_id", ids...)).
		OrderBy("sequence"))
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(records))
	for _, ev := range events {
		i := index[ev.SessionID]
		switch session.EventKind(ev.Kind) {
		case session.EventAnswerRecorded:
			records[i].Answered++
			scores[i] += ev.Score
		case session.EventQuestionSkipped:
			records[i].Skipped++
		case session.EventSessionCompleted:
			records[i].Completed = true
		}
	}
	for i := range records {
		if records[i].Answered > 0 {
			records[i].AverageScore = scores[i] / float64(records[i].Answered)
		}
	}
	return records, nil
}

func (r *eventRepo) queryPractice(ctx context.Context, sel *entsql.Selector) ([]PracticeEvent, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practice events: %w", err)
	}
	defer rows.Close()

	var events []PracticeEvent
	for rows.Next() {
		var e PracticeEvent
		if err := rows.Scan(
			&e.ID,
			&e.Sequence,
			&e.Timestamp,
			&e.SessionID,
			&e.Kind,
			&e.Surface,
			&e.Topic,
			&e.Origin,
			&e.QuestionID,
			&e.QuestionIndex,
			&e.Score,
			&e.KeywordMatch,
			&e.QuestionCount,
			&e.Answered,
			&e.Skipped,
		); err != nil {
			return nil, fmt.Errorf("scan practice event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Journal records session events into the store. It satisfies
// session.Journal.
type Journal struct {
	repo EventRepo
}

// Record appends ev as a practice event.
func (j *Journal) Record(ctx context.Context, ev session.Event) error {
	return j.repo.AppendPracticeEvent(ctx, PracticeEventData{
		SessionID:     ev.SessionID,
		Kind:          string(ev.Kind),
		Surface:       ev.Surface,
		Topic:         ev.Primary,
		Origin:        string(ev.Origin),
		QuestionID:    ev.QuestionID,
		QuestionIndex: ev.QuestionIndex,
		Score:         ev.Score,
		KeywordMatch:  ev.KeywordMatch,
		QuestionCount: ev.QuestionCount,
		Answered:      ev.Answered,
		Skipped:       ev.Skipped,
		Timestamp:     ev.Timestamp,
	})
}
