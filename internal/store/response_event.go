package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/nextitem/internal/adaptive"
)

const responseEventsTable = "response_events"

type eventRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

func (r *eventRepo) AppendResponse(ctx context.Context, ev adaptive.ResponseEvent) (int64, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	var itemID any
	if ev.ItemID != "" {
		itemID = ev.ItemID
	}
	var second any
	if ev.Feedback.SecondAttempt != nil {
		second = *ev.Feedback.SecondAttempt
	}

	b := entsql.Dialect(r.dialect)
	query, args := b.Insert(responseEventsTable).
		Columns("seq", "learner_id", "unit_id", "activity_type", "session_id",
			"item_id", "first_correct", "second_correct", "context_tag", "created_at").
		Values(seqNum, ev.LearnerID, ev.LearningUnitID, ev.ActivityType, ev.SessionID,
			itemID, ev.Feedback.FirstAttempt, second, ev.ContextTag, time.Now().UnixMilli()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("save response event: %w", err)
	}
	return seqNum, nil
}

// ListRecentEvents returns the newest q.Limit events of the session, oldest
// first. A zero limit returns the whole session.
func (r *eventRepo) ListRecentEvents(ctx context.Context, q adaptive.HistoryQuery) ([]adaptive.ResponseEvent, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select("learner_id", "unit_id", "activity_type", "session_id",
		"item_id", "first_correct", "second_correct", "context_tag").
		From(b.Table(responseEventsTable)).
		Where(entsql.And(
			entsql.EQ("learner_id", q.LearnerID),
			entsql.EQ("unit_id", q.LearningUnitID),
			entsql.EQ("activity_type", q.ActivityType),
			entsql.EQ("session_id", q.SessionID),
		)).
		OrderBy(entsql.Desc("seq"))
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query response events: %w", err)
	}
	defer rows.Close()

	var events []adaptive.ResponseEvent
	for rows.Next() {
		var (
			ev     adaptive.ResponseEvent
			itemID sql.NullString
			second sql.NullBool
		)
		if err := rows.Scan(&ev.LearnerID, &ev.LearningUnitID, &ev.ActivityType, &ev.SessionID,
			&itemID, &ev.Feedback.FirstAttempt, &second, &ev.ContextTag); err != nil {
			return nil, fmt.Errorf("scan response event: %w", err)
		}
		ev.ItemID = itemID.String
		if second.Valid {
			v := second.Bool
			ev.Feedback.SecondAttempt = &v
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate response events: %w", err)
	}

	slices.Reverse(events)
	return events, nil
}
