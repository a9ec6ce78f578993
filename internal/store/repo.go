package store

import (
	"context"

	"github.com/abhisek/nextitem/internal/adaptive"
)

// ItemRepo stores item corpora, one per (learning unit, activity type).
type ItemRepo interface {
	adaptive.ItemCorpusProvider

	// ReplaceItems replaces the corpus for a learning unit and activity
	// type. Item order is preserved.
	ReplaceItems(ctx context.Context, learningUnitID, activityType string, items []adaptive.Item) error

	// ListCorpora returns every (learning unit, activity type) pair with at
	// least one item.
	ListCorpora(ctx context.Context) ([]CorpusKey, error)
}

// CorpusKey identifies an item corpus.
type CorpusKey struct {
	LearningUnitID string
	ActivityType   string
	Items          int
}

// AbilityRepo stores ability estimates. The store only records them; how
// they are computed is up to the caller.
type AbilityRepo interface {
	adaptive.AbilityProvider

	// SetAbility records the ability for a learner in a learning unit,
	// replacing any previous value.
	SetAbility(ctx context.Context, learnerID, learningUnitID string, ability float64) error
}

// EventRepo is the append-only response log.
type EventRepo interface {
	adaptive.ResponseHistoryProvider

	// AppendResponse records a response and returns its sequence number.
	AppendResponse(ctx context.Context, ev adaptive.ResponseEvent) (int64, error)
}
