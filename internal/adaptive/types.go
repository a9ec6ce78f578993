// Package adaptive picks the next assessment item for a learner by
// combining their ability estimate, the item corpus and their response
// history.
package adaptive

import (
	"context"

	"github.com/abhisek/nextitem/internal/selection"
)

// Item is an assessment item as supplied by the corpus provider.
// Nil Difficulty or Discrimination defaults to 0.
type Item struct {
	ID             string
	Difficulty     *float64
	Discrimination *float64
	ContextTag     string
}

// Feedback is the evaluation of a response.
type Feedback struct {
	FirstAttempt  bool
	SecondAttempt *bool // nil when there was no second attempt
}

// Correct reports whether either attempt was correct.
func (f Feedback) Correct() bool {
	return f.FirstAttempt || (f.SecondAttempt != nil && *f.SecondAttempt)
}

// ResponseEvent is a learner's recorded response to an item.
type ResponseEvent struct {
	LearnerID      string
	LearningUnitID string
	ActivityType   string
	SessionID      string
	ItemID         string // empty when the event does not reference an item
	Feedback       Feedback
	ContextTag     string
}

// AbilityProvider returns a learner's ability for a learning unit, or 0
// when none is recorded.
type AbilityProvider interface {
	GetAbility(ctx context.Context, learnerID, learningUnitID string) (float64, error)
}

// ItemCorpusProvider lists the items of a learning unit for an activity type.
type ItemCorpusProvider interface {
	ListItems(ctx context.Context, learningUnitID, activityType string) ([]Item, error)
}

// ResponseHistoryProvider returns up to limit of the most recent response
// events in a session, ordered oldest first.
type ResponseHistoryProvider interface {
	ListRecentEvents(ctx context.Context, q HistoryQuery) ([]ResponseEvent, error)
}

// HistoryQuery scopes a response history lookup.
type HistoryQuery struct {
	LearnerID      string
	LearningUnitID string
	ActivityType   string
	SessionID      string
	Limit          int
}

// Request identifies whom to select for.
type Request struct {
	LearningUnitID string
	LearnerID      string
	ActivityType   string
	SessionID      string

	// PriorContextCount is how many of the most recent responses' context
	// tags to avoid. Zero or less disables context avoidance.
	PriorContextCount int
}

// Result is the selected item plus how it was chosen.
type Result struct {
	ItemID      string
	Category    selection.Category
	Probability float64
	SearchOrder []selection.Category
	FirstPick   bool
	Reset       bool
}

// Preview is the current stratification of a corpus for a learner.
type Preview struct {
	Ability        float64
	Rows           []PreviewRow
	Previous       *PreviewPrevious
	SearchOrder    []selection.Category
	RecentContexts []string
}

// PreviewRow describes one item, in corpus order.
type PreviewRow struct {
	ItemID         string
	Difficulty     float64
	Discrimination float64
	Probability    float64
	Category       selection.Category
	Attempted      bool
	ContextTag     string
}

// PreviewPrevious is the most recent answered item.
type PreviewPrevious struct {
	ItemID   string
	Category selection.Category
	Correct  bool
}
