package adaptive

import (
	"errors"
	"fmt"
)

// ErrNotFound is the root of not-found failures.
var ErrNotFound = errors.New("not found")

// CorpusNotFoundError is returned when a learning unit has no items for an
// activity type. Retrying without new input will not help.
type CorpusNotFoundError struct {
	LearningUnitID string
	ActivityType   string
}

func (e *CorpusNotFoundError) Error() string {
	return fmt.Sprintf("no items for learning unit %q activity %q", e.LearningUnitID, e.ActivityType)
}

func (e *CorpusNotFoundError) Unwrap() error { return ErrNotFound }
