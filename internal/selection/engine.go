package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrNoItems is returned when there is nothing to select from.
	ErrNoItems = errors.New("selection: no items to select from")

	// ErrMaskLength is returned when the attempted mask does not cover
	// every stratified index.
	ErrMaskLength = errors.New("selection: mask length does not match item count")
)

// Previous is the item served immediately before this selection.
type Previous struct {
	Index   int
	Correct bool
}

// State is the per-call input to Select beyond the tiers and mask.
type State struct {
	// Previous is nil on the first selection of a session.
	Previous *Previous

	// RecentContexts are context tags to avoid repeating.
	RecentContexts []string

	// ConsiderContext enables context avoidance.
	ConsiderContext bool
}

// Decision is the outcome of a selection.
type Decision struct {
	Index    int
	Category Category

	// Order is the tier search order used. Empty for a first pick.
	Order []Category

	// FirstPick is set when there was no usable previous item.
	FirstPick bool

	// Reset is set when every item had been attempted and the mask was
	// inverted to make the whole corpus available again.
	Reset bool

	// ContextFallback is set when every remaining candidate shared a recent
	// context and the first candidate was returned regardless.
	ContextFallback bool
}

// Engine selects the next item. It holds no per-call state and is safe for
// concurrent use when its Rand is.
type Engine struct {
	rng Rand
}

// NewEngine creates an Engine. A nil rng uses a time-seeded LockedRand.
func NewEngine(rng Rand) *Engine {
	if rng == nil {
		rng = NewLockedRand()
	}
	return &Engine{rng: rng}
}

// Rand returns the engine's random source, for use by Stratify.
func (e *Engine) Rand() Rand {
	return e.rng
}

// Select picks the next item index.
//
// mask marks attempted items and must have one entry per stratified index.
// contexts holds each item's context tag, indexed like mask; it is only
// consulted when state.ConsiderContext is set.
func (e *Engine) Select(mask []bool, tiers Tiers, state State, contexts []string) (Decision, error) {
	n := tiers.Len()
	if n == 0 {
		return Decision{}, ErrNoItems
	}
	if len(mask) != n {
		return Decision{}, fmt.Errorf("%w: mask has %d entries for %d items", ErrMaskLength, len(mask), n)
	}

	if state.Previous == nil {
		return e.firstPick(tiers), nil
	}
	prevCat, ok := tiers.CategoryOf(state.Previous.Index)
	if !ok {
		return e.firstPick(tiers), nil
	}

	order := SearchOrder(prevCat, state.Previous.Correct)
	d := Decision{Order: order[:]}

	candidates, cats := available(tiers, order, mask)
	if len(candidates) == 0 {
		// Everything has been attempted: start the corpus over.
		d.Reset = true
		candidates, cats = available(tiers, order, nil)
	}

	pick := 0
	if filter := NewContextFilter(state.RecentContexts); state.ConsiderContext && filter.Active() {
		var ok bool
		if pick, ok = filter.FirstAllowed(candidates, contexts); !ok {
			d.ContextFallback = true
		}
	}

	d.Index = candidates[pick]
	d.Category = cats[pick]
	return d, nil
}

// firstPick chooses a random non-empty tier, then a random member of it.
func (e *Engine) firstPick(tiers Tiers) Decision {
	nonEmpty := tiers.NonEmpty()
	c := nonEmpty[e.rng.IntN(len(nonEmpty))]
	members := tiers.Members(c)
	return Decision{
		Index:     members[e.rng.IntN(len(members))],
		Category:  c,
		FirstPick: true,
	}
}

// available concatenates tier members in order, skipping masked indices.
// A nil mask keeps everything.
func available(tiers Tiers, order [3]Category, mask []bool) ([]int, []Category) {
	var idx []int
	var cats []Category
	for _, c := range order {
		for _, i := range tiers.Members(c) {
			if mask != nil && mask[i] {
				continue
			}
			idx = append(idx, i)
			cats = append(cats, c)
		}
	}
	return idx, cats
}
