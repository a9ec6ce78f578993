package adaptive

import (
	"context"
	"fmt"

	"github.com/abhisek/nextitem/internal/irt"
	"github.com/abhisek/nextitem/internal/logger"
	"github.com/abhisek/nextitem/internal/selection"
)

// Config tunes the service.
type Config struct {
	// HistoryLimit caps how many recent events are read per call.
	// Zero or less uses the corpus size.
	HistoryLimit int
}

// DefaultConfig returns the default Config.
func DefaultConfig() Config {
	return Config{}
}

// Options wires a Service to its collaborators.
type Options struct {
	Abilities AbilityProvider
	Items     ItemCorpusProvider
	History   ResponseHistoryProvider

	// Rand drives first picks and tier shuffles. Nil uses a time-seeded source.
	Rand selection.Rand

	// Logger is optional.
	Logger *logger.Logger

	Config Config
}

// Service selects the next item for a learner. It keeps no state between
// calls and is safe for concurrent use.
type Service struct {
	abilities AbilityProvider
	items     ItemCorpusProvider
	history   ResponseHistoryProvider
	engine    *selection.Engine
	log       *logger.Logger
	cfg       Config
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		abilities: opts.Abilities,
		items:     opts.Items,
		history:   opts.History,
		engine:    selection.NewEngine(opts.Rand),
		log:       log,
		cfg:       opts.Config,
	}
}

// SelectNextItem picks the next item for the learner's session.
//
// It fails with a *CorpusNotFoundError when the learning unit has no items
// for the activity type. Provider errors are returned wrapped. Missing
// ability, difficulty, discrimination or context values default silently.
func (s *Service) SelectNextItem(ctx context.Context, req Request) (*Result, error) {
	snap, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	d, err := s.engine.Select(snap.in.mask, snap.tiers, snap.state, snap.in.contexts)
	if err != nil {
		return nil, fmt.Errorf("select item: %w", err)
	}

	log := s.log.With(
		"learning_unit_id", req.LearningUnitID,
		"learner_id", req.LearnerID,
		"session_id", req.SessionID,
		"activity_type", req.ActivityType,
	)
	if d.Reset {
		log.Info("all items attempted, restarting corpus", "items", len(snap.items))
	}
	log.Debug("selected item",
		"item_id", snap.items[d.Index].ID,
		"category", d.Category,
		"probability", snap.probs[d.Index],
		"ability", snap.theta,
		"items", len(snap.items),
		"history", len(snap.events),
		"first_pick", d.FirstPick,
		"context_fallback", d.ContextFallback,
	)

	return &Result{
		ItemID:      snap.items[d.Index].ID,
		Category:    d.Category,
		Probability: snap.probs[d.Index],
		SearchOrder: d.Order,
		FirstPick:   d.FirstPick,
		Reset:       d.Reset,
	}, nil
}

// Preview reports how every item in the corpus is currently stratified for
// the learner, without selecting anything.
func (s *Service) Preview(ctx context.Context, req Request) (*Preview, error) {
	snap, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	p := &Preview{
		Ability:        snap.theta,
		RecentContexts: snap.state.RecentContexts,
		Rows:           make([]PreviewRow, len(snap.items)),
	}
	for i, it := range snap.items {
		c, _ := snap.tiers.CategoryOf(i)
		p.Rows[i] = PreviewRow{
			ItemID:         it.ID,
			Difficulty:     snap.in.difficulty[i],
			Discrimination: snap.in.discrimination[i],
			Probability:    snap.probs[i],
			Category:       c,
			Attempted:      snap.in.mask[i],
			ContextTag:     it.ContextTag,
		}
	}
	if prev := snap.state.Previous; prev != nil {
		c, _ := snap.tiers.CategoryOf(prev.Index)
		order := selection.SearchOrder(c, prev.Correct)
		p.Previous = &PreviewPrevious{
			ItemID:   snap.items[prev.Index].ID,
			Category: c,
			Correct:  prev.Correct,
		}
		p.SearchOrder = order[:]
	}
	return p, nil
}

// snapshot is everything a selection needs, fetched and derived fresh for
// one call.
type snapshot struct {
	items  []Item
	theta  float64
	events []ResponseEvent
	in     inputs
	probs  []float64
	tiers  selection.Tiers
	state  selection.State
}

func (s *Service) load(ctx context.Context, req Request) (*snapshot, error) {
	items, err := s.items.ListItems(ctx, req.LearningUnitID, req.ActivityType)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		return nil, &CorpusNotFoundError{LearningUnitID: req.LearningUnitID, ActivityType: req.ActivityType}
	}

	theta, err := s.abilities.GetAbility(ctx, req.LearnerID, req.LearningUnitID)
	if err != nil {
		return nil, fmt.Errorf("get ability: %w", err)
	}

	limit := s.cfg.HistoryLimit
	if limit <= 0 {
		limit = len(items)
	}
	events, err := s.history.ListRecentEvents(ctx, HistoryQuery{
		LearnerID:      req.LearnerID,
		LearningUnitID: req.LearningUnitID,
		ActivityType:   req.ActivityType,
		SessionID:      req.SessionID,
		Limit:          limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	events = withItemReference(events)

	in := buildInputs(items, events)
	probs, err := irt.Probabilities(in.difficulty, irt.PerItem(in.discrimination), theta)
	if err != nil {
		return nil, fmt.Errorf("compute probabilities: %w", err)
	}

	snap := &snapshot{
		items:  items,
		theta:  theta,
		events: events,
		in:     in,
		probs:  probs,
		tiers:  selection.Stratify(probs, s.engine.Rand()),
	}
	if req.PriorContextCount >= 1 {
		snap.state.ConsiderContext = true
		snap.state.RecentContexts = recentContexts(events, req.PriorContextCount)
	}
	if len(events) > 0 {
		last := events[len(events)-1]
		if idx, ok := in.index[last.ItemID]; ok {
			snap.state.Previous = &selection.Previous{Index: idx, Correct: last.Feedback.Correct()}
		}
	}
	return snap, nil
}

// inputs are the per-call vectors, index-aligned with the corpus.
type inputs struct {
	difficulty     []float64
	discrimination []float64
	contexts       []string
	mask           []bool
	index          map[string]int // item ID -> first index
}

func buildInputs(items []Item, events []ResponseEvent) inputs {
	attempted := make(map[string]bool, len(events))
	for _, e := range events {
		attempted[e.ItemID] = true
	}

	in := inputs{
		difficulty:     make([]float64, len(items)),
		discrimination: make([]float64, len(items)),
		contexts:       make([]string, len(items)),
		mask:           make([]bool, len(items)),
		index:          make(map[string]int, len(items)),
	}
	for i, it := range items {
		in.difficulty[i] = valueOrZero(it.Difficulty)
		in.discrimination[i] = valueOrZero(it.Discrimination)
		in.contexts[i] = it.ContextTag
		in.mask[i] = attempted[it.ID]
		if _, dup := in.index[it.ID]; !dup {
			in.index[it.ID] = i
		}
	}
	return in
}

// withItemReference drops events that do not reference an item.
func withItemReference(events []ResponseEvent) []ResponseEvent {
	out := events[:0:0]
	for _, e := range events {
		if e.ItemID != "" {
			out = append(out, e)
		}
	}
	return out
}

// recentContexts returns the context tags of the last k events.
func recentContexts(events []ResponseEvent, k int) []string {
	if k > len(events) {
		k = len(events)
	}
	tags := make([]string, 0, k)
	for _, e := range events[len(events)-k:] {
		tags = append(tags, e.ContextTag)
	}
	return tags
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
