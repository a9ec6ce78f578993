package adaptive

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nextitem/internal/irt"
	"github.com/abhisek/nextitem/internal/selection"
)

type fakeAbilities struct {
	values map[string]float64
	err    error
}

func (f *fakeAbilities) GetAbility(_ context.Context, learnerID, unitID string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.values[learnerID+"/"+unitID], nil
}

type fakeItems struct {
	items []Item
	err   error
}

func (f *fakeItems) ListItems(_ context.Context, _, _ string) ([]Item, error) {
	return f.items, f.err
}

type fakeHistory struct {
	events []ResponseEvent
	last   HistoryQuery
	err    error
}

func (f *fakeHistory) ListRecentEvents(_ context.Context, q HistoryQuery) ([]ResponseEvent, error) {
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	events := f.events
	if q.Limit > 0 && len(events) > q.Limit {
		events = events[len(events)-q.Limit:]
	}
	return events, nil
}

func ptr(v float64) *float64 { return &v }

// nineItems are q0..q8 with difficulties -2..2 and unit discrimination.
// At ability 0 the lowest probabilities (q6..q8) stratify as easy,
// q3..q5 as medium and q0..q2 as difficult.
func nineItems() []Item {
	difficulties := []float64{-2, -1, -0.5, 0, 0, 0, 0.5, 1, 2}
	items := make([]Item, len(difficulties))
	for i, b := range difficulties {
		items[i] = Item{
			ID:             fmt.Sprintf("q%d", i),
			Difficulty:     ptr(b),
			Discrimination: ptr(1.0),
			ContextTag:     fmt.Sprintf("ctx-%d", i),
		}
	}
	return items
}

func answered(itemID string, correct bool) ResponseEvent {
	return ResponseEvent{
		LearnerID:      "learner-1",
		LearningUnitID: "unit-1",
		ActivityType:   "practice",
		SessionID:      "session-1",
		ItemID:         itemID,
		Feedback:       Feedback{FirstAttempt: correct},
		ContextTag:     "ctx-" + itemID[1:],
	}
}

func newTestService(items []Item, events []ResponseEvent) (*Service, *fakeHistory) {
	hist := &fakeHistory{events: events}
	svc := NewService(Options{
		Abilities: &fakeAbilities{},
		Items:     &fakeItems{items: items},
		History:   hist,
		Rand:      rand.New(rand.NewPCG(3, 5)),
	})
	return svc, hist
}

func baseRequest() Request {
	return Request{
		LearningUnitID: "unit-1",
		LearnerID:      "learner-1",
		ActivityType:   "practice",
		SessionID:      "session-1",
	}
}

func TestSelectNextItem_EmptyCorpus(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *CorpusNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "unit-1", nf.LearningUnitID)
	assert.Equal(t, "practice", nf.ActivityType)
}

func TestEndToEnd_NineItemStratification(t *testing.T) {
	in := buildInputs(nineItems(), nil)
	probs, err := irt.Probabilities(in.difficulty, irt.PerItem(in.discrimination), 0)
	require.NoError(t, err)

	for i := 1; i < len(probs); i++ {
		if in.difficulty[i] > in.difficulty[i-1] {
			assert.Less(t, probs[i], probs[i-1])
		}
	}

	tiers := selection.Stratify(probs, rand.New(rand.NewPCG(1, 1)))
	assert.Len(t, tiers.Easy, 3)
	assert.Len(t, tiers.Medium, 3)
	assert.Len(t, tiers.Difficult, 3)
	assert.ElementsMatch(t, []int{6, 7, 8}, tiers.Easy)
	assert.ElementsMatch(t, []int{3, 4, 5}, tiers.Medium)
	assert.ElementsMatch(t, []int{0, 1, 2}, tiers.Difficult)
}

func TestSelectNextItem_FirstPick(t *testing.T) {
	svc, hist := newTestService(nineItems(), nil)

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, res.FirstPick)
	assert.Regexp(t, `^q[0-8]$`, res.ItemID)
	assert.Equal(t, 9, hist.last.Limit, "history limit defaults to corpus size")
	assert.Equal(t, "session-1", hist.last.SessionID)
}

func TestSelectNextItem_DifficultCorrectStaysDifficult(t *testing.T) {
	svc, _ := newTestService(nineItems(), []ResponseEvent{answered("q0", true)})

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, selection.CategoryDifficult, res.Category)
	assert.Contains(t, []string{"q1", "q2"}, res.ItemID)
	assert.Equal(t, []selection.Category{
		selection.CategoryDifficult, selection.CategoryMedium, selection.CategoryEasy,
	}, res.SearchOrder)
}

func TestSelectNextItem_DifficultExhaustedFallsToMedium(t *testing.T) {
	events := []ResponseEvent{
		answered("q1", true),
		answered("q2", true),
		answered("q0", true),
	}
	svc, _ := newTestService(nineItems(), events)

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, selection.CategoryMedium, res.Category)
	assert.Contains(t, []string{"q3", "q4", "q5"}, res.ItemID)
}

func TestSelectNextItem_MediumExhaustedFallsToEasy(t *testing.T) {
	events := []ResponseEvent{
		answered("q1", false),
		answered("q2", false),
		answered("q3", true),
		answered("q4", true),
		answered("q5", true),
		answered("q0", true),
	}
	svc, _ := newTestService(nineItems(), events)

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, selection.CategoryEasy, res.Category)
	assert.Contains(t, []string{"q6", "q7", "q8"}, res.ItemID)
	assert.False(t, res.Reset)
}

func TestSelectNextItem_ResetAfterFullCorpus(t *testing.T) {
	var events []ResponseEvent
	for i := 8; i >= 0; i-- {
		events = append(events, answered(fmt.Sprintf("q%d", i), true))
	}
	svc, _ := newTestService(nineItems(), events)

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, res.Reset)
	// Last answer was q0 (difficult, correct) so the restart begins in difficult.
	assert.Equal(t, selection.CategoryDifficult, res.Category)
}

func TestSelectNextItem_SecondAttemptCountsAsCorrect(t *testing.T) {
	yes := true
	ev := answered("q3", false)
	ev.Feedback.SecondAttempt = &yes
	svc, _ := newTestService(nineItems(), []ResponseEvent{ev})

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	// Medium answered correctly searches difficult first.
	assert.Equal(t, selection.CategoryDifficult, res.Category)
}

func TestSelectNextItem_DropsEventsWithoutItem(t *testing.T) {
	noise := answered("q0", false)
	noise.ItemID = ""
	events := []ResponseEvent{answered("q3", false), noise}
	svc, _ := newTestService(nineItems(), events)

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	// The previous item is q3 (medium, wrong): search easy first.
	assert.Equal(t, selection.CategoryEasy, res.Category)
	assert.False(t, res.FirstPick)
}

func TestSelectNextItem_PreviousItemNotInCorpus(t *testing.T) {
	svc, _ := newTestService(nineItems(), []ResponseEvent{answered("q99", true)})

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, res.FirstPick)
}

func TestSelectNextItem_AvoidsRecentContext(t *testing.T) {
	items := nineItems()
	// Every difficult item shares the passage of the last answer.
	for _, i := range []int{0, 1, 2} {
		items[i].ContextTag = "passage-x"
	}
	ev := answered("q0", true)
	ev.ContextTag = "passage-x"
	svc, _ := newTestService(items, []ResponseEvent{ev})

	req := baseRequest()
	req.PriorContextCount = 1
	res, err := svc.SelectNextItem(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, selection.CategoryMedium, res.Category)

	req.PriorContextCount = 0
	res, err = svc.SelectNextItem(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, selection.CategoryDifficult, res.Category)
}

func TestSelectNextItem_DefaultsMissingParameters(t *testing.T) {
	items := []Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	svc, _ := newTestService(items, []ResponseEvent{answered("q0", true)})

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Probability, 1e-12)
}

func TestSelectNextItem_PropagatesProviderErrors(t *testing.T) {
	boom := errors.New("boom")
	ctx := context.Background()

	svc := NewService(Options{
		Abilities: &fakeAbilities{err: boom},
		Items:     &fakeItems{items: nineItems()},
		History:   &fakeHistory{},
	})
	_, err := svc.SelectNextItem(ctx, baseRequest())
	assert.True(t, errors.Is(err, boom))

	svc = NewService(Options{
		Abilities: &fakeAbilities{},
		Items:     &fakeItems{err: boom},
		History:   &fakeHistory{},
	})
	_, err = svc.SelectNextItem(ctx, baseRequest())
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrNotFound))

	svc = NewService(Options{
		Abilities: &fakeAbilities{},
		Items:     &fakeItems{items: nineItems()},
		History:   &fakeHistory{err: boom},
	})
	_, err = svc.SelectNextItem(ctx, baseRequest())
	assert.True(t, errors.Is(err, boom))
}

func TestSelectNextItem_HistoryLimit(t *testing.T) {
	hist := &fakeHistory{}
	svc := NewService(Options{
		Abilities: &fakeAbilities{},
		Items:     &fakeItems{items: nineItems()},
		History:   hist,
		Config:    Config{HistoryLimit: 4},
	})

	_, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 4, hist.last.Limit)
}

func TestSelectNextItem_AbilityShiftsProbabilities(t *testing.T) {
	abilities := &fakeAbilities{values: map[string]float64{"learner-1/unit-1": 2}}
	svc := NewService(Options{
		Abilities: abilities,
		Items:     &fakeItems{items: nineItems()},
		History:   &fakeHistory{events: []ResponseEvent{answered("q8", false)}},
		Rand:      rand.New(rand.NewPCG(9, 9)),
	})

	res, err := svc.SelectNextItem(context.Background(), baseRequest())
	require.NoError(t, err)
	// q8 (difficulty 2) is still the lowest probability item: easy tier, wrong
	// answer, so the next item also comes from easy.
	assert.Equal(t, selection.CategoryEasy, res.Category)
	assert.Contains(t, []string{"q6", "q7"}, res.ItemID)
	assert.Greater(t, res.Probability, 0.5)
}

func TestFeedback_Correct(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		fb   Feedback
		want bool
	}{
		{"first correct", Feedback{FirstAttempt: true}, true},
		{"first wrong no retry", Feedback{}, false},
		{"second correct", Feedback{SecondAttempt: &yes}, true},
		{"both wrong", Feedback{SecondAttempt: &no}, false},
	}
	for _, tt := range tests {
		if got := tt.fb.Correct(); got != tt.want {
			t.Errorf("%s: Correct() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	svc, _ := newTestService(nineItems(), []ResponseEvent{answered("q4", true)})

	p, err := svc.Preview(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, p.Rows, 9)
	assert.Equal(t, 0.0, p.Ability)

	counts := make(map[selection.Category]int)
	for i, row := range p.Rows {
		assert.Equal(t, fmt.Sprintf("q%d", i), row.ItemID)
		assert.Equal(t, i == 4, row.Attempted)
		counts[row.Category]++
	}
	assert.Equal(t, 3, counts[selection.CategoryEasy])
	assert.Equal(t, 3, counts[selection.CategoryMedium])
	assert.Equal(t, 3, counts[selection.CategoryDifficult])

	require.NotNil(t, p.Previous)
	assert.Equal(t, "q4", p.Previous.ItemID)
	assert.Equal(t, selection.CategoryMedium, p.Previous.Category)
	assert.Equal(t, []selection.Category{
		selection.CategoryDifficult, selection.CategoryMedium, selection.CategoryEasy,
	}, p.SearchOrder)
}

func TestPreview_EmptyCorpus(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	_, err := svc.Preview(context.Background(), baseRequest())
	assert.True(t, errors.Is(err, ErrNotFound))
}
