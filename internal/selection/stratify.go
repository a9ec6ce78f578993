package selection

import "sort"

// Tiers maps each Category to an ordered list of item indices. Every index
// in 0..n-1 belongs to exactly one tier.
type Tiers struct {
	Easy      []int
	Medium    []int
	Difficult []int
}

// Members returns the indices in tier c, in search order.
func (t Tiers) Members(c Category) []int {
	switch c {
	case CategoryEasy:
		return t.Easy
	case CategoryMedium:
		return t.Medium
	case CategoryDifficult:
		return t.Difficult
	}
	return nil
}

// CategoryOf returns the tier containing index i.
func (t Tiers) CategoryOf(i int) (Category, bool) {
	for _, c := range Categories {
		for _, idx := range t.Members(c) {
			if idx == i {
				return c, true
			}
		}
	}
	return "", false
}

// NonEmpty returns the tiers that have at least one member.
func (t Tiers) NonEmpty() []Category {
	var out []Category
	for _, c := range Categories {
		if len(t.Members(c)) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the total number of indices across all tiers.
func (t Tiers) Len() int {
	return len(t.Easy) + len(t.Medium) + len(t.Difficult)
}

// Stratify ranks item indices by ascending probability and splits them into
// three tiers by position: the lowest third is easy, the highest third is
// difficult and the middle block, which absorbs any remainder, is medium.
// With fewer than three items the lowest-probability index is the only easy
// item and every other index is difficult.
//
// Each tier is shuffled with rng so that ordering inside a tier is not
// strictly probability-ranked.
func Stratify(probs []float64, rng Rand) Tiers {
	n := len(probs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] < probs[order[b]]
	})

	var t Tiers
	switch {
	case n == 0:
		return t
	case n < 3:
		t.Easy = []int{order[0]}
		t.Difficult = append([]int(nil), order[1:]...)
	default:
		third := n / 3
		t.Easy = append([]int(nil), order[:third]...)
		t.Medium = append([]int(nil), order[third:n-third]...)
		t.Difficult = append([]int(nil), order[n-third:]...)
	}

	for _, members := range [][]int{t.Easy, t.Medium, t.Difficult} {
		shuffle(rng, members)
	}
	return t
}

func shuffle(rng Rand, idx []int) {
	if rng == nil || len(idx) < 2 {
		return
	}
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
}
