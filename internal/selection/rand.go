package selection

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the source of randomness used for first picks and tier shuffles.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// LockedRand is a Rand that is safe for concurrent use.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand returns a LockedRand seeded from the wall clock.
func NewLockedRand() *LockedRand {
	seed := uint64(time.Now().UnixNano())
	return NewSeededRand(seed, seed>>1|1)
}

// NewSeededRand returns a LockedRand backed by a PCG source with the given
// seeds. Identical seeds yield identical sequences.
func NewSeededRand(seed1, seed2 uint64) *LockedRand {
	return &LockedRand{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (r *LockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

func (r *LockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}
