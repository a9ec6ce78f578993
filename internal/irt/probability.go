// Package irt implements the two-parameter logistic (2PL) item response
// model used to rank items against a learner's ability.
package irt

import (
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch is returned when a per-item discrimination vector does
// not line up with the difficulty vector.
var ErrLengthMismatch = errors.New("irt: discrimination length does not match difficulty length")

// Discrimination holds either a single value broadcast to every item or
// one value per item.
type Discrimination struct {
	scalar  float64
	perItem []float64
}

// Uniform returns a Discrimination that applies a to every item.
func Uniform(a float64) Discrimination {
	return Discrimination{scalar: a}
}

// PerItem returns a Discrimination with one value per item. The slice is
// not copied.
func PerItem(a []float64) Discrimination {
	return Discrimination{perItem: a}
}

// IsPerItem reports whether d carries a per-item vector.
func (d Discrimination) IsPerItem() bool {
	return d.perItem != nil
}

// At returns the discrimination for item i.
func (d Discrimination) At(i int) float64 {
	if d.perItem != nil {
		return d.perItem[i]
	}
	return d.scalar
}

// Probability returns the probability that a learner of ability theta
// answers an item with the given parameters correctly.
func Probability(theta, difficulty, discrimination float64) float64 {
	kernel := discrimination * (theta - difficulty)
	return clamp(logistic(kernel), 0, 1)
}

// Probabilities evaluates the 2PL curve for every item. The returned slice
// is index-aligned with difficulty.
func Probabilities(difficulty []float64, disc Discrimination, theta float64) ([]float64, error) {
	if disc.IsPerItem() && len(disc.perItem) != len(difficulty) {
		return nil, fmt.Errorf("%w: %d discriminations for %d items",
			ErrLengthMismatch, len(disc.perItem), len(difficulty))
	}

	probs := make([]float64, len(difficulty))
	for i, b := range difficulty {
		probs[i] = Probability(theta, b, disc.At(i))
	}
	return probs, nil
}

// logistic is 1 / (1 + e^-x), written to avoid overflow for large |x|.
func logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// clamp bounds v to [lo, hi]. A NaN kernel (inf times zero) counts as an
// even chance.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
