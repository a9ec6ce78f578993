package irt

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbability_KnownValues(t *testing.T) {
	tests := []struct {
		name           string
		theta          float64
		difficulty     float64
		discrimination float64
		want           float64
	}{
		{"ability equals difficulty", 0, 0, 1, 0.5},
		{"zero discrimination", 3, -2, 0, 0.5},
		{"one logit above", 1, 0, 1, 1 / (1 + math.Exp(-1))},
		{"one logit below", 0, 1, 1, 1 / (1 + math.Exp(1))},
		{"steep discrimination", 0.5, 0, 2, 1 / (1 + math.Exp(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Probability(tt.theta, tt.difficulty, tt.discrimination)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestProbabilities_OpenInterval(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for n := 1; n <= 50; n++ {
		difficulty := make([]float64, n)
		disc := make([]float64, n)
		for i := range difficulty {
			difficulty[i] = rng.Float64()*6 - 3
			disc[i] = rng.Float64() * 2.5
		}
		theta := rng.Float64()*6 - 3

		probs, err := Probabilities(difficulty, PerItem(disc), theta)
		require.NoError(t, err)
		require.Len(t, probs, n)
		for i, p := range probs {
			if p <= 0 || p >= 1 {
				t.Fatalf("n=%d: probability[%d] = %v, want in (0,1)", n, i, p)
			}
		}
	}
}

func TestProbabilities_UniformBroadcast(t *testing.T) {
	difficulty := []float64{-2, -1, -0.5, 0, 0, 0, 0.5, 1, 2}

	probs, err := Probabilities(difficulty, Uniform(1.0), 0)
	require.NoError(t, err)
	require.Len(t, probs, len(difficulty))

	for i := 1; i < len(probs); i++ {
		if difficulty[i] > difficulty[i-1] {
			assert.Less(t, probs[i], probs[i-1], "index %d", i)
		} else {
			assert.Equal(t, probs[i], probs[i-1], "index %d", i)
		}
	}
}

func TestProbabilities_LengthMismatch(t *testing.T) {
	_, err := Probabilities([]float64{0, 1}, PerItem([]float64{1}), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestProbabilities_Empty(t *testing.T) {
	probs, err := Probabilities(nil, Uniform(1), 0)
	require.NoError(t, err)
	assert.Empty(t, probs)
}

func TestProbability_Saturation(t *testing.T) {
	// Extreme kernels saturate but never leave [0,1] or produce NaN.
	assert.Equal(t, 1.0, Probability(1e6, 0, 1))
	assert.Equal(t, 0.0, Probability(-1e6, 0, 1))
	assert.Equal(t, 0.5, Probability(math.Inf(1), math.Inf(1), 1))
}
