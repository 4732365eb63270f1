package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateSamplerBounds(t *testing.T) {
	never := NewRateSampler(0)
	always := NewRateSampler(1)

	for i := 0; i < 100; i++ {
		assert.False(t, never.Sample())
		assert.True(t, always.Sample())
	}
}

func TestRateSamplerClamps(t *testing.T) {
	assert.False(t, NewRateSampler(-3).Sample())
	assert.True(t, NewRateSampler(42).Sample())
}

func TestRateSamplerFraction(t *testing.T) {
	s := NewRateSampler(0.5)

	hits := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if s.Sample() {
			hits++
		}
	}

	// Loose bounds; the decision only needs to be probabilistic, not exact.
	assert.Greater(t, hits, n/4)
	assert.Less(t, hits, 3*n/4)
}

func TestConstSamplers(t *testing.T) {
	assert.True(t, Always.Sample())
	assert.False(t, Never.Sample())
}
