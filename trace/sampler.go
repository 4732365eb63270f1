package trace

import (
	"math/rand"
	"sync"
	"time"
)

// Sampler decides once per new trace whether its annotations are retained.
type Sampler interface {
	Sample() bool
}

// RateSampler samples a fixed fraction of new traces.
type RateSampler struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

// NewRateSampler creates a sampler keeping the given fraction of traces.
// The rate is clamped to [0, 1].
func NewRateSampler(rate float64) *RateSampler {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return &RateSampler{
		rate: rate,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RateSampler) Sample() bool {
	switch {
	case s.rate <= 0:
		return false
	case s.rate >= 1:
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.rate
}

type constSampler bool

func (c constSampler) Sample() bool { return bool(c) }

// Always samples every new trace.
var Always Sampler = constSampler(true)

// Never samples no new traces.
var Never Sampler = constSampler(false)
