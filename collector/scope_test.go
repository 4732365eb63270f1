package collector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanline/spanline/trace"
)

func TestScopeStackPushPop(t *testing.T) {
	s := newScopeStack()

	_, ok := s.current()
	assert.False(t, ok)

	outer := trace.TraceContext{TraceID: 1, SpanID: 1}
	inner := trace.TraceContext{TraceID: 1, SpanID: 2, ParentID: 1, HasParent: true}

	s.push(outer)
	got, ok := s.current()
	require.True(t, ok)
	assert.Equal(t, outer, got)

	s.push(inner)
	got, _ = s.current()
	assert.Equal(t, inner, got)

	s.pop()
	got, _ = s.current()
	assert.Equal(t, outer, got)

	s.pop()
	_, ok = s.current()
	assert.False(t, ok)

	// Unbalanced pop is a no-op, not a crash.
	s.pop()
}

func TestScopeStackPerGoroutineIsolation(t *testing.T) {
	s := newScopeStack()

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	mismatches := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n uint64) {
			defer wg.Done()
			tc := trace.TraceContext{TraceID: trace.ID(n + 1), SpanID: trace.ID(n + 1)}
			s.push(tc)
			got, ok := s.current()
			if !ok || got != tc {
				mu.Lock()
				mismatches++
				mu.Unlock()
			}
			s.pop()
		}(uint64(i))
	}
	wg.Wait()

	assert.Zero(t, mismatches, "goroutines observed each other's contexts")
	assert.Empty(t, s.stacks, "stacks must be reclaimed after pop")
}

func TestGoroutineIDStable(t *testing.T) {
	assert.Equal(t, goroutineID(), goroutineID())

	other := make(chan uint64, 1)
	go func() { other <- goroutineID() }()
	assert.NotEqual(t, goroutineID(), <-other)
}
