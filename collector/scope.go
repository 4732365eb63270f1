package collector

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"

	"github.com/spanline/spanline/trace"
)

// scopeStack keeps the active trace context per goroutine. A single shared
// "current span" variable would let concurrent requests corrupt each other,
// so entries are keyed by execution-unit identity instead.
type scopeStack struct {
	mu     sync.Mutex
	stacks map[uint64][]trace.TraceContext
}

func newScopeStack() *scopeStack {
	return &scopeStack{stacks: make(map[uint64][]trace.TraceContext)}
}

func (s *scopeStack) push(tc trace.TraceContext) {
	g := goroutineID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stacks[g] = append(s.stacks[g], tc)
}

func (s *scopeStack) pop() {
	g := goroutineID()
	s.mu.Lock()
	defer s.mu.Unlock()
	stack := s.stacks[g]
	if len(stack) == 0 {
		return
	}
	if len(stack) == 1 {
		delete(s.stacks, g)
		return
	}
	s.stacks[g] = stack[:len(stack)-1]
}

func (s *scopeStack) current() (trace.TraceContext, bool) {
	g := goroutineID()
	s.mu.Lock()
	defer s.mu.Unlock()
	stack := s.stacks[g]
	if len(stack) == 0 {
		return trace.TraceContext{}, false
	}
	return stack[len(stack)-1], true
}

// goroutineID parses the current goroutine's id from its stack header
// ("goroutine 123 [running]: ..."). Used only as a map key.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := buf[:n]
	header = bytes.TrimPrefix(header, []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i > 0 {
		header = header[:i]
	}
	gid, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// scoped implements the Push/Pop half of trace.Collector and is embedded by
// every concrete collector.
type scoped struct {
	scope *scopeStack
}

func newScoped() scoped {
	return scoped{scope: newScopeStack()}
}

// Push makes tc the active context for the calling request scope.
func (s scoped) Push(tc trace.TraceContext) {
	s.scope.push(tc)
}

// Pop removes the most recently pushed context for the calling request scope.
func (s scoped) Pop() {
	s.scope.pop()
}

// Current returns the active context for the calling request scope.
func (s scoped) Current() (trace.TraceContext, bool) {
	return s.scope.current()
}
