package interceptor

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"

	"github.com/spanline/spanline/trace"
)

// mockCollector records the full operation sequence it observes and keeps
// a per-goroutine active stack so tests can detect cross-contamination
// between concurrent requests.
type mockCollector struct {
	mu     sync.Mutex
	ops    []string
	events []trace.Event
	pushes []trace.TraceContext
	pops   int

	recordErr     error
	panicOnRecord bool

	active     map[uint64][]trace.TraceContext
	mismatches int
}

func newMockCollector() *mockCollector {
	return &mockCollector{active: make(map[uint64][]trace.TraceContext)}
}

func (m *mockCollector) Record(ev trace.Event) error {
	if m.panicOnRecord {
		panic("collector transport exploded")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recordErr != nil {
		return m.recordErr
	}

	m.ops = append(m.ops, "record:"+ev.Kind.String())
	m.events = append(m.events, ev)

	// A SERVER_SEND must reference the context this scope pushed.
	if ev.Kind == trace.KindServerSend {
		stack := m.active[gid()]
		if len(stack) == 0 || stack[len(stack)-1] != ev.Context {
			m.mismatches++
		}
	}
	return nil
}

func (m *mockCollector) Push(tc trace.TraceContext) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "push")
	m.pushes = append(m.pushes, tc)
	g := gid()
	m.active[g] = append(m.active[g], tc)
}

func (m *mockCollector) Pop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, "pop")
	m.pops++
	g := gid()
	if stack := m.active[g]; len(stack) > 0 {
		m.active[g] = stack[:len(stack)-1]
	}
}

func (m *mockCollector) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, ev := range m.events {
		k := ev.Kind.String()
		if ev.Name != "" {
			k += ":" + ev.Name
		}
		out = append(out, k)
	}
	return out
}

func (m *mockCollector) snapshot() ([]trace.Event, []trace.TraceContext, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]trace.Event(nil), m.events...), append([]trace.TraceContext(nil), m.pushes...), m.pops
}

func gid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i > 0 {
		header = header[:i]
	}
	v, _ := strconv.ParseUint(string(header), 10, 64)
	return v
}
