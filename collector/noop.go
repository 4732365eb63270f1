package collector

import "github.com/spanline/spanline/trace"

// Noop discards every annotation and keeps no state. Useful to disable
// tracing without touching call sites.
type Noop struct{}

func (Noop) Record(trace.Event) error { return nil }
func (Noop) Push(trace.TraceContext)  {}
func (Noop) Pop()                     {}
