package interceptor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/spanline/spanline/monitoring"
	"github.com/spanline/spanline/trace"
)

// Session drives the span lifecycle of one in-flight request:
// IDLE -> OPENED -> CLOSED. It borrows the interceptor's mutex and
// collector per call and returns them unchanged; its only durable effect
// is the annotations delivered to the collector.
type Session struct {
	mu        *sync.Mutex
	recorder  *Recorder
	collector trace.Collector
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	ctx       trace.TraceContext
	inherited bool
	forced    bool
	closed    bool
}

// Open pushes the context and emits the start-of-span annotations under
// the exclusion lock. Request metadata is emitted only for contexts
// generated in this process; an inherited context's caller has already
// recorded it. The lock is released before the handler runs.
func (s *Session) Open(method, uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.guarded(func() {
		s.collector.Push(s.ctx)
		if !s.inherited {
			s.recorder.Record(trace.BinaryEvent(s.ctx, "http.method", method))
			s.recorder.Record(trace.BinaryEvent(s.ctx, "http.uri", uri))
		}
		s.recorder.Record(trace.ServerReceive(s.ctx))
		if s.forced {
			s.recorder.Record(trace.CustomEvent(s.ctx, "whitelisted"))
		}
	})
	if s.metrics != nil {
		s.metrics.SpansOpened.Inc()
	}
}

// Close emits the end-of-span annotations and pops the context under the
// exclusion lock. It runs at most once; callers invoke it via defer so it
// executes on every exit path, a panicking handler included. The annotate
// callback is guarded separately so its failure cannot skip SERVER_SEND
// or the pop.
func (s *Session) Close(annotate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if annotate != nil {
		s.guarded(annotate)
	}
	s.guarded(func() {
		s.recorder.Record(trace.ServerSend(s.ctx))
		s.collector.Pop()
	})
	if s.metrics != nil {
		s.metrics.SpansClosed.Inc()
	}
}

// Context returns the session's trace context.
func (s *Session) Context() trace.TraceContext {
	return s.ctx
}

// guarded runs fn, catching any panic at the synchronized-section
// boundary so tracing failures never propagate to the request.
func (s *Session) guarded(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("tracing failure inside span section", zap.Any("panic", p))
		}
	}()
	fn()
}
