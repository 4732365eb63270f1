package collector

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spanline/spanline/trace"
)

// Wire model for shipped spans. Timestamps and durations are microseconds.
type wireSpan struct {
	TraceID           string                 `json:"traceId"`
	Name              string                 `json:"name"`
	ID                string                 `json:"id"`
	ParentID          string                 `json:"parentId,omitempty"`
	Debug             bool                   `json:"debug,omitempty"`
	Timestamp         int64                  `json:"timestamp,omitempty"`
	Duration          int64                  `json:"duration,omitempty"`
	Annotations       []wireAnnotation       `json:"annotations"`
	BinaryAnnotations []wireBinaryAnnotation `json:"binaryAnnotations"`
}

type wireAnnotation struct {
	Timestamp int64        `json:"timestamp"`
	Value     string       `json:"value"`
	Endpoint  wireEndpoint `json:"endpoint"`
}

type wireBinaryAnnotation struct {
	Key      string       `json:"key"`
	Value    string       `json:"value"`
	Endpoint wireEndpoint `json:"endpoint"`
}

type wireEndpoint struct {
	IPv4        string `json:"ipv4"`
	Port        int64  `json:"port"`
	ServiceName string `json:"serviceName"`
}

func toWireEndpoint(ep trace.Endpoint) wireEndpoint {
	return wireEndpoint{
		IPv4:        ep.IPv4,
		Port:        int64(ep.Port),
		ServiceName: ep.ServiceName,
	}
}

type spanKey struct {
	trace, span trace.ID
}

// spanBuilder folds annotation events into wire spans. A span opens on
// the first event observed for its key, accumulates annotations, and
// completes on SERVER_SEND. Request metadata for fresh roots arrives
// before SERVER_RECEIVE, so opening cannot wait for it.
type spanBuilder struct {
	mu    sync.Mutex
	codec trace.IDCodec
	open  map[spanKey]*wireSpan
}

func newSpanBuilder(codec trace.IDCodec) *spanBuilder {
	if codec == nil {
		codec = trace.HexCodec{}
	}
	return &spanBuilder{codec: codec, open: make(map[spanKey]*wireSpan)}
}

// observe folds one event in. It returns the completed span on
// SERVER_SEND and nil otherwise. SERVER_SEND for a span that was never
// opened is an error the caller may surface.
func (b *spanBuilder) observe(ev trace.Event) (*wireSpan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := spanKey{trace: ev.Context.TraceID, span: ev.Context.SpanID}
	ts := ev.Time.UnixMicro()
	ep := toWireEndpoint(ev.Endpoint)

	if ev.Kind == trace.KindServerSend {
		span, ok := b.open[key]
		if !ok {
			return nil, fmt.Errorf("no open span for trace %s span %s",
				b.codec.Format(ev.Context.TraceID), b.codec.Format(ev.Context.SpanID))
		}
		span.Annotations = append(span.Annotations, wireAnnotation{Timestamp: ts, Value: "ss", Endpoint: ep})
		if span.Timestamp > 0 {
			if d := ts - span.Timestamp; d > 0 {
				span.Duration = d
			}
		}
		delete(b.open, key)
		return span, nil
	}

	span, ok := b.open[key]
	if !ok {
		span = &wireSpan{
			TraceID:           b.codec.Format(ev.Context.TraceID),
			Name:              "unknown",
			ID:                b.codec.Format(ev.Context.SpanID),
			Debug:             ev.Context.Debug(),
			Annotations:       []wireAnnotation{},
			BinaryAnnotations: []wireBinaryAnnotation{},
		}
		if ev.Context.HasParent {
			span.ParentID = b.codec.Format(ev.Context.ParentID)
		}
		b.open[key] = span
	}

	switch ev.Kind {
	case trace.KindServerReceive:
		span.Timestamp = ts
		span.Annotations = append(span.Annotations, wireAnnotation{Timestamp: ts, Value: "sr", Endpoint: ep})
	case trace.KindCustom:
		span.Annotations = append(span.Annotations, wireAnnotation{Timestamp: ts, Value: ev.Name, Endpoint: ep})
	case trace.KindBinary:
		span.BinaryAnnotations = append(span.BinaryAnnotations, wireBinaryAnnotation{Key: ev.Name, Value: ev.Value, Endpoint: ep})
		if ev.Name == "http.method" {
			span.Name = strings.ToLower(ev.Value)
		}
	}
	return nil, nil
}

// openSpans reports how many spans are started but not yet completed.
func (b *spanBuilder) openSpans() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.open)
}

// flushInterval and batch sizing defaults shared by shipping adapters.
const (
	defaultBatchSize     = 100
	defaultFlushInterval = time.Second
	defaultBuffer        = 1000
)
