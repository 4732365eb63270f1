package collector

import (
	"go.uber.org/zap"

	"github.com/spanline/spanline/trace"
)

// Log emits every sampled annotation to a structured logger. It ships
// nothing anywhere and exists for development and as the default adapter.
type Log struct {
	scoped
	logger   *zap.Logger
	endpoint trace.Endpoint
	codec    trace.IDCodec
}

// NewLog creates a logging collector.
func NewLog(logger *zap.Logger, endpoint trace.Endpoint) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		scoped:   newScoped(),
		logger:   logger,
		endpoint: endpoint,
		codec:    trace.HexCodec{},
	}
}

func (l *Log) Record(ev trace.Event) error {
	if !ev.Context.Sampled {
		return nil
	}

	fields := []zap.Field{
		zap.String("trace_id", l.codec.Format(ev.Context.TraceID)),
		zap.String("span_id", l.codec.Format(ev.Context.SpanID)),
		zap.String("kind", ev.Kind.String()),
		zap.String("service", l.endpoint.ServiceName),
		zap.Time("at", ev.Time),
	}
	if ev.Context.HasParent {
		fields = append(fields, zap.String("parent_id", l.codec.Format(ev.Context.ParentID)))
	}
	if ev.Name != "" {
		fields = append(fields, zap.String("name", ev.Name))
	}
	if ev.Value != "" {
		fields = append(fields, zap.String("value", ev.Value))
	}

	l.logger.Info("annotation", fields...)
	return nil
}
