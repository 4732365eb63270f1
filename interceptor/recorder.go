package interceptor

import (
	"time"

	"go.uber.org/zap"

	"github.com/spanline/spanline/monitoring"
	"github.com/spanline/spanline/trace"
)

// Recorder delivers annotations to the collector without ever letting a
// tracing failure reach the request path. Errors and panics raised by the
// collector are logged and discarded.
type Recorder struct {
	collector trace.Collector
	endpoint  trace.Endpoint
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// NewRecorder creates a best-effort recorder. Metrics may be nil.
func NewRecorder(collector trace.Collector, endpoint trace.Endpoint, logger *zap.Logger, metrics *monitoring.Metrics) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		collector: collector,
		endpoint:  endpoint,
		logger:    logger,
		metrics:   metrics,
	}
}

// Record stamps the process endpoint onto ev and hands it to the
// collector. It never raises.
func (r *Recorder) Record(ev trace.Event) {
	defer func() {
		if p := recover(); p != nil {
			if r.metrics != nil {
				r.metrics.RecordFailures.Inc()
			}
			r.logger.Error("collector panicked while recording annotation",
				zap.Any("panic", p),
				zap.String("kind", ev.Kind.String()),
			)
		}
	}()

	ev.Endpoint = r.endpoint
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	if err := r.collector.Record(ev); err != nil {
		if r.metrics != nil {
			r.metrics.RecordFailures.Inc()
		}
		r.logger.Warn("failed to record annotation",
			zap.Error(err),
			zap.String("kind", ev.Kind.String()),
		)
		return
	}
	if r.metrics != nil {
		r.metrics.AnnotationsTotal.WithLabelValues(ev.Kind.String()).Inc()
	}
}
