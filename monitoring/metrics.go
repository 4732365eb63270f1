package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the tracing layer's Prometheus metrics.
type Metrics struct {
	SpansOpened      prometheus.Counter
	SpansClosed      prometheus.Counter
	AnnotationsTotal *prometheus.CounterVec
	RecordFailures   prometheus.Counter
	RequestsSkipped  prometheus.Counter
}

// NewMetrics creates and registers the tracing metrics. A nil registerer
// uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SpansOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracing_spans_opened_total",
			Help: "Total number of server spans opened",
		}),
		SpansClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracing_spans_closed_total",
			Help: "Total number of server spans closed",
		}),
		AnnotationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tracing_annotations_total",
			Help: "Total number of annotations delivered to the collector",
		}, []string{"kind"}),
		RecordFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracing_record_failures_total",
			Help: "Total number of annotation deliveries the collector failed",
		}),
		RequestsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "tracing_requests_skipped_total",
			Help: "Total number of requests skipped by filter or routability policy",
		}),
	}
}
