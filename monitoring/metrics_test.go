package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SpansOpened.Inc()
	m.SpansClosed.Inc()
	m.AnnotationsTotal.WithLabelValues("sr").Inc()
	m.AnnotationsTotal.WithLabelValues("ss").Inc()
	m.RecordFailures.Inc()
	m.RequestsSkipped.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SpansOpened))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AnnotationsTotal.WithLabelValues("sr")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordFailures))
}

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// Two instances may coexist as long as their registries differ.
	a := NewMetrics(prometheus.NewRegistry())
	b := NewMetrics(prometheus.NewRegistry())

	a.SpansOpened.Inc()
	assert.Equal(t, float64(0), testutil.ToFloat64(b.SpansOpened))
}
