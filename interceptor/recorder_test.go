package interceptor

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanline/spanline/monitoring"
	"github.com/spanline/spanline/trace"
)

func TestRecorderStampsEndpoint(t *testing.T) {
	col := newMockCollector()
	ep := trace.Endpoint{IPv4: "10.0.0.1", Port: 8080, ServiceName: "checkout"}
	rec := NewRecorder(col, ep, nil, nil)

	rec.Record(trace.ServerReceive(trace.TraceContext{TraceID: 1, SpanID: 1, Sampled: true}))

	events, _, _ := col.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, ep, events[0].Endpoint)
	assert.False(t, events[0].Time.IsZero())
}

func TestRecorderSwallowsErrors(t *testing.T) {
	col := newMockCollector()
	col.recordErr = errors.New("collector unreachable")
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	rec := NewRecorder(col, trace.Endpoint{}, nil, metrics)

	assert.NotPanics(t, func() {
		rec.Record(trace.ServerReceive(trace.TraceContext{TraceID: 1, SpanID: 1, Sampled: true}))
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RecordFailures))
}

func TestRecorderSwallowsPanics(t *testing.T) {
	col := newMockCollector()
	col.panicOnRecord = true
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	rec := NewRecorder(col, trace.Endpoint{}, nil, metrics)

	assert.NotPanics(t, func() {
		rec.Record(trace.ServerReceive(trace.TraceContext{TraceID: 1, SpanID: 1, Sampled: true}))
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RecordFailures))
}

func TestRecorderCountsDeliveries(t *testing.T) {
	col := newMockCollector()
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	rec := NewRecorder(col, trace.Endpoint{}, nil, metrics)

	tc := trace.TraceContext{TraceID: 1, SpanID: 1, Sampled: true}
	rec.Record(trace.ServerReceive(tc))
	rec.Record(trace.ServerSend(tc))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AnnotationsTotal.WithLabelValues("sr")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AnnotationsTotal.WithLabelValues("ss")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.RecordFailures))
}
