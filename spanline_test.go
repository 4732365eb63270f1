package spanline

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spanline/spanline/config"
	"github.com/spanline/spanline/trace"
)

func noopConfig() *config.Config {
	cfg := config.Default()
	cfg.Collector.Adapter = config.AdapterNoop
	return cfg
}

func TestNewNilConfigUsesDefaults(t *testing.T) {
	tracer, err := New(nil, Params{Logger: zap.NewNop()})
	require.NoError(t, err)
	defer tracer.Close()

	require.NotNil(t, tracer.Interceptor)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Collector.Adapter = "carrier-pigeon"

	_, err := New(cfg, Params{Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestNewAdapterSelection(t *testing.T) {
	for _, adapter := range []string{config.AdapterNoop, config.AdapterLog} {
		t.Run(adapter, func(t *testing.T) {
			cfg := config.Default()
			cfg.Collector.Adapter = adapter

			tracer, err := New(cfg, Params{Logger: zap.NewNop()})
			require.NoError(t, err)
			assert.NoError(t, tracer.Close())
		})
	}
}

func TestTracerTracesRoutedRequest(t *testing.T) {
	cfg := noopConfig()
	cfg.Sampling.Rate = 1

	tracer, err := New(cfg, Params{Logger: zap.NewNop()})
	require.NoError(t, err)
	defer tracer.Close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(tracer.Middleware())

	var tc trace.TraceContext
	var ok bool
	router.GET("/orders/:id", func(c *gin.Context) {
		tc, ok = trace.FromContext(c.Request.Context())
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/orders/7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, ok, "handler must see the trace context")
	assert.Equal(t, tc.TraceID, tc.SpanID)
	assert.True(t, tc.Sampled)
}

func TestTracerCloseIdempotentForStatelessCollector(t *testing.T) {
	tracer, err := New(noopConfig(), Params{Logger: zap.NewNop()})
	require.NoError(t, err)

	assert.NoError(t, tracer.Close())
	assert.NoError(t, tracer.Close())
}
