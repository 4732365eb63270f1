// Package spanline wires configuration, collector adapters, and the
// request interceptor into a ready-to-mount tracing stack.
//
// Minimal usage:
//
//	tracer, err := spanline.New(config.LoadOrDefault(), spanline.Params{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tracer.Close()
//	router.Use(tracer.Middleware())
package spanline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spanline/spanline/collector"
	"github.com/spanline/spanline/config"
	"github.com/spanline/spanline/interceptor"
	"github.com/spanline/spanline/logging"
	"github.com/spanline/spanline/monitoring"
	"github.com/spanline/spanline/trace"
)

// Params carries the optional pieces of the assembly. Zero value works.
type Params struct {
	// Logger overrides the logger built from cfg.Logging.
	Logger *zap.Logger
	// Metrics enables prometheus counters when non-nil.
	Metrics *monitoring.Metrics
	// Options is passed through to the interceptor.
	Options interceptor.Options
}

// Tracer bundles the interceptor with the collector lifecycle.
type Tracer struct {
	*interceptor.Interceptor
	collector trace.Collector
}

// New assembles a Tracer from cfg: endpoint resolution, the configured
// collector adapter, the sampling resolver, then the interceptor.
func New(cfg *config.Config, params Params) (*Tracer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := params.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			logger = zap.NewNop()
		}
	}

	endpoint := collector.ResolveEndpoint(cfg.Service.Name, cfg.Service.Port)

	col, err := newCollector(cfg.Collector, endpoint, logger)
	if err != nil {
		return nil, err
	}

	resolver := trace.NewResolver(trace.ResolverConfig{
		Sampler: trace.NewRateSampler(cfg.Sampling.Rate),
	})

	ic := interceptor.New(interceptor.Config{
		Collector: col,
		Resolver:  resolver,
		Endpoint:  endpoint,
		Logger:    logger,
		Metrics:   params.Metrics,
		Options:   params.Options,
	})

	return &Tracer{Interceptor: ic, collector: col}, nil
}

func newCollector(cfg config.CollectorConfig, endpoint trace.Endpoint, logger *zap.Logger) (trace.Collector, error) {
	switch cfg.Adapter {
	case config.AdapterNoop:
		return collector.Noop{}, nil
	case config.AdapterLog:
		return collector.NewLog(logger, endpoint), nil
	case config.AdapterHTTP:
		return collector.NewHTTP(collector.HTTPConfig{
			URL:           cfg.URL,
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.FlushInterval,
		}, endpoint, logger), nil
	case config.AdapterKafka:
		return collector.NewKafka(collector.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		}, endpoint, logger)
	default:
		return nil, fmt.Errorf("unknown trace adapter %q", cfg.Adapter)
	}
}

// Close flushes and stops the collector if it holds resources.
func (t *Tracer) Close() error {
	if c, ok := t.collector.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
