package collector

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/spanline/spanline/trace"
)

// HTTPConfig configures the JSON/HTTP shipping adapter.
type HTTPConfig struct {
	// URL of the collector's span intake endpoint.
	URL string
	// BatchSize triggers a flush once this many spans are pending.
	BatchSize int
	// FlushInterval triggers a flush on a timer regardless of batch size.
	FlushInterval time.Duration
	// Timeout bounds one POST to the collector.
	Timeout time.Duration
	// Codec formats ids on the wire. Hex when nil.
	Codec trace.IDCodec
}

// HTTP assembles completed spans and POSTs them to a collector in JSON
// batches. Completed spans are buffered on a channel; when the buffer is
// full spans are dropped rather than blocking the request path.
type HTTP struct {
	scoped
	cfg      HTTPConfig
	endpoint trace.Endpoint
	builder  *spanBuilder
	client   *resty.Client
	logger   *zap.Logger
	spans    chan *wireSpan
	done     chan struct{}
	stopped  chan struct{}
}

// NewHTTP creates the adapter and starts its background shipper.
func NewHTTP(cfg HTTPConfig, endpoint trace.Endpoint, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	client.SetTransport(retryClient.HTTPClient.Transport)

	h := &HTTP{
		scoped:   newScoped(),
		cfg:      cfg,
		endpoint: endpoint,
		builder:  newSpanBuilder(cfg.Codec),
		client:   client,
		logger:   logger,
		spans:    make(chan *wireSpan, defaultBuffer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go h.ship()
	return h
}

func (h *HTTP) Record(ev trace.Event) error {
	if !ev.Context.Sampled {
		return nil
	}

	span, err := h.builder.observe(ev)
	if err != nil {
		return err
	}
	if span == nil {
		return nil
	}

	select {
	case h.spans <- span:
	default:
		h.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", span.TraceID),
			zap.String("span_id", span.ID),
		)
	}
	return nil
}

// ship batches completed spans and flushes on size or interval.
func (h *HTTP) ship() {
	defer close(h.stopped)

	ticker := time.NewTicker(h.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*wireSpan, 0, h.cfg.BatchSize)
	for {
		select {
		case span := <-h.spans:
			batch = append(batch, span)
			if len(batch) >= h.cfg.BatchSize {
				h.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				h.flush(batch)
				batch = batch[:0]
			}
		case <-h.done:
			for {
				select {
				case span := <-h.spans:
					batch = append(batch, span)
				default:
					if len(batch) > 0 {
						h.flush(batch)
					}
					return
				}
			}
		}
	}
}

func (h *HTTP) flush(batch []*wireSpan) {
	body, err := sonic.Marshal(batch)
	if err != nil {
		h.logger.Error("failed to encode span batch", zap.Error(err), zap.Int("spans", len(batch)))
		return
	}

	resp, err := h.client.R().SetBody(body).Post(h.cfg.URL)
	if err != nil {
		h.logger.Warn("failed to ship span batch", zap.Error(err), zap.Int("spans", len(batch)))
		return
	}
	if resp.IsError() {
		h.logger.Warn("collector rejected span batch",
			zap.Int("status", resp.StatusCode()),
			zap.Int("spans", len(batch)),
		)
	}
}

// Close flushes pending spans and stops the shipper.
func (h *HTTP) Close() error {
	select {
	case <-h.done:
		return fmt.Errorf("collector already closed")
	default:
	}
	close(h.done)
	<-h.stopped
	return nil
}
