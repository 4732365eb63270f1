package interceptor

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spanline/spanline/monitoring"
	"github.com/spanline/spanline/trace"
)

// Options carries the optional policy callbacks. A nil callback means
// "no-op", never an error.
type Options struct {
	// Filter decides whether a request is traced at all. Returning false
	// skips tracing entirely; the handler still runs.
	Filter func(r *http.Request) bool
	// Whitelist forces the sampling decision for matching requests,
	// independent of the configured rate.
	Whitelist func(r *http.Request) bool
	// Annotate runs inside the closing critical section with the
	// handler's result.
	Annotate func(tc trace.TraceContext, r *http.Request, status int, header http.Header)
	// Routable reports whether the host framework matched the request to
	// a route. Unroutable requests are not traced. The gin middleware
	// defaults to its own route table when Routable is nil.
	Routable func(r *http.Request) bool

	// MethodFilter and MethodWhitelist are the gRPC counterparts of
	// Filter and Whitelist, keyed by full method name.
	MethodFilter    func(fullMethod string) bool
	MethodWhitelist func(fullMethod string) bool
	// AnnotateRPC runs inside the closing critical section with the
	// handler's error, if any.
	AnnotateRPC func(tc trace.TraceContext, fullMethod string, err error)
}

// Config assembles an Interceptor.
type Config struct {
	Collector trace.Collector
	Resolver  *trace.Resolver
	Endpoint  trace.Endpoint
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics // optional
	Options   Options
}

// Interceptor applies tracing policy around a downstream handler. It owns
// the collector reference and the process-wide exclusion lock for the
// process lifetime; sessions borrow both per call.
type Interceptor struct {
	mu        sync.Mutex
	collector trace.Collector
	resolver  *trace.Resolver
	endpoint  trace.Endpoint
	recorder  *Recorder
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	opts      Options
}

// New creates an interceptor from cfg.
func New(cfg Config) *Interceptor {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = trace.NewResolver(trace.ResolverConfig{})
	}
	return &Interceptor{
		collector: cfg.Collector,
		resolver:  resolver,
		endpoint:  cfg.Endpoint,
		recorder:  NewRecorder(cfg.Collector, cfg.Endpoint, logger, cfg.Metrics),
		logger:    logger,
		metrics:   cfg.Metrics,
		opts:      cfg.Options,
	}
}

func (i *Interceptor) newSession(tc trace.TraceContext, inherited, forced bool) *Session {
	return &Session{
		mu:        &i.mu,
		recorder:  i.recorder,
		collector: i.collector,
		logger:    i.logger,
		metrics:   i.metrics,
		ctx:       tc,
		inherited: inherited,
		forced:    forced,
	}
}

// shouldTrace applies the filter and routability policy.
func (i *Interceptor) shouldTrace(r *http.Request, routable bool) bool {
	if !routable {
		i.skip()
		return false
	}
	if i.opts.Filter != nil && !i.opts.Filter(r) {
		i.skip()
		return false
	}
	return true
}

func (i *Interceptor) skip() {
	if i.metrics != nil {
		i.metrics.RequestsSkipped.Inc()
	}
}

// Middleware returns a gin middleware tracing every routed request.
func (i *Interceptor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		routable := c.FullPath() != ""
		if i.opts.Routable != nil {
			routable = i.opts.Routable(c.Request)
		}
		if !i.shouldTrace(c.Request, routable) {
			c.Next()
			return
		}

		forced := i.opts.Whitelist != nil && i.opts.Whitelist(c.Request)
		tc, inherited := i.resolver.Resolve(trace.HeaderCarrier(c.Request.Header), forced)

		req := c.Request
		c.Request = req.WithContext(trace.NewContext(req.Context(), tc))

		sess := i.newSession(tc, inherited, forced)
		sess.Open(req.Method, req.URL.RequestURI())
		defer sess.Close(func() {
			if i.opts.Annotate != nil {
				i.opts.Annotate(tc, req, c.Writer.Status(), c.Writer.Header())
			}
		})

		c.Next()
	}
}

// Handler wraps a plain http.Handler. Routability comes from the Routable
// option; with no option every request is considered routable.
func (i *Interceptor) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		routable := i.opts.Routable == nil || i.opts.Routable(r)
		if !i.shouldTrace(r, routable) {
			next.ServeHTTP(w, r)
			return
		}

		forced := i.opts.Whitelist != nil && i.opts.Whitelist(r)
		tc, inherited := i.resolver.Resolve(trace.HeaderCarrier(r.Header), forced)

		r = r.WithContext(trace.NewContext(r.Context(), tc))
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		sess := i.newSession(tc, inherited, forced)
		sess.Open(r.Method, r.URL.RequestURI())
		defer sess.Close(func() {
			if i.opts.Annotate != nil {
				i.opts.Annotate(tc, r, sw.status, sw.Header())
			}
		})

		next.ServeHTTP(sw, r)
	})
}

// statusWriter captures the status code written by the handler so the
// closing annotate callback can observe it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
