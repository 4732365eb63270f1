package trace

import (
	"strconv"

	"github.com/spanline/spanline/internal/shared/id"
)

// ResolverConfig configures context derivation. Zero fields fall back to
// sane defaults: hex ids, never-sample, shared id generator, no flags.
type ResolverConfig struct {
	Sampler      Sampler
	Codec        IDCodec
	IDs          *id.Generator
	DefaultFlags int64
}

// Resolver derives exactly one TraceContext per request, either inherited
// from propagation headers or generated fresh with a sampling decision.
type Resolver struct {
	sampler      Sampler
	codec        IDCodec
	ids          *id.Generator
	defaultFlags int64
}

// NewResolver creates a resolver from cfg.
func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{
		sampler:      cfg.Sampler,
		codec:        cfg.Codec,
		ids:          cfg.IDs,
		defaultFlags: cfg.DefaultFlags,
	}
	if r.sampler == nil {
		r.sampler = Never
	}
	if r.codec == nil {
		r.codec = HexCodec{}
	}
	if r.ids == nil {
		r.ids = id.Default()
	}
	return r
}

// Resolve produces the TraceContext for one request. The returned bool
// reports whether the context was inherited from the carrier.
//
// Inheritance requires all four propagation headers to be present; an
// inherited context is used verbatim, with no re-sampling. Otherwise a
// fresh root is generated: identical trace and span ids, no parent, and
// sampled when forceSample is set or the sampler says so. The flags header
// is read independently of which path was taken and degrades silently to
// the configured default.
func (r *Resolver) Resolve(c Carrier, forceSample bool) (TraceContext, bool) {
	tc, inherited := r.inherit(c)
	if !inherited {
		span := ID(r.ids.Generate())
		tc = TraceContext{
			TraceID: span,
			SpanID:  span,
			Sampled: forceSample || r.sampler.Sample(),
		}
	}
	tc.Flags = r.flags(c)
	return tc, inherited
}

func (r *Resolver) inherit(c Carrier) (TraceContext, bool) {
	traceID, okTrace := c.Lookup(TraceIDHeader)
	parentID, okParent := c.Lookup(ParentSpanIDHeader)
	spanID, okSpan := c.Lookup(SpanIDHeader)
	sampled, okSampled := c.Lookup(SampledHeader)
	if !okTrace || !okParent || !okSpan || !okSampled {
		return TraceContext{}, false
	}

	tid, err := r.codec.Parse(traceID)
	if err != nil {
		return TraceContext{}, false
	}
	sid, err := r.codec.Parse(spanID)
	if err != nil {
		return TraceContext{}, false
	}

	tc := TraceContext{
		TraceID: tid,
		SpanID:  sid,
		Sampled: sampled == "true",
	}
	if parentID != "" {
		if pid, err := r.codec.Parse(parentID); err == nil {
			tc.ParentID = pid
			tc.HasParent = true
		}
	}
	return tc, true
}

func (r *Resolver) flags(c Carrier) int64 {
	raw, ok := c.Lookup(FlagsHeader)
	if !ok {
		return r.defaultFlags
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return r.defaultFlags
	}
	return v
}
