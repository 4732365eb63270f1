/*
Package trace defines the trace-context model and its derivation rules.

# Overview

A TraceContext places one request inside a distributed call tree: a 64-bit
trace id shared by every span of the tree, the span id of this node, the
optional span id of the caller, a sampling decision and an opaque debug
bitmask. The Resolver builds exactly one TraceContext per request, either by
inheriting the inbound propagation headers verbatim or by generating a fresh
root with a new sampling decision.

# Propagation

Contexts travel between services as request headers:

  - X-B3-TraceId       trace id (required for inheritance)
  - X-B3-ParentSpanId  caller's span id (required for inheritance)
  - X-B3-SpanId        this span's id (required for inheritance)
  - X-B3-Sampled       literal "true" to sample (required for inheritance)
  - X-B3-Flags         debug bitmask (independent, optional)

Inheritance is all-or-nothing: unless every required header is present the
request is treated as an untraced entry point and a new root context is
generated. Id encoding is a pluggable IDCodec; hex is the default.

# Usage

	resolver := trace.NewResolver(trace.ResolverConfig{
		Sampler: trace.NewRateSampler(0.1),
	})
	tc, inherited := resolver.Resolve(trace.HeaderCarrier(r.Header), false)
*/
package trace
