/*
Package interceptor wraps request handlers with span lifecycle management.

# Overview

For every inbound request the interceptor applies filter and whitelist
policy, derives or inherits a trace context, opens a server span, invokes
the downstream handler, and closes the span. The close sequence (annotate
callback, SERVER_SEND, context pop) runs on every exit path, including a
panicking handler, and the handler's outcome is propagated unchanged.

Tracing is best-effort by policy: no collector failure, however low-level,
may alter the outcome or latency profile of the request being traced beyond
the narrow critical sections described below.

# Concurrency

Collector state is serialized by one process-wide mutex, held only while
opening and closing a span, never across the downstream handler. Concurrent
requests are therefore never serialized on handler latency.

# Usage

	ic := interceptor.New(interceptor.Config{
		Collector: col,
		Resolver:  resolver,
		Endpoint:  endpoint,
		Logger:    logger,
	})

	router.Use(ic.Middleware())              // gin
	mux = ic.Handler(mux)                    // net/http
	grpc.NewServer(grpc.UnaryInterceptor(ic.UnaryInterceptor()))
*/
package interceptor
