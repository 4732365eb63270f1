/*
Package collector provides span backends behind the trace.Collector surface.

# Overview

A collector receives annotation events from the interceptor, keeps the
active context per request scope, and ships completed spans somewhere
useful. Four adapters are provided:

  - Noop: discards everything
  - Log: structured zap emission of each annotation
  - HTTP: batches completed spans and POSTs them as JSON to a collector
  - Kafka: produces completed spans to a topic

The HTTP and Kafka adapters assemble SERVER_RECEIVE/SERVER_SEND pairs into
wire spans; unsampled events are dropped at this layer, so an unsampled
trace costs nothing downstream.

# Usage

	endpoint := collector.ResolveEndpoint("checkout", 8080)
	col := collector.NewLog(logger, endpoint)

Active-context storage is keyed by goroutine, so concurrent requests never
observe each other's spans. Push and its matching Pop must be paired per
request, which the interceptor guarantees.
*/
package collector
