/*
Package monitoring exposes Prometheus metrics for the tracing layer itself.

Counters cover spans opened and closed, annotations recorded by kind,
collector failures and requests skipped by policy. Metrics accept an
explicit Registerer so tests and multi-tenant processes can isolate
registries.
*/
package monitoring
