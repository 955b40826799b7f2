// Package observability exposes Prometheus instrumentation for transition
// attempts. The collector is opt-in; a nil collector records nothing.
package observability
