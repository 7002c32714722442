// Package instrumentation provides OpenTelemetry-based observability for
// the deskmate application.
//
// Metrics are exported through the Prometheus exporter and served on a
// dedicated metrics port; traces are optionally exported over OTLP when an
// endpoint is configured.
//
// The Metrics type is nil-receiver and zero-value safe so call sites never
// need to guard against instrumentation being disabled.
package instrumentation
