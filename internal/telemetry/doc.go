// Package telemetry records build metrics with Prometheus and traces build
// phases with OpenTelemetry.
//
// A build is a one-shot process, so metrics are kept in a private registry
// and written out once with WriteTextfile, in the format read by the
// node_exporter textfile collector.
//
// Spans use the global OpenTelemetry tracer provider unless one is given.
// With no provider configured they are no-ops.
package telemetry
