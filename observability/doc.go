// Package observability wires the library into OpenTelemetry: OTLP meter
// and tracer providers, a Metrics instrument set for pipeline stages
// (elements served, nested-pipeline loads, errors, checkpoint operations),
// and span helpers for checkpoint save/restore.
package observability
