// Package otelobs bridges toolloop spans to OpenTelemetry.
//
// [New] returns an observability.Tracer that starts spans on an OpenTelemetry
// TracerProvider, so a controller run appears as a task.execute span with
// llm.request, subtask.run and tool.execution children.
package otelobs
