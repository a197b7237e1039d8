// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout toolloop.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics]
// and [Logger] into a single injectable dependency. A nil Provider disables
// instrumentation entirely; [Compose] assembles one from independent adapters
// (see the slogobs, promobs and otelobs subpackages).
//
// Spans and observers travel through a [context.Context] with
// [ContextWithSpan] and [ContextWithObserver]; they are retrieved with
// [SpanFromContext] and [ObserverFromContext].
//
// semconv.go holds the attribute keys and span, event and metric names used
// when recording observations.
package observability
