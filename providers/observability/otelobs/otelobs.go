package otelobs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/leofalp/toolloop/providers/observability"
)

// InstrumentationName identifies toolloop spans in OpenTelemetry backends.
const InstrumentationName = "github.com/leofalp/toolloop"

// Tracer implements observability.Tracer with an OpenTelemetry tracer.
type Tracer struct {
	tracer trace.Tracer
}

var _ observability.Tracer = (*Tracer)(nil)

// Option configures a Tracer.
type Option func(*options)

type options struct {
	provider trace.TracerProvider
}

// WithTracerProvider sets the provider spans are created from. The global
// provider from otel.GetTracerProvider is used otherwise.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// New creates a Tracer.
func New(opts ...Option) *Tracer {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.provider == nil {
		o.provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: o.provider.Tracer(InstrumentationName)}
}

// StartSpan starts an OpenTelemetry span. The returned context carries both
// the OpenTelemetry span and its observability.Span wrapper.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(convert(attrs)...))
	wrapped := &otelSpan{span: span}
	return observability.ContextWithSpan(ctx, wrapped), wrapped
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttributes(attrs ...observability.Attribute) {
	s.span.SetAttributes(convert(attrs)...)
}

func (s *otelSpan) SetStatus(code observability.StatusCode, description string) {
	switch code {
	case observability.StatusOK:
		s.span.SetStatus(codes.Ok, description)
	case observability.StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

func (s *otelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}

func (s *otelSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(convert(attrs)...))
}

// convert maps observability attributes onto typed OpenTelemetry attributes.
// Durations are recorded in seconds; unknown types use their fmt form.
func convert(attrs []observability.Attribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		switch v := attr.Value.(type) {
		case string:
			out = append(out, attribute.String(attr.Key, v))
		case bool:
			out = append(out, attribute.Bool(attr.Key, v))
		case int:
			out = append(out, attribute.Int(attr.Key, v))
		case int64:
			out = append(out, attribute.Int64(attr.Key, v))
		case float64:
			out = append(out, attribute.Float64(attr.Key, v))
		case time.Duration:
			out = append(out, attribute.Float64(attr.Key, v.Seconds()))
		case []string:
			out = append(out, attribute.StringSlice(attr.Key, v))
		default:
			out = append(out, attribute.String(attr.Key, fmt.Sprint(v)))
		}
	}
	return out
}
