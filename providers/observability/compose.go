package observability

import "context"

// Compose builds a Provider from independent parts, typically an otelobs
// tracer, a promobs metrics registry and a slogobs logger. Nil parts are
// replaced with no-op implementations.
func Compose(tracer Tracer, metrics Metrics, logger Logger) Provider {
	if tracer == nil {
		tracer = nopTracer{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return composite{Tracer: tracer, Metrics: metrics, Logger: logger}
}

type composite struct {
	Tracer
	Metrics
	Logger
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) End()                          {}
func (nopSpan) SetAttributes(...Attribute)    {}
func (nopSpan) SetStatus(StatusCode, string)  {}
func (nopSpan) RecordError(error)             {}
func (nopSpan) AddEvent(string, ...Attribute) {}

type nopMetrics struct{}

func (nopMetrics) Counter(string) Counter     { return nopInstrument{} }
func (nopMetrics) Histogram(string) Histogram { return nopInstrument{} }

type nopInstrument struct{}

func (nopInstrument) Add(context.Context, int64, ...Attribute)      {}
func (nopInstrument) Record(context.Context, float64, ...Attribute) {}

type nopLogger struct{}

func (nopLogger) Trace(context.Context, string, ...Attribute) {}
func (nopLogger) Debug(context.Context, string, ...Attribute) {}
func (nopLogger) Info(context.Context, string, ...Attribute)  {}
func (nopLogger) Warn(context.Context, string, ...Attribute)  {}
func (nopLogger) Error(context.Context, string, ...Attribute) {}
