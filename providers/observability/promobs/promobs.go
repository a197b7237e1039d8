package promobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leofalp/toolloop/providers/observability"
)

// DefaultLabels are the attribute keys promoted to Prometheus labels when no
// [WithLabels] option is given.
var DefaultLabels = []string{
	observability.AttrToolName,
	observability.AttrToolOutcome,
	observability.AttrTaskState,
}

// Metrics implements observability.Metrics on a Prometheus registry. Every
// instrument carries the same label set; attributes outside it are dropped
// and missing ones are recorded as empty strings.
type Metrics struct {
	registerer prometheus.Registerer
	labels     []string
	buckets    []float64

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

var _ observability.Metrics = (*Metrics)(nil)

// Option configures a Metrics instance.
type Option func(*Metrics)

// WithLabels sets the attribute keys promoted to labels.
func WithLabels(keys ...string) Option {
	return func(m *Metrics) {
		m.labels = append([]string(nil), keys...)
	}
}

// WithBuckets sets the histogram buckets. Durations are recorded in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(m *Metrics) {
		m.buckets = append([]float64(nil), buckets...)
	}
}

// New creates a Metrics instance registering its collectors on registerer.
// A nil registerer uses prometheus.DefaultRegisterer.
func New(registerer prometheus.Registerer, opts ...Option) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		registerer: registerer,
		labels:     DefaultLabels,
		buckets:    prometheus.DefBuckets,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Counter returns the counter registered under the sanitized name.
func (m *Metrics) Counter(name string) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, ok := m.counters[name]; ok {
		return counter{vec: vec, labels: m.labels}
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricName(name),
		Help: fmt.Sprintf("toolloop counter %s", name),
	}, labelNames(m.labels))
	vec = register(m.registerer, vec)
	m.counters[name] = vec
	return counter{vec: vec, labels: m.labels}
}

// Histogram returns the histogram registered under the sanitized name.
func (m *Metrics) Histogram(name string) observability.Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vec, ok := m.histograms[name]; ok {
		return histogram{vec: vec, labels: m.labels}
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricName(name),
		Help:    fmt.Sprintf("toolloop histogram %s", name),
		Buckets: m.buckets,
	}, labelNames(m.labels))
	vec = register(m.registerer, vec)
	m.histograms[name] = vec
	return histogram{vec: vec, labels: m.labels}
}

// register registers c, reusing the existing collector when an identical one
// is already registered. Registration failures leave c unregistered but
// usable.
func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	err := registerer.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}
	return c
}

type counter struct {
	vec    *prometheus.CounterVec
	labels []string
}

func (c counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		return
	}
	c.vec.WithLabelValues(labelValues(c.labels, attrs)...).Add(float64(value))
}

type histogram struct {
	vec    *prometheus.HistogramVec
	labels []string
}

func (h histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.vec.WithLabelValues(labelValues(h.labels, attrs)...).Observe(value)
}

// MetricName converts a dotted metric name into a valid Prometheus name.
func MetricName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func labelNames(keys []string) []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = strings.ReplaceAll(MetricName(k), ":", "_")
	}
	return names
}

func labelValues(keys []string, attrs []observability.Attribute) []string {
	values := make([]string, len(keys))
	for i, k := range keys {
		for _, attr := range attrs {
			if attr.Key == k {
				values[i] = fmt.Sprint(attr.Value)
			}
		}
	}
	return values
}
