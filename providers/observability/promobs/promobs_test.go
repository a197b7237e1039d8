package promobs

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/leofalp/toolloop/providers/observability"
)

func TestMetricName(t *testing.T) {
	tests := map[string]string{
		"toolloop.tool.execution.count": "toolloop_tool_execution_count",
		"already_valid":                 "already_valid",
		"9lives":                        "_lives",
		"a-b c":                         "a_b_c",
	}
	for in, want := range tests {
		if got := MetricName(in); got != want {
			t.Errorf("MetricName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	ctx := context.Background()

	c := m.Counter(observability.MetricToolExecutionCount)
	c.Add(ctx, 2,
		observability.String(observability.AttrToolName, "Calculator"),
		observability.String(observability.AttrToolOutcome, "ok"),
		observability.String("ignored", "x"),
	)
	m.Counter(observability.MetricToolExecutionCount).Add(ctx, 1,
		observability.String(observability.AttrToolName, "Calculator"),
		observability.String(observability.AttrToolOutcome, "ok"),
	)
	c.Add(ctx, -5, observability.String(observability.AttrToolName, "Calculator"))

	vec := m.counters[observability.MetricToolExecutionCount]
	if got := testutil.ToFloat64(vec.WithLabelValues("Calculator", "ok", "")); got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if got := testutil.CollectAndCount(registry, "toolloop_tool_execution_count"); got != 1 {
		t.Fatalf("expected a single series, got %d", got)
	}
}

func TestHistogram(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry, WithLabels(observability.AttrToolName), WithBuckets(0.1, 1))

	h := m.Histogram(observability.MetricToolExecutionDuration)
	h.Record(context.Background(), 0.05, observability.String(observability.AttrToolName, "Calculator"))
	h.Record(context.Background(), 0.5, observability.String(observability.AttrToolName, "Calculator"))

	if got := testutil.CollectAndCount(registry, "toolloop_tool_execution_duration"); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 1 {
		t.Fatalf("expected one family, got %d", len(families))
	}
	if got := families[0].GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected 2 samples, got %d", got)
	}
}

func TestSharedRegistryReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	ctx := context.Background()

	New(registry).Counter(observability.MetricTaskRunCount).Add(ctx, 1)
	New(registry).Counter(observability.MetricTaskRunCount).Add(ctx, 1)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if got := families[0].GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected both instances to share the counter, got %v", got)
	}
}
