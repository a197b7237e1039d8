package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/providers/observability"
)

// testSpan records event names and attributes for assertions.
type testSpan struct {
	events     []string
	attributes []observability.Attribute
}

func (s *testSpan) End() {}

func (s *testSpan) SetAttributes(attrs ...observability.Attribute) {
	s.attributes = append(s.attributes, attrs...)
}

func (s *testSpan) SetStatus(code observability.StatusCode, description string) {}

func (s *testSpan) RecordError(err error) {}

func (s *testSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.events = append(s.events, name)
}

// testCaller is a fixed Caller.
type testCaller struct {
	action action.Action
}

func (c testCaller) ID() string            { return "caller-1" }
func (c testCaller) Thought() string       { return "" }
func (c testCaller) Action() action.Action { return c.action }

func callWith(values map[string]any) testCaller {
	return testCaller{action: action.Action{Name: "Echo", Path: "echo", Input: map[string]any{"values": values}}}
}

type echoInput struct {
	Text  string `json:"text"`
	Times int    `json:"times,omitempty"`
}

type echoOutput struct {
	Echo string `json:"echo"`
}

func newEchoActivity(t *testing.T) *TypedActivity[echoInput, echoOutput] {
	t.Helper()
	a, err := NewActivity("echo", func(ctx context.Context, in echoInput) (echoOutput, error) {
		times := in.Times
		if times == 0 {
			times = 1
		}
		return echoOutput{Echo: strings.Repeat(in.Text, times)}, nil
	}, WithActivityDescription("Repeats text."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestNewActivity_Schema(t *testing.T) {
	a := newEchoActivity(t)

	if a.Path() != "echo" || a.Description() != "Repeats text." {
		t.Fatalf("unexpected metadata: %s %s", a.Path(), a.Description())
	}

	schema := a.InputSchema()
	values, ok := schema.Properties["values"]
	if !ok {
		t.Fatalf("input schema must wrap values: %s", schema)
	}
	if _, ok := values.Properties["text"]; !ok {
		t.Fatalf("values schema must describe the input type: %s", schema)
	}
}

func TestNewActivity_UnsupportedInput(t *testing.T) {
	_, err := NewActivity("bad", func(ctx context.Context, in chan int) (string, error) { return "", nil })
	if err == nil {
		t.Fatalf("expected error for unsupported input type")
	}
}

func TestMustActivity_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustActivity[string, string](nil, errors.New("boom"))
}

func TestTypedActivity_ValidateInput(t *testing.T) {
	a := newEchoActivity(t)

	tests := []struct {
		name    string
		input   map[string]any
		wantErr bool
	}{
		{name: "valid", input: map[string]any{"values": map[string]any{"text": "hi"}}},
		{name: "valid with optional", input: map[string]any{"values": map[string]any{"text": "hi", "times": 2}}},
		{name: "missing required", input: map[string]any{"values": map[string]any{}}, wantErr: true},
		{name: "wrong type", input: map[string]any{"values": map[string]any{"text": 3}}, wantErr: true},
		{name: "unknown key", input: map[string]any{"values": map[string]any{"text": "hi", "loud": true}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.ValidateInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTypedActivity_Execute(t *testing.T) {
	a := newEchoActivity(t)
	span := &testSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)

	out, err := a.Execute(ctx, callWith(map[string]any{"text": "ab", "times": 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind() != artifact.KindText || out.Value() != `{"echo":"abab"}` {
		t.Fatalf("unexpected output: %v", out)
	}

	if len(span.events) != 2 ||
		span.events[0] != observability.EventToolExecutionStart ||
		span.events[1] != observability.EventToolExecutionEnd {
		t.Fatalf("unexpected span events: %v", span.events)
	}
}

func TestTypedActivity_OutputForms(t *testing.T) {
	text, err := NewActivity("text", func(ctx context.Context, in echoInput) (string, error) {
		return in.Text, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := text.Execute(context.Background(), callWith(map[string]any{"text": "plain"}))
	if err != nil || out.Value() != "plain" || out.Kind() != artifact.KindText {
		t.Fatalf("string outputs become text artifacts, got %v, %v", out, err)
	}

	info, err := NewActivity("info", func(ctx context.Context, in echoInput) (artifact.Artifact, error) {
		return artifact.NewInfo(in.Text), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err = info.Execute(context.Background(), callWith(map[string]any{"text": "note"}))
	if err != nil || out.Kind() != artifact.KindInfo {
		t.Fatalf("artifacts must pass through, got %v, %v", out, err)
	}
}

func TestTypedActivity_FunctionError(t *testing.T) {
	a, err := NewActivity("fail", func(ctx context.Context, in echoInput) (string, error) {
		return "", errors.New("backend down")
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Execute(context.Background(), callWith(map[string]any{"text": "x"})); err == nil || err.Error() != "backend down" {
		t.Fatalf("expected function error, got %v", err)
	}
}

func TestToolkit(t *testing.T) {
	echo := newEchoActivity(t)
	tk := New("Echo", WithDescription("  Echo tool. "), WithActivities(echo), WithTaggedCalling(true))

	if tk.Name() != "Echo" || !tk.Tagged() {
		t.Fatalf("unexpected toolkit: %s tagged=%v", tk.Name(), tk.Tagged())
	}
	if len(tk.Activities()) != 1 {
		t.Fatalf("expected one activity")
	}

	if _, ok := FindActivity(tk, "echo"); !ok {
		t.Fatalf("expected to find echo activity")
	}
	if _, ok := FindActivity(tk, "missing"); ok {
		t.Fatalf("unexpected activity")
	}
	if _, ok := FindActivity(tk, ""); ok {
		t.Fatalf("empty path must not resolve")
	}
	if _, ok := FindActivity(nil, "echo"); ok {
		t.Fatalf("nil tool must not resolve")
	}
}

func TestManifest(t *testing.T) {
	tk := New("Echo", WithDescription("  Echo tool. "), WithActivities(newEchoActivity(t)))

	m := Manifest(tk)
	if m.Name != "Echo" || m.Description != "Echo tool." {
		t.Fatalf("unexpected manifest header: %+v", m)
	}
	if len(m.Activities) != 1 || m.Activities[0].Path != "echo" {
		t.Fatalf("unexpected activities: %+v", m.Activities)
	}
	if !strings.Contains(m.Activities[0].Schema, `"values"`) {
		t.Fatalf("schema should be rendered as JSON: %s", m.Activities[0].Schema)
	}
}
