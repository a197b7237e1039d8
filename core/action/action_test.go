package action

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
)

func TestError(t *testing.T) {
	a := Error("syntax error: boom")

	if !a.IsError() {
		t.Fatalf("expected error descriptor")
	}
	if !a.HasName() {
		t.Fatalf("error descriptor must carry the reserved name")
	}
	if a.Diagnostic() != "syntax error: boom" {
		t.Fatalf("unexpected diagnostic: %q", a.Diagnostic())
	}
	if a.Values() != nil {
		t.Fatalf("error descriptor has no values")
	}
}

func TestDiagnosticOnRegularAction(t *testing.T) {
	a := Action{Name: "MockTool", Path: "test"}
	if a.Diagnostic() != "" {
		t.Fatalf("expected empty diagnostic, got %q", a.Diagnostic())
	}
}

func TestValues(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  map[string]any
	}{
		{name: "absent input", input: nil, want: nil},
		{name: "values mapping", input: map[string]any{"values": map[string]any{"a": 1}}, want: map[string]any{"a": 1}},
		{name: "values not a mapping", input: map[string]any{"values": "x"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Action{Input: tt.input}.Values()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   map[string]any
	}{
		{
			name:   "full",
			action: Action{Name: "MockTool", Path: "test", Input: map[string]any{"values": map[string]any{"test": "value"}}},
			want: map[string]any{
				"name":  "MockTool",
				"path":  "test",
				"input": map[string]any{"values": map[string]any{"test": "value"}},
			},
		},
		{
			name:   "absent fields omitted",
			action: Action{Name: "MockTool"},
			want:   map[string]any{"name": "MockTool"},
		},
		{
			name:   "empty",
			action: Action{},
			want:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.action.ToJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("json mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToTagged(t *testing.T) {
	a := Action{
		Name:  "MockTool",
		Path:  "test",
		Input: map[string]any{"values": map[string]any{"test": "test\n\ninput\n\nwith\nnewlines"}},
	}

	out, err := a.ToTagged()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "<function_calls>\n<invoke>\n<tool_name>MockTool</tool_name>\n") {
		t.Fatalf("unexpected layout:\n%s", out)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(out); err != nil {
		t.Fatalf("output is not well-formed: %v", err)
	}
	if got := doc.FindElement(".//tool_name").Text(); got != "MockTool" {
		t.Errorf("expected tool_name MockTool, got %q", got)
	}
	if got := doc.FindElement(".//path").Text(); got != "test" {
		t.Errorf("expected path test, got %q", got)
	}
	params := doc.FindElement(".//parameters").ChildElements()
	if len(params) != 1 || params[0].Tag != "test" {
		t.Fatalf("unexpected parameters: %v", params)
	}
	if got := params[0].Text(); got != "test\n\ninput\n\nwith\nnewlines" {
		t.Errorf("newlines not preserved: %q", got)
	}
}

func TestToTagged_ValueForms(t *testing.T) {
	a := Action{
		Name: "MockTool",
		Path: "test",
		Input: map[string]any{"values": map[string]any{
			"count":  float64(2),
			"flag":   true,
			"nested": map[string]any{"a": "b"},
			"markup": "1 < 2 & 3",
		}},
	}

	out, err := a.ToTagged()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(out); err != nil {
		t.Fatalf("output is not well-formed: %v", err)
	}

	want := map[string]string{
		"count":  "2",
		"flag":   "true",
		"nested": `{"a":"b"}`,
		"markup": "1 < 2 & 3",
	}
	got := map[string]string{}
	for _, el := range doc.FindElement(".//parameters").ChildElements() {
		got[el.Tag] = el.Text()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestToTagged_InvalidParameterName(t *testing.T) {
	a := Action{Name: "MockTool", Path: "test", Input: map[string]any{"values": map[string]any{"not valid": "x"}}}
	if _, err := a.ToTagged(); err == nil {
		t.Fatalf("expected error for invalid element name")
	}
}

func TestRemoveNullValues(t *testing.T) {
	in := map[string]any{
		"keep": "x",
		"drop": nil,
		"nested": map[string]any{
			"a":    nil,
			"b":    1.0,
			"deep": map[string]any{"c": nil},
		},
		"list": []any{map[string]any{"x": nil, "y": "z"}, "plain"},
	}

	want := map[string]any{
		"keep": "x",
		"nested": map[string]any{
			"b":    1.0,
			"deep": map[string]any{},
		},
		"list": []any{map[string]any{"y": "z"}, "plain"},
	}

	if diff := cmp.Diff(want, RemoveNullValues(in)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if RemoveNullValues(nil) != nil {
		t.Fatalf("nil map should stay nil")
	}
}

func TestCheckDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]any
		wantErr bool
	}{
		{name: "valid without input", doc: map[string]any{"name": "MockTool", "path": "test"}},
		{name: "valid with input", doc: map[string]any{"name": "MockTool", "path": "test", "input": map[string]any{"values": map[string]any{"a": 1}}}},
		{name: "empty values allowed", doc: map[string]any{"name": "MockTool", "path": "test", "input": map[string]any{"values": map[string]any{}}}},
		{name: "missing name", doc: map[string]any{"path": "test"}, wantErr: true},
		{name: "missing path", doc: map[string]any{"name": "MockTool"}, wantErr: true},
		{name: "name not a string", doc: map[string]any{"name": 1.0, "path": "test"}, wantErr: true},
		{name: "unknown key", doc: map[string]any{"name": "MockTool", "path": "test", "extra": true}, wantErr: true},
		{name: "input not a mapping", doc: map[string]any{"name": "MockTool", "path": "test", "input": "x"}, wantErr: true},
		{name: "input without values", doc: map[string]any{"name": "MockTool", "path": "test", "input": map[string]any{}}, wantErr: true},
		{name: "input extra key", doc: map[string]any{"name": "MockTool", "path": "test", "input": map[string]any{"values": map[string]any{}, "x": 1}}, wantErr: true},
		{name: "values not a mapping", doc: map[string]any{"name": "MockTool", "path": "test", "input": map[string]any{"values": []any{}}}, wantErr: true},
		{name: "nil document", doc: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDocument(tt.doc)
			if tt.wantErr {
				if !errors.Is(err, ErrSchema) {
					t.Fatalf("expected ErrSchema, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckDocument_MissingKeyMessage(t *testing.T) {
	err := CheckDocument(map[string]any{"name": "MockTool"})
	if err == nil || !strings.Contains(err.Error(), "'path'") {
		t.Fatalf("expected message naming the missing key, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	if err := Check(Action{Name: "MockTool", Path: "test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Check(Action{Name: "MockTool"}); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for missing path, got %v", err)
	}
	if err := Check(Action{Name: "MockTool", Path: "test", Input: map[string]any{"values": "x"}}); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for bad values, got %v", err)
	}
}
