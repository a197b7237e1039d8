package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDocument_Valid(t *testing.T) {
	doc, err := ParseDocument(`{"name": "MockTool", "path": "test", "input": {"values": {"test": "value"}}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"name":  "MockTool",
		"path":  "test",
		"input": map[string]any{"values": map[string]any{"test": "value"}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_RawNewlinesInStrings(t *testing.T) {
	content := "{\"name\": \"MockTool\",\n\"path\": \"test\",\n\n\"input\": {\"values\":\n{\"test\":\n\"test\n\ninput\n\nwith\nnewlines\"}}}"

	doc, err := ParseDocument(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values := doc["input"].(map[string]any)["values"].(map[string]any)
	if values["test"] != "test\n\ninput\n\nwith\nnewlines" {
		t.Fatalf("newlines not preserved: %q", values["test"])
	}
}

func TestParseDocument_Repaired(t *testing.T) {
	doc, err := ParseDocument(`{"name": "MockTool", "path": "test",}`)
	if err != nil {
		t.Fatalf("expected trailing comma to be repaired, got %v", err)
	}
	if doc["name"] != "MockTool" || doc["path"] != "test" {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestParseDocument_NotObject(t *testing.T) {
	_, err := ParseDocument(`[1, 2, 3]`)
	if !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestEscapeControlCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "outside strings untouched", input: "{\n\"a\": 1\n}", want: "{\n\"a\": 1\n}"},
		{name: "newline inside string", input: "{\"a\": \"x\ny\"}", want: `{"a": "x\ny"}`},
		{name: "tab inside string", input: "{\"a\": \"x\ty\"}", want: `{"a": "x\ty"}`},
		{name: "escaped quote keeps string open", input: "{\"a\": \"x\\\"\ny\"}", want: `{"a": "x\"\ny"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeControlCharacters(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseStringAs_Primitives(t *testing.T) {
	if v, err := ParseStringAs[int](" 42 "); err != nil || v != 42 {
		t.Errorf("int: got %v, %v", v, err)
	}
	if v, err := ParseStringAs[bool]("true"); err != nil || !v {
		t.Errorf("bool: got %v, %v", v, err)
	}
	if v, err := ParseStringAs[float64]("3.5"); err != nil || v != 3.5 {
		t.Errorf("float: got %v, %v", v, err)
	}
	if v, err := ParseStringAs[string]("as is"); err != nil || v != "as is" {
		t.Errorf("string: got %v, %v", v, err)
	}
	if _, err := ParseStringAs[int]("nope"); err == nil {
		t.Errorf("expected error for invalid int")
	}
}

func TestParseStringAs_Struct(t *testing.T) {
	type input struct {
		A  float64 `json:"A"`
		Op string  `json:"Op"`
	}

	tests := []struct {
		name    string
		content string
	}{
		{name: "valid", content: `{"A": 2, "Op": "add"}`},
		{name: "repaired", content: `{A: 2, Op: 'add',}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringAs[input](tt.content)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.A != 2 || got.Op != "add" {
				t.Fatalf("unexpected value: %#v", got)
			}
		})
	}
}
