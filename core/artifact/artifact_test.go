package artifact

import "testing"

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
		kind     Kind
		isError  bool
	}{
		{name: "text", artifact: NewText("hello"), kind: KindText},
		{name: "error", artifact: NewError("boom"), kind: KindError, isError: true},
		{name: "info", artifact: NewInfo("No tool output"), kind: KindInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.artifact.Kind() != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, tt.artifact.Kind())
			}
			if tt.artifact.IsError() != tt.isError {
				t.Errorf("expected IsError %v", tt.isError)
			}
			if tt.artifact.ToText() != tt.artifact.Value() {
				t.Errorf("ToText should project the payload, got %q", tt.artifact.ToText())
			}
			if tt.artifact.IsZero() {
				t.Errorf("constructed artifact must not be zero")
			}
		})
	}
}

func TestZeroArtifact(t *testing.T) {
	var a Artifact
	if !a.IsZero() {
		t.Fatalf("expected zero artifact")
	}
	if a.Kind().String() != "none" {
		t.Fatalf("expected kind none, got %s", a.Kind())
	}
}

func TestString(t *testing.T) {
	if got := NewError("tool not found").String(); got != "error: tool not found" {
		t.Fatalf("unexpected String(): %q", got)
	}
}
