package jsonschema

import "testing"

func mustValidator(t *testing.T, s *Schema) *Validator {
	t.Helper()
	v, err := Compile(s)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return v
}

func TestValidator_ActivityInput(t *testing.T) {
	values, err := GenerateJSONSchema[calculatorInput]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := mustValidator(t, WrapValues(values))

	tests := []struct {
		name     string
		instance map[string]any
		wantErr  bool
	}{
		{
			name:     "valid",
			instance: map[string]any{"values": map[string]any{"a": 1.0, "b": 2, "op": "add", "forced": "x"}},
		},
		{
			name:     "missing required",
			instance: map[string]any{"values": map[string]any{"a": 1.0, "op": "add", "forced": "x"}},
			wantErr:  true,
		},
		{
			name:     "wrong type",
			instance: map[string]any{"values": map[string]any{"a": "one", "b": 2, "op": "add", "forced": "x"}},
			wantErr:  true,
		},
		{
			name:     "enum violation",
			instance: map[string]any{"values": map[string]any{"a": 1, "b": 2, "op": "mul", "forced": "x"}},
			wantErr:  true,
		},
		{
			name:     "unknown value key",
			instance: map[string]any{"values": map[string]any{"a": 1, "b": 2, "op": "add", "forced": "x", "extra": true}},
			wantErr:  true,
		},
		{
			name:     "missing values",
			instance: map[string]any{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.instance)
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidator_Recursive(t *testing.T) {
	values, err := GenerateJSONSchema[node]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := mustValidator(t, WrapValues(values))

	ok := map[string]any{"values": map[string]any{
		"value":    "root",
		"children": []any{map[string]any{"value": "leaf"}},
	}}
	if err := v.Validate(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := map[string]any{"values": map[string]any{
		"value":    "root",
		"children": []any{map[string]any{"value": 3}},
	}}
	if err := v.Validate(bad); err == nil {
		t.Fatalf("expected nested type violation")
	}
}

func TestValidator_StructInstance(t *testing.T) {
	v := mustValidator(t, &Schema{
		Type:       "object",
		Properties: map[string]*Schema{"value": {Type: "string"}},
		Required:   []string{"value"},
	})

	if err := v.Validate(node{Value: "x"}); err != nil {
		t.Fatalf("struct instances should be normalised, got %v", err)
	}
}
