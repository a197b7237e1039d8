package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsv "github.com/santhosh-tekuri/jsonschema/v6"
)

const resourceName = "schema.json"

// Validator checks instances against a compiled schema. It is safe for
// concurrent use.
type Validator struct {
	compiled *jsv.Schema
}

// Compile compiles s once so it can validate many instances.
func Compile(s *Schema) (*Validator, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	doc, err := jsv.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}

	c := jsv.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks instance, typically a map[string]any decoded from model
// output. Go values are normalised through JSON first, so structs and typed
// numbers are accepted too.
func (v *Validator) Validate(instance any) error {
	data, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("failed to marshal instance: %w", err)
	}
	normalized, err := jsv.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode instance: %w", err)
	}
	return v.compiled.Validate(normalized)
}
