package action

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// descriptor is the typed view of an action document that the structural
// check validates with struct tags.
type descriptor struct {
	Name  string           `validate:"required"`
	Path  string           `validate:"required"`
	Input *descriptorInput `validate:"omitempty"`
}

type descriptorInput struct {
	Values map[string]any `validate:"required"`
}

// CheckDocument verifies that doc has the shape of an action descriptor:
// string "name" and "path", plus an optional "input" mapping whose only key is
// "values", itself a mapping. Any other key is rejected.
//
// Violations are returned wrapped in [ErrSchema].
func CheckDocument(doc map[string]any) error {
	if doc == nil {
		return fmt.Errorf("%w: document is empty", ErrSchema)
	}

	var unknown []string
	for key := range doc {
		switch key {
		case "name", "path", "input":
		default:
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: wrong keys %s in %s", ErrSchema, quoteAll(unknown), describe(doc))
	}

	var d descriptor
	if raw, ok := doc["name"]; ok {
		name, isString := raw.(string)
		if !isString {
			return fmt.Errorf("%w: key 'name' should be a string, got %T", ErrSchema, raw)
		}
		d.Name = name
	}
	if raw, ok := doc["path"]; ok {
		path, isString := raw.(string)
		if !isString {
			return fmt.Errorf("%w: key 'path' should be a string, got %T", ErrSchema, raw)
		}
		d.Path = path
	}
	if raw, ok := doc["input"]; ok {
		input, err := checkInput(raw)
		if err != nil {
			return err
		}
		d.Input = input
	}

	return checkDescriptor(d)
}

// Check runs the structural check on an already built action.
func Check(a Action) error {
	d := descriptor{Name: a.Name, Path: a.Path}
	if a.Input != nil {
		input, err := checkInput(a.Input)
		if err != nil {
			return err
		}
		d.Input = input
	}
	return checkDescriptor(d)
}

func checkInput(raw any) (*descriptorInput, error) {
	input, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: key 'input' should be an object, got %T", ErrSchema, raw)
	}
	for key := range input {
		if key != "values" {
			return nil, fmt.Errorf("%w: wrong key '%s' in 'input'", ErrSchema, key)
		}
	}
	rawValues, ok := input["values"]
	if !ok {
		return nil, fmt.Errorf("%w: missing key 'values' in 'input'", ErrSchema)
	}
	values, ok := rawValues.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: key 'values' should be an object, got %T", ErrSchema, rawValues)
	}
	return &descriptorInput{Values: values}, nil
}

func checkDescriptor(d descriptor) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	missing := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		missing = append(missing, fieldKey(fe.Namespace()))
	}
	return fmt.Errorf("%w: missing keys %s", ErrSchema, quoteAll(missing))
}

// fieldKey maps a validator namespace such as "descriptor.Input.Values" back to
// the document key path "input.values".
func fieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}

func quoteAll(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "'" + k + "'"
	}
	return strings.Join(quoted, ", ")
}

func describe(doc map[string]any) string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "{" + quoteAll(keys) + "}"
}
