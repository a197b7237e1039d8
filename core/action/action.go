package action

import (
	"encoding/json"
	"fmt"
)

// ErrorName is the reserved action name carried by terminal error descriptors.
const ErrorName = "error"

// Action is a parsed tool invocation: which tool, which activity on it, and
// with what input. An empty Name or Path, or a nil Input, means the field is
// absent.
//
// Input, when present, has the shape {"values": {...}}.
type Action struct {
	Name  string
	Path  string
	Input map[string]any
}

// Error returns the terminal error descriptor for msg. Error descriptors are
// never dispatched to a tool; their message becomes the subtask output.
func Error(msg string) Action {
	return Action{
		Name:  ErrorName,
		Input: map[string]any{"error": msg},
	}
}

// IsError reports whether a is a terminal error descriptor.
func (a Action) IsError() bool {
	return a.Name == ErrorName
}

// HasName reports whether a names a tool.
func (a Action) HasName() bool {
	return a.Name != ""
}

// Values returns Input["values"] when it is a mapping, nil otherwise.
func (a Action) Values() map[string]any {
	if a.Input == nil {
		return nil
	}
	values, _ := a.Input["values"].(map[string]any)
	return values
}

// Diagnostic returns the message carried by an error descriptor, or an empty
// string for any other action.
func (a Action) Diagnostic() string {
	if !a.IsError() || a.Input == nil {
		return ""
	}
	switch msg := a.Input["error"].(type) {
	case string:
		return msg
	case nil:
		return ""
	default:
		return fmt.Sprint(msg)
	}
}

// ToJSON serializes a into its canonical JSON form, omitting absent fields.
func (a Action) ToJSON() (string, error) {
	doc := make(map[string]any, 3)
	if a.Name != "" {
		doc["name"] = a.Name
	}
	if a.Path != "" {
		doc["path"] = a.Path
	}
	if a.Input != nil {
		doc["input"] = a.Input
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal action: %w", err)
	}
	return string(data), nil
}

// RemoveNullValues returns a copy of m without nil entries. Nested maps, and
// maps held inside slices, are cleaned recursively.
func RemoveNullValues(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = removeNulls(v)
	}
	return out
}

func removeNulls(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return RemoveNullValues(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = removeNulls(item)
		}
		return out
	default:
		return v
	}
}
