package action

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/beevik/etree"
)

var xmlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// ToTagged serializes a into the tagged calling format:
//
//	<function_calls>
//	<invoke>
//	<tool_name>Calculator</tool_name>
//	<path>calculate</path>
//	<parameters>
//	<expression>2+2</expression>
//	</parameters>
//	</invoke>
//	</function_calls>
//
// Each key of Values becomes one element under <parameters>, in key order.
// String values are written verbatim, embedded newlines included.
func (a Action) ToTagged() (string, error) {
	doc := etree.NewDocument()

	root := doc.CreateElement("function_calls")
	root.CreateText("\n")
	invoke := root.CreateElement("invoke")
	root.CreateText("\n")

	invoke.CreateText("\n")
	invoke.CreateElement("tool_name").SetText(a.Name)
	invoke.CreateText("\n")
	invoke.CreateElement("path").SetText(a.Path)
	invoke.CreateText("\n")
	parameters := invoke.CreateElement("parameters")
	invoke.CreateText("\n")

	values := a.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		parameters.CreateText("\n")
	}
	for _, k := range keys {
		if !xmlName.MatchString(k) {
			return "", fmt.Errorf("parameter %q is not a valid element name", k)
		}
		text, err := stringify(values[k])
		if err != nil {
			return "", fmt.Errorf("parameter %q: %w", k, err)
		}
		parameters.CreateElement(k).SetText(text)
		parameters.CreateText("\n")
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to write tagged action: %w", err)
	}
	return out + "\n", nil
}

func stringify(v any) (string, error) {
	switch typed := v.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case bool, float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return fmt.Sprint(typed), nil
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
