package grammar

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/leofalp/toolloop/core/action"
)

const (
	invokeClose = "</invoke>"
	rootClose   = "</function_calls>"
)

// Tagged is the function_calls calling grammar used by tools that prefer
// markup over JSON:
//
//	Action: <function_calls>
//	<invoke>
//	<tool_name>Calculator</tool_name>
//	<path>calculate</path>
//	<parameters>
//	<expression>2+2</expression>
//	</parameters>
//	</invoke>
type Tagged struct{}

// Name implements [Grammar].
func (Tagged) Name() string { return "tagged" }

// Extract implements [Grammar]. The payload runs from the last action marker
// that precedes a closing </invoke> through the last </invoke>.
func (Tagged) Extract(text string) Matches {
	m := extractCommon(text)

	end := strings.LastIndex(text, invokeClose)
	if end < 0 {
		return m
	}

	markers := markerIndexes(text[:end], ActionMarker)
	if len(markers) == 0 {
		return m
	}

	start := markers[len(markers)-1] + len(ActionMarker)
	m.Action = strings.TrimLeft(text[start:end+len(invokeClose)], " \t\r\n")
	m.HasAction = true
	return m
}

// Build implements [Grammar]. The payload is closed with a synthetic
// </function_calls> so that the text cut at </invoke> by Extract parses. A
// payload that already ends with </function_calls> is left as is, because
// a second close would make every such payload a syntax error.
func (Tagged) Build(payload string, seed action.Action) action.Action {
	return finish(func() (action.Action, error) {
		data := strings.TrimSpace(payload)
		data = strings.TrimSpace(strings.TrimPrefix(data, ActionMarker))
		if !strings.HasSuffix(data, rootClose) {
			data += rootClose
		}

		doc := etree.NewDocument()
		if err := doc.ReadFromString(data); err != nil {
			return action.Action{}, fmt.Errorf("%w: %v", action.ErrSyntax, err)
		}

		nameEl := doc.FindElement(".//tool_name")
		if nameEl == nil {
			return action.Action{}, fmt.Errorf("%w: missing <tool_name> element", action.ErrSyntax)
		}
		pathEl := doc.FindElement(".//path")
		if pathEl == nil {
			return action.Action{}, fmt.Errorf("%w: missing <path> element", action.ErrSyntax)
		}

		parsed := action.Action{
			Name: strings.TrimSpace(nameEl.Text()),
			Path: strings.TrimSpace(pathEl.Text()),
		}
		if params := doc.FindElement(".//parameters"); params != nil {
			if children := params.ChildElements(); len(children) > 0 {
				values := make(map[string]any, len(children))
				for _, child := range children {
					values[child.Tag] = child.Text()
				}
				parsed.Input = map[string]any{"values": values}
			}
		}

		result := merge(seed, parsed)
		if err := action.Check(result); err != nil {
			return action.Action{}, err
		}
		return result, nil
	})
}
