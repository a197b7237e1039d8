package grammar

import (
	"fmt"
	"strings"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/core/parse"
)

// Bracket is the JSON calling grammar:
//
//	Thought: I need to add two numbers
//	Action: {"name": "Calculator", "path": "calculate", "input": {"values": {"expression": "2+2"}}}
type Bracket struct{}

// Name implements [Grammar].
func (Bracket) Name() string { return "bracket" }

// Extract implements [Grammar]. Action markers are scanned from last to first;
// the payload runs from the first '{' after a marker to the last '}' in the
// text.
func (Bracket) Extract(text string) Matches {
	m := extractCommon(text)

	closing := strings.LastIndexByte(text, '}')
	if closing < 0 {
		return m
	}

	markers := markerIndexes(text, ActionMarker)
	for i := len(markers) - 1; i >= 0; i-- {
		from := markers[i] + len(ActionMarker)
		open := strings.IndexByte(text[from:], '{')
		if open < 0 {
			continue
		}
		open += from
		if open >= closing {
			continue
		}
		m.Action = text[open : closing+1]
		m.HasAction = true
		break
	}

	return m
}

// Build implements [Grammar].
func (Bracket) Build(payload string, seed action.Action) action.Action {
	return finish(func() (action.Action, error) {
		doc, err := parse.ParseDocument(payload)
		if err != nil {
			return action.Action{}, fmt.Errorf("%w: %v", action.ErrSyntax, err)
		}
		if err := action.CheckDocument(doc); err != nil {
			return action.Action{}, err
		}

		parsed := action.Action{
			Name: doc["name"].(string),
			Path: doc["path"].(string),
		}
		if input, ok := doc["input"].(map[string]any); ok {
			parsed.Input = action.RemoveNullValues(input)
		}
		return merge(seed, parsed), nil
	})
}
