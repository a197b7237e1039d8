package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/leofalp/toolloop/core/action"
)

// Markers recognised in model output. They are case-sensitive.
const (
	ThoughtMarker = "Thought:"
	ActionMarker  = "Action:"
	AnswerMarker  = "Answer:"
)

var (
	thoughtPattern = regexp.MustCompile(`(?m)^Thought:\s*(.*)$`)
	answerPattern  = regexp.MustCompile(`(?m)^Answer:`)
)

// Matches holds what [Grammar.Extract] found in a completion. Each field is
// meaningful only when its Has flag is set.
type Matches struct {
	Thought string
	Action  string
	Answer  string

	HasThought bool
	HasAction  bool
	HasAnswer  bool
}

// Grammar turns raw model text into an action descriptor.
//
// Extract locates the thought, action payload and answer in the text. Build
// converts an action payload into a descriptor, filling only the fields that
// seed leaves empty. Build never returns an error: failures come back as an
// [action.Error] descriptor.
type Grammar interface {
	Name() string
	Extract(text string) Matches
	Build(payload string, seed action.Action) action.Action
}

// For returns the tagged grammar when tagged is true and the bracket grammar
// otherwise.
func For(tagged bool) Grammar {
	if tagged {
		return Tagged{}
	}
	return Bracket{}
}

// extractCommon fills the thought and answer matches shared by every grammar.
func extractCommon(text string) Matches {
	var m Matches

	if found := thoughtPattern.FindAllStringSubmatch(text, -1); len(found) > 0 {
		m.Thought = strings.TrimRight(found[len(found)-1][1], "\r")
		m.HasThought = true
	}

	if found := answerPattern.FindAllStringIndex(text, -1); len(found) > 0 {
		rest := text[found[len(found)-1][1]:]
		if len(rest) > 0 && isSpace(rest[0]) {
			rest = rest[1:]
		}
		m.Answer = rest
		m.HasAnswer = true
	}

	return m
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// markerIndexes returns the byte offsets of every occurrence of marker in text.
func markerIndexes(text, marker string) []int {
	var out []int
	for offset := 0; ; {
		i := strings.Index(text[offset:], marker)
		if i < 0 {
			return out
		}
		out = append(out, offset+i)
		offset += i + len(marker)
	}
}

// finish runs build and converts its failures, panics included, to an error
// descriptor.
func finish(build func() (action.Action, error)) (result action.Action) {
	defer func() {
		if r := recover(); r != nil {
			result = action.Error(fmt.Sprintf("Action input parsing error: %v", r))
		}
	}()

	a, err := build()
	if err == nil {
		return a
	}

	switch {
	case errors.Is(err, action.ErrSyntax):
		return action.Error("syntax error: " + detail(err, action.ErrSyntax))
	case errors.Is(err, action.ErrSchema):
		return action.Error("Action JSON validation error: " + detail(err, action.ErrSchema))
	default:
		return action.Error("Action input parsing error: " + err.Error())
	}
}

// detail strips the sentinel prefix from a wrapped error message.
func detail(err, sentinel error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return trimmed
	}
	return msg
}

// merge copies name, path and input from parsed into seed wherever seed has
// none.
func merge(seed, parsed action.Action) action.Action {
	if seed.Name == "" {
		seed.Name = parsed.Name
	}
	if seed.Path == "" {
		seed.Path = parsed.Path
	}
	if seed.Input == nil && parsed.Input != nil {
		seed.Input = parsed.Input
	}
	return seed
}
