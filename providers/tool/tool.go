package tool

import (
	"context"
	"strings"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/internal/jsonschema"
)

// Tool is a named capability offered to the model. It exposes one or more
// activities, addressed by the "path" of an action descriptor.
type Tool interface {
	Name() string
	Description() string
	// Tagged reports whether this tool wants the function_calls calling
	// grammar instead of JSON.
	Tagged() bool
	Activities() []Activity
}

// Activity is a single invocable entry point of a tool.
type Activity interface {
	Path() string
	Description() string
	// InputSchema describes the whole action input, {"values": {...}}.
	InputSchema() *jsonschema.Schema
	// ValidateInput checks an action input against InputSchema.
	ValidateInput(input map[string]any) error
	Execute(ctx context.Context, caller Caller) (artifact.Artifact, error)
}

// Caller is the subtask invoking an activity.
type Caller interface {
	ID() string
	Thought() string
	Action() action.Action
}

// Toolkit is the concrete [Tool] built by [New].
type Toolkit struct {
	name        string
	description string
	tagged      bool
	activities  []Activity
}

var _ Tool = (*Toolkit)(nil)

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithDescription sets the description shown to the model.
func WithDescription(description string) Option {
	return func(t *Toolkit) {
		t.description = description
	}
}

// WithActivities appends activities to the tool.
func WithActivities(activities ...Activity) Option {
	return func(t *Toolkit) {
		t.activities = append(t.activities, activities...)
	}
}

// WithTaggedCalling makes the tool request the function_calls grammar.
func WithTaggedCalling(enabled bool) Option {
	return func(t *Toolkit) {
		t.tagged = enabled
	}
}

// New creates a tool.
//
// Example:
//
//	calc := tool.New("Calculator",
//	    tool.WithDescription("Evaluates arithmetic."),
//	    tool.WithActivities(tool.MustActivity(tool.NewActivity("calculate", calculate))),
//	)
func New(name string, opts ...Option) *Toolkit {
	t := &Toolkit{name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Toolkit) Name() string        { return t.name }
func (t *Toolkit) Description() string { return t.description }
func (t *Toolkit) Tagged() bool        { return t.tagged }

// Activities returns a copy of the tool's activities.
func (t *Toolkit) Activities() []Activity {
	return append([]Activity(nil), t.activities...)
}

// FindActivity returns the activity of t whose path equals path.
func FindActivity(t Tool, path string) (Activity, bool) {
	if t == nil || path == "" {
		return nil, false
	}
	for _, a := range t.Activities() {
		if a.Path() == path {
			return a, true
		}
	}
	return nil, false
}

// ActivityManifest describes one activity for prompt rendering.
type ActivityManifest struct {
	Path        string
	Description string
	Schema      string
}

// ToolManifest describes a tool for prompt rendering.
type ToolManifest struct {
	Name        string
	Description string
	Activities  []ActivityManifest
}

// Manifest builds the description of t that prompt templates render.
func Manifest(t Tool) ToolManifest {
	m := ToolManifest{
		Name:        t.Name(),
		Description: strings.TrimSpace(t.Description()),
	}
	for _, a := range t.Activities() {
		am := ActivityManifest{
			Path:        a.Path(),
			Description: strings.TrimSpace(a.Description()),
		}
		if s := a.InputSchema(); s != nil {
			am.Schema = s.String()
		}
		m.Activities = append(m.Activities, am)
	}
	return m
}
