package subtask

import (
	"slices"

	"github.com/google/uuid"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/core/grammar"
	"github.com/leofalp/toolloop/providers/eventing"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

// Origin is the controller a subtask is attached to. It owns every subtask
// and resolves tools and sibling subtasks by name and id.
type Origin interface {
	ID() string
	FindTool(name string) (tool.Tool, bool)
	FindSubtask(id string) (*Subtask, error)
	Grammar() grammar.Grammar
	// Observer may return nil to disable instrumentation.
	Observer() observability.Provider
	// EventSink may return nil when nobody listens.
	EventSink() eventing.Sink
}

// Subtask is one step of the reasoning trace: the raw completion, the
// thought and action parsed from it, and the artifact it resolved to.
//
// Neighbours are referenced by id only and resolved through the origin.
type Subtask struct {
	id     string
	origin Origin

	input   string
	thought string
	action  action.Action
	output  *artifact.Artifact

	parentIDs []string
	childIDs  []string
}

var _ tool.Caller = (*Subtask)(nil)

// Option pre-seeds a subtask before it is attached. Seeded fields win over
// whatever the completion contains.
type Option func(*Subtask)

// WithID sets the subtask id instead of generating one.
func WithID(id string) Option {
	return func(s *Subtask) {
		s.id = id
	}
}

// WithThought seeds the thought.
func WithThought(thought string) Option {
	return func(s *Subtask) {
		s.thought = thought
	}
}

// WithAction seeds the action name and path.
func WithAction(name, path string) Option {
	return func(s *Subtask) {
		s.action.Name = name
		s.action.Path = path
	}
}

// WithActionInput seeds the action input.
func WithActionInput(input map[string]any) Option {
	return func(s *Subtask) {
		s.action.Input = input
	}
}

// New creates an unattached subtask for the completion text input.
func New(input string, opts ...Option) *Subtask {
	s := &Subtask{input: input}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s
}

func (s *Subtask) ID() string            { return s.id }
func (s *Subtask) Input() string         { return s.input }
func (s *Subtask) Thought() string       { return s.thought }
func (s *Subtask) Action() action.Action { return s.action }
func (s *Subtask) Attached() bool        { return s.origin != nil }
func (s *Subtask) Resolved() bool        { return s.output != nil }
func (s *Subtask) ParentIDs() []string   { return slices.Clone(s.parentIDs) }
func (s *Subtask) ChildIDs() []string    { return slices.Clone(s.childIDs) }

// OriginID returns the id of the origin, or "" before the subtask is attached.
func (s *Subtask) OriginID() string {
	if s.origin == nil {
		return ""
	}
	return s.origin.ID()
}

// Output returns the artifact the subtask resolved to, if any.
func (s *Subtask) Output() (artifact.Artifact, bool) {
	if s.output == nil {
		return artifact.Artifact{}, false
	}
	return *s.output, true
}

// Resolve sets the output. It reports false, leaving the output unchanged,
// when the subtask was already resolved.
func (s *Subtask) Resolve(out artifact.Artifact) bool {
	if s.output != nil {
		return false
	}
	s.output = &out
	return true
}

// AddChild links child below s in both directions and returns child.
func (s *Subtask) AddChild(child *Subtask) *Subtask {
	if !slices.Contains(s.childIDs, child.id) {
		s.childIDs = append(s.childIDs, child.id)
	}
	if !slices.Contains(child.parentIDs, s.id) {
		child.parentIDs = append(child.parentIDs, s.id)
	}
	return child
}

// AddParent links parent above s in both directions and returns parent.
func (s *Subtask) AddParent(parent *Subtask) *Subtask {
	parent.AddChild(s)
	return parent
}

// Parents resolves the parent ids through the origin.
func (s *Subtask) Parents() ([]*Subtask, error) {
	return s.resolve(s.parentIDs)
}

// Children resolves the child ids through the origin.
func (s *Subtask) Children() ([]*Subtask, error) {
	return s.resolve(s.childIDs)
}

func (s *Subtask) resolve(ids []string) ([]*Subtask, error) {
	if s.origin == nil {
		return nil, ErrNotAttached
	}
	out := make([]*Subtask, 0, len(ids))
	for _, id := range ids {
		n, err := s.origin.FindSubtask(id)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
