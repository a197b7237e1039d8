package eventing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/core/artifact"
)

// ErrInvalidEvent is returned by [Validate] for malformed events.
var ErrInvalidEvent = errors.New("toolloop: invalid event")

// Type names a lifecycle transition of a subtask.
type Type string

const (
	EventSubtaskStarted  Type = "subtask_started"
	EventSubtaskFinished Type = "subtask_finished"
)

// Event is published around every subtask run. Output is only set on
// finished events.
type Event struct {
	Type      Type               `json:"type" validate:"required,oneof=subtask_started subtask_finished"`
	TaskID    string             `json:"task_id" validate:"required"`
	SubtaskID string             `json:"subtask_id" validate:"required"`
	Thought   string             `json:"thought,omitempty"`
	Action    *action.Action     `json:"action,omitempty"`
	Output    *artifact.Artifact `json:"-"`
	Time      time.Time          `json:"time"`
}

// Sink receives subtask events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that event names a known type, task and subtask.
func Validate(event Event) error {
	if err := validate.Struct(event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return nil
}

// Clone returns a copy of event that shares no mutable state with it.
func Clone(event Event) Event {
	out := event
	if event.Action != nil {
		a := *event.Action
		if a.Input != nil {
			a.Input = cloneMap(a.Input)
		}
		out.Action = &a
	}
	if event.Output != nil {
		o := *event.Output
		out.Output = &o
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if m, ok := v.(map[string]any); ok {
			v = cloneMap(m)
		}
		out[k] = v
	}
	return out
}
