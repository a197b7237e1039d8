package subtask

import (
	"context"
	"fmt"
	"time"

	"github.com/leofalp/toolloop/core/action"
	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/providers/eventing"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

// Attach binds s to origin and parses the completion with the origin's
// grammar. It is the single initialization pass: fields seeded through
// options are kept, the others are computed from the completion.
//
// Parse and validation failures never surface here; they turn the action
// into an [action.Error] descriptor.
func (s *Subtask) Attach(ctx context.Context, origin Origin) error {
	if origin == nil {
		return ErrNotAttached
	}
	if s.origin != nil {
		return ErrAlreadyAttached
	}
	s.origin = origin
	s.parse(ctx)
	return nil
}

func (s *Subtask) parse(ctx context.Context) {
	g := s.origin.Grammar()
	m := g.Extract(s.input)

	if s.thought == "" && m.HasThought {
		s.thought = m.Thought
	}

	switch {
	case m.HasAction:
		s.action = g.Build(m.Action, s.action)
		if s.action.IsError() {
			s.logError(ctx, "Invalid action",
				observability.String(observability.AttrActionDiagnostic, s.action.Diagnostic()))
			return
		}
		s.validateInput(ctx)
	case s.output == nil && m.HasAnswer:
		out := artifact.NewText(m.Answer)
		s.output = &out
	}
}

// validateInput checks the action input against the activity schema. Unknown
// tools and paths are left for the dispatcher to report. A panicking
// validator turns the action into an input parsing error.
func (s *Subtask) validateInput(ctx context.Context) {
	if s.action.Input == nil || !s.action.HasName() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.action = action.Error(fmt.Sprintf("Action input parsing error: %v", r))
			s.logError(ctx, "Activity input validation panicked",
				observability.String(observability.AttrActionDiagnostic, s.action.Diagnostic()))
		}
	}()

	t, ok := s.origin.FindTool(s.action.Name)
	if !ok {
		return
	}
	activity, ok := tool.FindActivity(t, s.action.Path)
	if !ok {
		return
	}
	if err := activity.ValidateInput(s.action.Input); err != nil {
		s.action = action.Error("Activity input JSON validation error: " + err.Error())
		s.logError(ctx, "Invalid activity input",
			observability.String(observability.AttrToolName, t.Name()),
			observability.String(observability.AttrToolPath, activity.Path()),
			observability.Error(err),
		)
	}
}

// BeforeRun publishes the started event and logs the subtask input.
func (s *Subtask) BeforeRun(ctx context.Context) error {
	if s.origin == nil {
		return ErrNotAttached
	}
	s.publish(ctx, eventing.EventSubtaskStarted)
	if observer := s.origin.Observer(); observer != nil {
		observer.Info(ctx, "Subtask started",
			observability.String(observability.AttrSubtaskID, s.id),
			observability.String(observability.AttrSubtaskInput, observability.TruncateString(s.input, 0)),
		)
	}
	return nil
}

// AfterRun publishes the finished event and logs the subtask output.
func (s *Subtask) AfterRun(ctx context.Context) error {
	if s.origin == nil {
		return ErrNotAttached
	}
	s.publish(ctx, eventing.EventSubtaskFinished)
	if observer := s.origin.Observer(); observer != nil {
		response := ""
		if s.output != nil {
			response = s.output.ToText()
		}
		observer.Info(ctx, "Subtask finished",
			observability.String(observability.AttrSubtaskID, s.id),
			observability.String(observability.AttrSubtaskOutput, observability.TruncateString(response, 0)),
		)
	}
	return nil
}

// publish sends a lifecycle event. Sink failures are logged and dropped.
func (s *Subtask) publish(ctx context.Context, typ eventing.Type) {
	sink := s.origin.EventSink()
	if sink == nil {
		return
	}

	a := s.action
	event := eventing.Event{
		Type:      typ,
		TaskID:    s.origin.ID(),
		SubtaskID: s.id,
		Thought:   s.thought,
		Action:    &a,
		Output:    s.output,
		Time:      time.Now(),
	}
	if err := sink.Publish(ctx, event); err != nil {
		if observer := s.origin.Observer(); observer != nil {
			observer.Warn(ctx, "Event publish failed",
				observability.String(observability.AttrEventType, string(typ)),
				observability.String(observability.AttrSubtaskID, s.id),
				observability.Error(err),
			)
		}
	}
}

func (s *Subtask) logError(ctx context.Context, msg string, attrs ...observability.Attribute) {
	observer := s.origin.Observer()
	if observer == nil {
		return
	}
	attrs = append([]observability.Attribute{
		observability.String(observability.AttrTaskID, s.origin.ID()),
		observability.String(observability.AttrSubtaskID, s.id),
	}, attrs...)
	observer.Error(ctx, msg, attrs...)
}
