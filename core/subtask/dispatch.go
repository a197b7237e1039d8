package subtask

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/internal/utils"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

// Dispatch messages surfaced to the model as Error artifacts.
const (
	msgToolNotFound     = "tool not found"
	msgActivityNotFound = "action path not found"
	msgNoToolOutput     = "no tool output"
)

// Run executes the action and resolves the subtask with exactly one
// artifact. Every failure, a panicking tool included, becomes an Error
// artifact. A subtask that is already resolved keeps its output and nothing
// is dispatched.
func (s *Subtask) Run(ctx context.Context) (artifact.Artifact, error) {
	if s.origin == nil {
		return artifact.Artifact{}, ErrNotAttached
	}
	if s.output != nil {
		return *s.output, nil
	}

	out := s.dispatch(ctx)
	s.output = &out
	return out, nil
}

func (s *Subtask) dispatch(ctx context.Context) artifact.Artifact {
	if s.action.IsError() {
		return artifact.NewError(s.action.Diagnostic())
	}

	t, ok := s.origin.FindTool(s.action.Name)
	if !ok {
		s.logError(ctx, "Tool dispatch failed",
			observability.String(observability.AttrActionName, s.action.Name),
			observability.Error(fmt.Errorf("%w: %q", ErrToolNotFound, s.action.Name)),
		)
		return artifact.NewError(msgToolNotFound)
	}

	activity, ok := tool.FindActivity(t, s.action.Path)
	if !ok {
		s.logError(ctx, "Tool dispatch failed",
			observability.String(observability.AttrToolName, t.Name()),
			observability.Error(fmt.Errorf("%w: %q", ErrActivityNotFound, s.action.Path)),
		)
		return artifact.NewError(msgActivityNotFound)
	}

	return s.execute(ctx, t, activity)
}

// execute invokes the activity inside a span and records the tool metrics.
func (s *Subtask) execute(ctx context.Context, t tool.Tool, activity tool.Activity) artifact.Artifact {
	observer := s.origin.Observer()
	attrs := []observability.Attribute{
		observability.String(observability.AttrToolName, t.Name()),
		observability.String(observability.AttrToolPath, activity.Path()),
	}

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanToolExecution,
			append(attrs, observability.String(observability.AttrSubtaskID, s.id))...)
		defer span.End()
		ctx = observability.ContextWithSpan(ctx, span)
		ctx = observability.ContextWithObserver(ctx, observer)
	}

	timer := utils.NewTimer()
	out, err := invoke(ctx, activity, s)
	elapsed := timer.Stop()

	switch {
	case err != nil:
		out = artifact.NewError(err.Error())
	case out.IsZero():
		err = errors.New(msgNoToolOutput)
		out = artifact.NewError(msgNoToolOutput)
	}

	if observer == nil {
		return out
	}

	outcome := "ok"
	if out.IsError() {
		outcome = "error"
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, out.Value())
		observer.Error(ctx, "Tool execution failed", append(attrs, observability.Error(err))...)
	} else {
		span.SetStatus(observability.StatusOK, "success")
	}
	span.SetAttributes(
		observability.String(observability.AttrToolOutcome, outcome),
		observability.Duration(observability.AttrToolDuration, elapsed),
		observability.String(observability.AttrToolOutput, observability.TruncateString(out.ToText(), 0)),
	)

	metricAttrs := append(attrs, observability.String(observability.AttrToolOutcome, outcome))
	observer.Histogram(observability.MetricToolExecutionDuration).Record(ctx, elapsed.Seconds(), metricAttrs...)
	observer.Counter(observability.MetricToolExecutionCount).Add(ctx, 1, metricAttrs...)

	return out
}

// invoke calls the activity and converts a panic into an error.
func invoke(ctx context.Context, activity tool.Activity, caller tool.Caller) (out artifact.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = artifact.Artifact{}
			err = fmt.Errorf("%v", r)
		}
	}()
	return activity.Execute(ctx, caller)
}
