package react

import (
	"context"

	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/internal/utils"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
)

// run holds the observability state of one Execute call.
type run struct {
	span  observability.Span
	timer *utils.Timer
}

// observeStart opens the task span and attaches it, with the observer, to
// the returned context.
func (c *controller) observeStart(ctx context.Context, input string) (context.Context, *run) {
	r := &run{timer: utils.NewTimer()}
	if c.observer == nil {
		return ctx, r
	}

	ctx, r.span = c.observer.StartSpan(ctx, observability.SpanTaskExecute,
		observability.String(observability.AttrTaskID, c.id),
		observability.Int(observability.AttrTaskMaxSubtasks, c.maxSubtasks),
		observability.String(observability.AttrTaskGrammar, c.grammar.Name()),
	)
	ctx = observability.ContextWithSpan(ctx, r.span)
	ctx = observability.ContextWithObserver(ctx, c.observer)

	c.observer.Info(ctx, "Task started",
		observability.String(observability.AttrTaskID, c.id),
		observability.Int(observability.AttrTaskSubtasks, 0),
		observability.String(observability.AttrTaskInput, observability.TruncateString(input, 0)),
	)
	return ctx, r
}

// observeEnd records the outcome of a run and closes the task span.
func (c *controller) observeEnd(ctx context.Context, r *run, out artifact.Artifact, err error) {
	duration := r.timer.Stop()
	if c.observer == nil {
		return
	}

	status := c.state.String()
	c.observer.Histogram(observability.MetricTaskRunDuration).Record(ctx, duration.Seconds(),
		observability.String(observability.AttrStatus, status),
	)
	c.observer.Counter(observability.MetricTaskRunCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, status),
	)
	c.observer.Histogram(observability.MetricTaskSubtasks).Record(ctx, float64(len(c.subtasks)))

	attrs := []observability.Attribute{
		observability.String(observability.AttrTaskID, c.id),
		observability.String(observability.AttrTaskState, status),
		observability.Int(observability.AttrTaskSubtasks, len(c.subtasks)),
		observability.Duration(observability.AttrDuration, duration),
	}

	switch {
	case err != nil:
		c.observer.Error(ctx, "Task failed", append(attrs, observability.Error(err))...)
		r.span.RecordError(err)
		r.span.SetStatus(observability.StatusError, "task failed")
	case c.err != nil:
		c.observer.Warn(ctx, "Task aborted", append(attrs, observability.Error(c.err))...)
		r.span.SetStatus(observability.StatusError, "task aborted")
	default:
		c.observer.Info(ctx, "Task finished",
			append(attrs, observability.String(observability.AttrTaskOutput, observability.TruncateString(out.ToText(), 0)))...)
		r.span.SetStatus(observability.StatusOK, "task finished")
	}
	r.span.SetAttributes(attrs...)
	r.span.End()
}

// observeCompletion opens the span of one completion request. The returned
// function closes it.
func (c *controller) observeCompletion(ctx context.Context, request ai.ChatRequest) (context.Context, func(*ai.ChatResponse, error)) {
	if c.observer == nil {
		return ctx, func(*ai.ChatResponse, error) {}
	}

	timer := utils.NewTimer()
	ctx, span := c.observer.StartSpan(ctx, observability.SpanLLMRequest,
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
	)
	span.AddEvent(observability.EventLLMRequestStart)

	return ctx, func(response *ai.ChatResponse, err error) {
		duration := timer.Stop()
		defer span.End()

		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.observer.Histogram(observability.MetricLLMRequestDuration).Record(ctx, duration.Seconds(),
			observability.String(observability.AttrLLMModel, request.Model),
		)
		c.observer.Counter(observability.MetricLLMRequestCount).Add(ctx, 1,
			observability.String(observability.AttrLLMModel, request.Model),
			observability.String(observability.AttrStatus, outcome),
		)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "completion failed")
			c.observer.Error(ctx, "Completion failed", observability.Error(err))
			return
		}

		span.AddEvent(observability.EventLLMRequestEnd,
			observability.String(observability.AttrLLMFinishReason, response.FinishReason),
		)
		span.SetStatus(observability.StatusOK, "")
		c.observer.Debug(ctx, "Completion received",
			observability.String(observability.AttrTaskID, c.id),
			observability.String(observability.AttrResponseContent, observability.TruncateString(response.Content, 0)),
			observability.Duration(observability.AttrDuration, duration),
		)
	}
}

// setState moves the controller to state and logs the transition.
func (c *controller) setState(ctx context.Context, state State) {
	c.state = state
	if c.observer == nil {
		return
	}
	c.observer.Debug(ctx, "State changed",
		observability.String(observability.AttrTaskID, c.id),
		observability.String(observability.AttrTaskState, state.String()),
		observability.Int(observability.AttrTaskSubtasks, len(c.subtasks)),
	)
}

func (c *controller) warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if c.observer == nil {
		return
	}
	c.observer.Warn(ctx, msg, append([]observability.Attribute{
		observability.String(observability.AttrTaskID, c.id),
	}, attrs...)...)
}
