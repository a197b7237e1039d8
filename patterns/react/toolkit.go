package react

import (
	"context"
	"fmt"

	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/core/subtask"
	"github.com/leofalp/toolloop/providers/ai"
)

// Toolkit is the bounded tool loop. Each completion becomes a subtask; the
// subtask's tool runs and its output is fed back until the model answers.
//
// A Toolkit is not safe for concurrent Execute calls. Tools may be shared
// between controllers.
type Toolkit struct {
	*controller
}

var _ subtask.Origin = (*Toolkit)(nil)

// NewToolkit creates a loop controller that asks provider for completions.
// It fails with [tool.ErrDuplicateTool] when two tools share a name and with
// [ErrInvalidConfig] when the budget is below 1.
//
// Example:
//
//	toolkit, err := react.NewToolkit(provider,
//	    react.WithTools(calculator.New()),
//	    react.WithObserver(slogobs.New()),
//	)
func NewToolkit(provider ai.Provider, opts ...Option) (*Toolkit, error) {
	c, err := newController(provider, applyOptions(opts...))
	if err != nil {
		return nil, err
	}
	return &Toolkit{controller: c}, nil
}

// MaxSubtasks returns the subtask budget of a run.
func (t *Toolkit) MaxSubtasks() int {
	return t.maxSubtasks
}

// Execute runs the loop for input and returns the artifact of the last
// subtask. The trace of a previous run is discarded.
//
// A run ends when a subtask resolves on its own (the model answered), when
// the model stops following the calling format (the completion itself is the
// output) or when the budget is used up (an Error artifact, and [Toolkit.Err]
// wraps [ErrBudgetExceeded]). Tool failures never end a run: they are
// observations for the next step.
//
// An error is returned only when ctx is done or the completion backend
// fails.
func (t *Toolkit) Execute(ctx context.Context, input string) (artifact.Artifact, error) {
	t.reset()
	ctx, r := t.observeStart(ctx, input)

	out, err := t.loop(ctx, input)
	if err != nil {
		t.abort(ctx, err)
	} else {
		t.finish(ctx, out)
		t.remember(ctx, input, out)
	}

	t.observeEnd(ctx, r, out, err)
	return out, err
}

func (t *Toolkit) loop(ctx context.Context, input string) (artifact.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return artifact.Artifact{}, err
	}

	conv, err := t.prepare(ctx, input)
	if err != nil {
		return artifact.Artifact{}, err
	}

	active, err := t.think(ctx, conv)
	if err != nil {
		return artifact.Artifact{}, err
	}

	for !active.Resolved() {
		switch {
		case len(t.subtasks) >= t.maxSubtasks:
			t.err = fmt.Errorf("%w: limit of %d subtasks", ErrBudgetExceeded, t.maxSubtasks)
			active.Resolve(artifact.NewError(fmt.Sprintf("Exceeded tool limit of %d subtasks per task", t.maxSubtasks)))
			t.setState(ctx, StateAborted)

		case !active.Action().HasName():
			active.Resolve(artifact.NewText(active.Input()))

		default:
			t.setState(ctx, StateActing)
			if err := t.act(ctx, active); err != nil {
				return artifact.Artifact{}, err
			}
			t.setState(ctx, StateThinking)

			if active, err = t.think(ctx, conv); err != nil {
				return artifact.Artifact{}, err
			}
		}
	}

	out, _ := active.Output()
	return out, nil
}

// think requests the next completion and adds it to the trace.
func (t *Toolkit) think(ctx context.Context, conv conversation) (*subtask.Subtask, error) {
	request, err := t.request(conv)
	if err != nil {
		return nil, err
	}
	completion, err := t.complete(ctx, request)
	if err != nil {
		return nil, err
	}
	return t.AddSubtask(ctx, subtask.New(completion))
}
