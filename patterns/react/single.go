package react

import (
	"context"
	"fmt"

	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/core/grammar"
	"github.com/leofalp/toolloop/core/subtask"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/tool"
)

// NoToolOutput is the text of the Info artifact a [Single] run returns when
// its subtask ends without an output.
const NoToolOutput = "No tool output"

// Single runs one tool once. The completion is read as the payload of an
// action, so the model only has to write the action itself.
type Single struct {
	*controller
	tool tool.Tool
}

var _ subtask.Origin = (*Single)(nil)

// NewSingle creates a single-shot controller for t. [WithTools] and
// [WithMaxSubtasks] have no effect on it.
func NewSingle(provider ai.Provider, t tool.Tool, opts ...Option) (*Single, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: tool is nil", ErrInvalidConfig)
	}

	o := applyOptions(opts...)
	o.tools = []tool.Tool{t}
	o.maxSubtasks = 1

	c, err := newController(provider, o)
	if err != nil {
		return nil, err
	}
	return &Single{controller: c, tool: t}, nil
}

// Tool returns the tool this controller runs.
func (s *Single) Tool() tool.Tool {
	return s.tool
}

// Execute requests one completion for input, runs the action it names and
// returns the tool output. It never requests a second completion: a
// completion that answers is returned as is, and one that names no tool is
// dispatched anyway and yields the "tool not found" Error artifact.
func (s *Single) Execute(ctx context.Context, input string) (artifact.Artifact, error) {
	s.reset()
	ctx, r := s.observeStart(ctx, input)

	out, err := s.once(ctx, input)
	if err != nil {
		s.abort(ctx, err)
	} else {
		s.finish(ctx, out)
		s.remember(ctx, input, out)
	}

	s.observeEnd(ctx, r, out, err)
	return out, err
}

func (s *Single) once(ctx context.Context, input string) (artifact.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return artifact.Artifact{}, err
	}

	conv, err := s.prepare(ctx, input)
	if err != nil {
		return artifact.Artifact{}, err
	}
	request, err := s.request(conv)
	if err != nil {
		return artifact.Artifact{}, err
	}
	completion, err := s.complete(ctx, request)
	if err != nil {
		return artifact.Artifact{}, err
	}

	node, err := s.AddSubtask(ctx, subtask.New(grammar.ActionMarker+" "+completion))
	if err != nil {
		return artifact.Artifact{}, err
	}

	s.setState(ctx, StateActing)
	if err := node.BeforeRun(ctx); err != nil {
		return artifact.Artifact{}, err
	}
	if !node.Resolved() {
		if _, err := node.Run(ctx); err != nil {
			return artifact.Artifact{}, err
		}
	}
	if err := node.AfterRun(ctx); err != nil {
		return artifact.Artifact{}, err
	}

	if out, ok := node.Output(); ok {
		return out, nil
	}
	return artifact.NewInfo(NoToolOutput), nil
}
