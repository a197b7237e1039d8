package react

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/leofalp/toolloop/core/artifact"
	"github.com/leofalp/toolloop/core/grammar"
	"github.com/leofalp/toolloop/core/prompt"
	"github.com/leofalp/toolloop/core/subtask"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/ai/middleware"
	"github.com/leofalp/toolloop/providers/eventing"
	"github.com/leofalp/toolloop/providers/memory"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

// controller holds what [Toolkit] and [Single] share: the wiring fixed at
// construction and the trace of the current run. It implements
// [subtask.Origin].
type controller struct {
	id          string
	provider    ai.Provider
	catalog     *tool.Catalog
	grammar     grammar.Grammar
	tagged      bool
	renderer    prompt.Renderer
	observer    observability.Provider
	sink        eventing.Sink
	memory      memory.Provider
	model       string
	maxSubtasks int

	state    State
	subtasks []*subtask.Subtask
	output   *artifact.Artifact
	err      error
	usage    ai.Usage
}

func newController(provider ai.Provider, o *options) (*controller, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider is nil", ErrInvalidConfig)
	}
	if o.maxSubtasks < 1 {
		return nil, fmt.Errorf("%w: max subtasks must be >= 1, got %d", ErrInvalidConfig, o.maxSubtasks)
	}

	catalog, err := tool.NewCatalog(o.tools...)
	if err != nil {
		return nil, err
	}

	g := o.grammar
	if g == nil {
		g = grammar.For(o.tagged || catalog.AnyTagged())
	}

	renderer := o.renderer
	if renderer == nil {
		renderer = prompt.Default()
	}

	return &controller{
		id:          uuid.NewString(),
		provider:    middleware.Chain(provider, o.middlewares...),
		catalog:     catalog,
		grammar:     g,
		tagged:      g.Name() == grammar.Tagged{}.Name(),
		renderer:    renderer,
		observer:    o.observer,
		sink:        o.sink,
		memory:      o.memory,
		model:       o.model,
		maxSubtasks: o.maxSubtasks,
		state:       StateThinking,
	}, nil
}

func (c *controller) ID() string                       { return c.id }
func (c *controller) Grammar() grammar.Grammar         { return c.grammar }
func (c *controller) Observer() observability.Provider { return c.observer }
func (c *controller) EventSink() eventing.Sink         { return c.sink }
func (c *controller) State() State                     { return c.state }

// FindTool looks a tool up by its exact name. The catalog ignores case only
// to reject near-duplicate registrations.
func (c *controller) FindTool(name string) (tool.Tool, bool) {
	t, ok := c.catalog.Get(name)
	if !ok || t.Name() != name {
		return nil, false
	}
	return t, true
}

// Tools returns the registered tools sorted by name.
func (c *controller) Tools() []tool.Tool {
	return c.catalog.Tools()
}

// FindSubtask returns the subtask of the current run with the given id.
func (c *controller) FindSubtask(id string) (*subtask.Subtask, error) {
	for _, s := range c.subtasks {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", subtask.ErrSubtaskNotFound, id)
}

// Subtasks returns the subtasks of the current run in creation order.
func (c *controller) Subtasks() []*subtask.Subtask {
	return slices.Clone(c.subtasks)
}

// Output returns the output of the last run, if it produced one.
func (c *controller) Output() (artifact.Artifact, bool) {
	if c.output == nil {
		return artifact.Artifact{}, false
	}
	return *c.output, true
}

// Err returns why the last run was aborted, or nil.
func (c *controller) Err() error {
	return c.err
}

// Usage returns the token usage summed over the completions of the last run.
func (c *controller) Usage() ai.Usage {
	return c.usage
}

// AddSubtask attaches s, links it below the newest subtask and appends it to
// the trace.
func (c *controller) AddSubtask(ctx context.Context, s *subtask.Subtask) (*subtask.Subtask, error) {
	if err := s.Attach(ctx, c); err != nil {
		return nil, err
	}
	if n := len(c.subtasks); n > 0 {
		c.subtasks[n-1].AddChild(s)
	}
	c.subtasks = append(c.subtasks, s)
	return s, nil
}

func (c *controller) reset() {
	c.state = StateThinking
	c.subtasks = nil
	c.output = nil
	c.err = nil
	c.usage = ai.Usage{}
}

// conversation is the part of every request that does not change during a
// run: the system prompt, the remembered messages and the user input.
type conversation struct {
	system   string
	messages []ai.Message
}

func (c *controller) prepare(ctx context.Context, input string) (conversation, error) {
	system, err := c.renderer.System(c.catalog.Tools(), c.tagged)
	if err != nil {
		return conversation{}, err
	}

	var messages []ai.Message
	if c.memory != nil {
		remembered, err := c.memory.AllMessages(ctx)
		if err != nil {
			c.warn(ctx, "Memory unavailable, continuing without it", observability.Error(err))
		}
		messages = append(messages, remembered...)
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: input})

	return conversation{system: system, messages: messages}, nil
}

// request builds the next completion request: the conversation followed by
// one assistant and one user turn per subtask.
func (c *controller) request(conv conversation) (ai.ChatRequest, error) {
	messages := slices.Clone(conv.messages)
	for _, s := range c.subtasks {
		assistant, err := c.renderer.Assistant(s, c.tagged)
		if err != nil {
			return ai.ChatRequest{}, err
		}
		user, err := c.renderer.User(s)
		if err != nil {
			return ai.ChatRequest{}, err
		}
		messages = append(messages,
			ai.Message{Role: ai.RoleAssistant, Content: assistant},
			ai.Message{Role: ai.RoleUser, Content: user},
		)
	}

	return ai.ChatRequest{
		Model:        c.model,
		SystemPrompt: conv.system,
		Messages:     messages,
		GenerationConfig: &ai.GenerationConfig{
			Stop: []string{prompt.ResponseStopSequence},
		},
	}, nil
}

// complete sends request and returns the completion text.
func (c *controller) complete(ctx context.Context, request ai.ChatRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, done := c.observeCompletion(ctx, request)
	response, err := c.provider.SendMessage(ctx, request)
	done(response, err)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	c.usage.Add(response.Usage)
	return response.Content, nil
}

// act runs one before, run, after cycle on s.
func (c *controller) act(ctx context.Context, s *subtask.Subtask) error {
	if err := s.BeforeRun(ctx); err != nil {
		return err
	}
	if _, err := s.Run(ctx); err != nil {
		return err
	}
	return s.AfterRun(ctx)
}

// remember records the run in memory.
func (c *controller) remember(ctx context.Context, input string, out artifact.Artifact) {
	if c.memory == nil {
		return
	}
	c.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: input})
	c.memory.AppendMessage(ctx, &ai.Message{Role: ai.RoleAssistant, Content: out.ToText()})
}

// finish records the output of a run.
func (c *controller) finish(ctx context.Context, out artifact.Artifact) {
	c.output = &out
	if c.state != StateAborted {
		c.setState(ctx, StateDone)
	}
}

// abort ends a run on err.
func (c *controller) abort(ctx context.Context, err error) {
	c.err = err
	c.setState(ctx, StateAborted)
}
