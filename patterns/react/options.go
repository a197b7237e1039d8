package react

import (
	"github.com/leofalp/toolloop/core/config"
	"github.com/leofalp/toolloop/core/grammar"
	"github.com/leofalp/toolloop/core/prompt"
	"github.com/leofalp/toolloop/providers/ai/middleware"
	"github.com/leofalp/toolloop/providers/eventing"
	"github.com/leofalp/toolloop/providers/memory"
	"github.com/leofalp/toolloop/providers/observability"
	"github.com/leofalp/toolloop/providers/tool"
)

// DefaultMaxSubtasks is the subtask budget of a [Toolkit] run.
const DefaultMaxSubtasks = config.DefaultMaxSubtasks

// Option is a functional option for configuring a controller.
type Option func(*options)

type options struct {
	tools       []tool.Tool
	maxSubtasks int
	model       string
	tagged      bool
	grammar     grammar.Grammar
	renderer    prompt.Renderer
	observer    observability.Provider
	sink        eventing.Sink
	memory      memory.Provider
	middlewares []middleware.Middleware
}

func applyOptions(opts ...Option) *options {
	o := &options{maxSubtasks: DefaultMaxSubtasks}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTools registers tools. Names must be unique, ignoring case.
//
// Example:
//
//	react.NewToolkit(provider,
//	    react.WithTools(calculator.New(), webfetch.New()),
//	)
func WithTools(tools ...tool.Tool) Option {
	return func(o *options) {
		o.tools = append(o.tools, tools...)
	}
}

// WithMaxSubtasks sets how many subtasks a single run may create. The
// subtask that reaches the limit is resolved with an Error artifact instead
// of being run. Values below 1 are rejected by the constructor.
func WithMaxSubtasks(maxSubtasks int) Option {
	return func(o *options) {
		o.maxSubtasks = maxSubtasks
	}
}

// WithModel sets the model name sent with every completion request.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithGrammar forces a calling grammar. By default the tagged grammar is
// used when any registered tool asks for it and the bracket grammar
// otherwise.
func WithGrammar(g grammar.Grammar) Option {
	return func(o *options) {
		o.grammar = g
	}
}

// WithRenderer replaces the default prompt renderer.
func WithRenderer(renderer prompt.Renderer) Option {
	return func(o *options) {
		o.renderer = renderer
	}
}

// WithObserver enables logging, tracing and metrics. A nil observer (the
// default) disables them.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithEventSink publishes subtask lifecycle events to sink.
func WithEventSink(sink eventing.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithMemory replays the conversation held by m after the system prompt and
// records every run's input and output in it.
func WithMemory(m memory.Provider) Option {
	return func(o *options) {
		o.memory = m
	}
}

// WithMiddleware wraps the provider with mws, the first being the outermost.
//
// Example:
//
//	react.NewToolkit(provider,
//	    react.WithMiddleware(
//	        middleware.Timeout(30*time.Second),
//	        middleware.Retry(middleware.RetryConfig{MaxRetries: 3}),
//	    ),
//	)
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

// WithConfig applies the budget, model and calling grammar of cfg. Options
// given after it override the same settings.
//
// Example:
//
//	cfg, err := config.Load("toolloop.yaml")
//	if err != nil {
//	    return err
//	}
//	react.NewToolkit(provider,
//	    react.WithConfig(cfg),
//	    react.WithObserver(cfg.Observer()),
//	)
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.maxSubtasks = cfg.MaxSubtasks
		if cfg.Model != "" {
			o.model = cfg.Model
		}
		o.tagged = cfg.TaggedCalling
	}
}
