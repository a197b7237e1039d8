package scripted

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/leofalp/toolloop/providers/ai"
)

// ErrExhausted is returned once every scripted completion has been served.
var ErrExhausted = errors.New("toolloop: scripted completions exhausted")

// Provider replays canned completions in order and records every request it
// receives. It is safe for concurrent use.
type Provider struct {
	mu        sync.Mutex
	model     string
	responses []string
	errs      map[int]error
	requests  []ai.ChatRequest
}

var _ ai.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithModel sets the model name reported in responses.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithErrorAt makes the call with the given zero-based index fail with err
// instead of consuming a completion.
func WithErrorAt(call int, err error) Option {
	return func(p *Provider) {
		p.errs[call] = err
	}
}

// New creates a provider serving completions in order.
func New(completions []string, opts ...Option) *Provider {
	p := &Provider{
		model:     "scripted",
		responses: append([]string(nil), completions...),
		errs:      make(map[int]error),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SendMessage implements [ai.Provider].
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	call := len(p.requests)
	p.requests = append(p.requests, cloneRequest(request))

	if err, ok := p.errs[call]; ok {
		return nil, err
	}

	served := call - p.failuresBefore(call)
	if served >= len(p.responses) {
		return nil, fmt.Errorf("%w after %d calls", ErrExhausted, call)
	}

	content := p.responses[served]
	return &ai.ChatResponse{
		Id:           uuid.NewString(),
		Model:        p.model,
		Content:      content,
		FinishReason: "stop",
		Usage: &ai.Usage{
			CompletionTokens: len(content),
			TotalTokens:      len(content),
		},
	}, nil
}

func (p *Provider) failuresBefore(call int) int {
	n := 0
	for i := range p.errs {
		if i < call {
			n++
		}
	}
	return n
}

// Requests returns a copy of the requests received so far.
func (p *Provider) Requests() []ai.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ai.ChatRequest(nil), p.requests...)
}

// Calls returns the number of SendMessage calls received.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func cloneRequest(r ai.ChatRequest) ai.ChatRequest {
	r.Messages = append([]ai.Message(nil), r.Messages...)
	return r
}
