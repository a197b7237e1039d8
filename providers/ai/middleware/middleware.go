package middleware

import (
	"context"

	"github.com/leofalp/toolloop/providers/ai"
)

// SendFunc sends a chat request and returns the completed response.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps the next SendFunc of the chain.
type Middleware func(next SendFunc) SendFunc

// Chain returns a provider that passes every request through mws before it
// reaches provider. The first middleware is the outermost. Nil middlewares
// are skipped; without any, provider is returned unchanged.
func Chain(provider ai.Provider, mws ...Middleware) ai.Provider {
	send := SendFunc(provider.SendMessage)
	applied := 0
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		send = mws[i](send)
		applied++
	}
	if applied == 0 {
		return provider
	}
	return chained{send: send}
}

type chained struct {
	send SendFunc
}

func (c chained) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return c.send(ctx, request)
}
