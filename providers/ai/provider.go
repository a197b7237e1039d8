package ai

import (
	"context"
)

// Provider is the completion backend consumed by the controllers. Vendor
// adapters live outside this module; [scripted] ships a replaying provider
// for tests and examples.
type Provider interface {
	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}
