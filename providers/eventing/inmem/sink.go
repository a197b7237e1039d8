package inmem

import (
	"context"
	"errors"
	"sync"

	"github.com/leofalp/toolloop/providers/eventing"
)

// ErrContextNil is returned when Publish receives a nil context.
var ErrContextNil = errors.New("toolloop: nil context")

// Sink captures events in memory and exposes deterministic snapshots.
type Sink struct {
	mu     sync.RWMutex
	events []eventing.Event
}

var _ eventing.Sink = (*Sink)(nil)

func New() *Sink {
	return &Sink{events: make([]eventing.Event, 0)}
}

func (s *Sink) Publish(ctx context.Context, event eventing.Event) error {
	if ctx == nil {
		return ErrContextNil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := eventing.Validate(event); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, eventing.Clone(event))
	return nil
}

// Events returns a snapshot of the published events in order.
func (s *Sink) Events() []eventing.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]eventing.Event, len(s.events))
	for i := range s.events {
		out[i] = eventing.Clone(s.events[i])
	}
	return out
}

// Types returns the type of every published event in order.
func (s *Sink) Types() []eventing.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]eventing.Type, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

// Reset drops every captured event.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}
