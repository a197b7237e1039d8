package inmemory

import (
	"context"
	"sync"

	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/memory"
	"github.com/leofalp/toolloop/providers/observability"
)

// ArrayMemory is a simple, concurrency-safe in-memory message store.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

var _ memory.Provider = (*ArrayMemory)(nil)

// New returns an empty [ArrayMemory] seeded with messages, if any.
func New(messages ...ai.Message) *ArrayMemory {
	return &ArrayMemory{messages: append([]ai.Message{}, messages...)}
}

// AppendMessage stores a copy of message at the end of the history. It is a
// no-op when message is nil. A span in ctx receives a memory.append event and
// the running message count.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message *ai.Message) {
	if message == nil {
		return
	}

	m.mu.Lock()
	m.messages = append(m.messages, *message)
	total := len(m.messages)
	m.mu.Unlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryMessageLength, len(message.Content)),
		)
		span.SetAttributes(observability.Int(observability.AttrMemoryTotalMessages, total))
	}
}

// Count returns the number of messages stored. The error is always nil.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

// AllMessages returns a copy of the history. The error is always nil.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ai.Message{}, m.messages...), nil
}

// LastMessages returns up to the last n messages as an independent slice.
func (m *ArrayMemory) LastMessages(_ context.Context, n int) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 {
		return []ai.Message{}, nil
	}
	n = min(n, len(m.messages))
	return append([]ai.Message{}, m.messages[len(m.messages)-n:]...), nil
}

// ClearMessages removes all messages while retaining capacity.
func (m *ArrayMemory) ClearMessages(ctx context.Context) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	m.mu.Lock()
	m.messages = m.messages[:0]
	m.mu.Unlock()
}
