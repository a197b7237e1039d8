package inmemory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
)

type eventSpan struct {
	events []string
	attrs  []observability.Attribute
}

func (s *eventSpan) End()                                                        {}
func (s *eventSpan) SetStatus(code observability.StatusCode, description string) {}
func (s *eventSpan) RecordError(err error)                                       {}
func (s *eventSpan) SetAttributes(attrs ...observability.Attribute) {
	s.attrs = append(s.attrs, attrs...)
}
func (s *eventSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.events = append(s.events, name)
}

func TestArrayMemory_AppendAndAllMessages(t *testing.T) {
	ctx := context.Background()
	m := New()
	if n, _ := m.Count(ctx); n != 0 {
		t.Fatalf("expected empty memory")
	}

	m.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: "hi"})
	m.AppendMessage(ctx, nil)
	m.AppendMessage(ctx, &ai.Message{Role: ai.RoleAssistant, Content: "hello"})

	if n, _ := m.Count(ctx); n != 2 {
		t.Fatalf("expected 2 messages, got %d", n)
	}

	all, err := m.AllMessages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []ai.Message{{Role: ai.RoleUser, Content: "hi"}, {Role: ai.RoleAssistant, Content: "hello"}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	all[0].Content = "changed"
	again, _ := m.AllMessages(ctx)
	if again[0].Content == "changed" {
		t.Fatalf("expected copy protection in AllMessages")
	}
}

func TestArrayMemory_Seeded(t *testing.T) {
	seed := []ai.Message{{Role: ai.RoleUser, Content: "earlier"}}
	m := New(seed...)
	seed[0].Content = "mutated"

	all, _ := m.AllMessages(context.Background())
	if len(all) != 1 || all[0].Content != "earlier" {
		t.Fatalf("unexpected seeded history: %v", all)
	}
}

func TestArrayMemory_LastMessages(t *testing.T) {
	ctx := context.Background()
	m := New()
	for i := 0; i < 5; i++ {
		m.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: string(rune('a' + i))})
	}

	last, _ := m.LastMessages(ctx, 2)
	if len(last) != 2 || last[0].Content != "d" || last[1].Content != "e" {
		t.Fatalf("unexpected last messages: %v", last)
	}
	if none, _ := m.LastMessages(ctx, 0); len(none) != 0 {
		t.Fatalf("expected empty when n <= 0")
	}
	if all, _ := m.LastMessages(ctx, 10); len(all) != 5 {
		t.Fatalf("expected full slice when n > len, got %d", len(all))
	}
}

func TestArrayMemory_ClearAndSpan(t *testing.T) {
	span := &eventSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)
	m := New()

	m.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: "x"})
	m.ClearMessages(ctx)

	if n, _ := m.Count(ctx); n != 0 {
		t.Fatalf("expected empty memory after clear, got %d", n)
	}
	want := []string{observability.EventMemoryAppend, observability.EventMemoryClear}
	if diff := cmp.Diff(want, span.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := New()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.AppendMessage(ctx, &ai.Message{Role: ai.RoleUser, Content: "x"})
		}()
		go func() {
			defer wg.Done()
			_, _ = m.AllMessages(ctx)
		}()
	}
	wg.Wait()

	if n, _ := m.Count(ctx); n != 100 {
		t.Fatalf("expected 100 messages, got %d", n)
	}
}
