package memory

import (
	"context"

	"github.com/leofalp/toolloop/providers/ai"
)

// Provider stores the conversation a controller replays after its system
// prompt. Read methods return errors so that backed implementations can
// surface failures.
type Provider interface {
	AppendMessage(ctx context.Context, message *ai.Message)
	AllMessages(ctx context.Context) ([]ai.Message, error)
	Count(ctx context.Context) (int, error)
	ClearMessages(ctx context.Context)
}
