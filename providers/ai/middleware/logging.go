package middleware

import (
	"context"

	"github.com/leofalp/toolloop/internal/utils"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
)

// LogLevel controls how much of each request the logging middleware writes.
type LogLevel int

const (
	// LogLevelMinimal logs the model, the duration and the token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the message count and the finish reason.
	LogLevelStandard

	// LogLevelVerbose adds the last message and the completion text,
	// truncated to 500 characters.
	//
	// WARNING: prompts and completions may contain sensitive data. Do not use
	// it in production.
	LogLevelVerbose
)

const truncateLen = 500

// Logging writes one record before and one after every request. A nil
// logger disables the middleware.
func Logging(logger observability.Logger, level LogLevel) Middleware {
	return func(next SendFunc) SendFunc {
		if logger == nil {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			logger.Info(ctx, "Completion request", requestAttrs(request, level)...)

			timer := utils.NewTimer()
			response, err := next(ctx, request)
			elapsed := timer.Stop()

			if err != nil {
				logger.Error(ctx, "Completion request failed",
					observability.String(observability.AttrLLMModel, request.Model),
					observability.Duration(observability.AttrDuration, elapsed),
					observability.Error(err),
				)
				return nil, err
			}

			attrs := append(responseAttrs(response, level),
				observability.Duration(observability.AttrDuration, elapsed))
			logger.Info(ctx, "Completion received", attrs...)
			return response, nil
		}
	}
}

func requestAttrs(request ai.ChatRequest, level LogLevel) []observability.Attribute {
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, request.Model),
	}
	if level >= LogLevelStandard {
		attrs = append(attrs, observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)))
	}
	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		last := request.Messages[len(request.Messages)-1]
		attrs = append(attrs,
			observability.String(observability.AttrMemoryMessageRole, string(last.Role)),
			observability.String("request.last_message", observability.TruncateString(last.Content, truncateLen)),
		)
	}
	return attrs
}

func responseAttrs(response *ai.ChatResponse, level LogLevel) []observability.Attribute {
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, response.Model),
	}
	if response.Usage != nil {
		attrs = append(attrs,
			observability.Int("usage.prompt_tokens", response.Usage.PromptTokens),
			observability.Int("usage.completion_tokens", response.Usage.CompletionTokens),
			observability.Int("usage.total_tokens", response.Usage.TotalTokens),
		)
	}
	if level >= LogLevelStandard && response.FinishReason != "" {
		attrs = append(attrs, observability.String(observability.AttrLLMFinishReason, response.FinishReason))
	}
	if level >= LogLevelVerbose && response.Content != "" {
		attrs = append(attrs, observability.String(observability.AttrResponseContent, observability.TruncateString(response.Content, truncateLen)))
	}
	return attrs
}
