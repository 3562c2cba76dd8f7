package llm

import (
	"context"
	"errors"
	"time"

	"pathways-backend/internal/shared/metrics"
	"pathways-backend/internal/shared/telemetry"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single chat/completion call.
type ChatRequest struct {
	// Purpose labels the call in logs and metrics, e.g. "career_paths".
	Purpose     string
	Messages    []Message
	Temperature *float32
	MaxTokens   int
	// JSON asks the provider for a JSON object response when it supports it.
	JSON bool
}

// Client abstracts LLM providers.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

var (
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not implemented")
	// ErrEmptyResponse is returned when a provider answers with no text.
	ErrEmptyResponse = errors.New("llm response empty content")
)

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Chat returns ErrNotImplemented.
func (PlaceholderClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotImplemented
}

// Temperature returns a pointer for ChatRequest.Temperature.
func Temperature(v float32) *float32 {
	return &v
}

type instrumented struct {
	provider string
	base     Client
	now      func() time.Time
}

// Instrument wraps c so every call is logged and counted under provider.
func Instrument(provider string, c Client) Client {
	if c == nil {
		return nil
	}
	return instrumented{provider: provider, base: c, now: time.Now}
}

func (i instrumented) Chat(ctx context.Context, req ChatRequest) (string, error) {
	start := i.now()
	out, err := i.base.Chat(ctx, req)
	latency := i.now().Sub(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveLLMCall(i.provider, req.Purpose, outcome, latency)
	fields := map[string]any{
		"provider":    i.provider,
		"purpose":     req.Purpose,
		"messages":    len(req.Messages),
		"max_tokens":  req.MaxTokens,
		"duration_ms": float64(latency.Microseconds()) / 1000.0,
	}
	if err != nil {
		fields["error"] = err.Error()
		telemetry.Error("llm.call_failed", fields)
		return "", err
	}
	fields["response_chars"] = len(out)
	telemetry.Info("llm.call", fields)
	return out, nil
}
