// Package llm provides completion service client interfaces and
// implementations.
package llm

import (
	"context"
	"errors"

	"github.com/bea-tech/site-assistant/internal/model"
	"github.com/bea-tech/site-assistant/internal/tool"
)

// Distinguished failure kinds surfaced to the controller. All three map
// to the same user-visible apology; the kind is logged for diagnosis.
var (
	// ErrUnauthenticated reports a missing or rejected credential.
	ErrUnauthenticated = errors.New("completion service credential missing or invalid")
	// ErrUnavailable reports a network or backend failure.
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrMalformedResponse reports a payload carrying neither text nor
	// a tool call.
	ErrMalformedResponse = errors.New("completion service returned an unparseable response")
)

// CompletionRequest carries one stateless completion call. The full
// history must be resent each time; the service keeps no per-call
// memory.
type CompletionRequest struct {
	History      []model.Turn
	SystemPrompt string
	Tools        []tool.Declaration
	MaxTokens    int
}

// CompletionResponse is the classified result of a completion call:
// free text, one or more tool invocation requests, or both.
type CompletionResponse struct {
	Text      string           `json:"text,omitempty"`
	ToolCalls []model.ToolCall `json:"functionCalls,omitempty"`
	Model     string           `json:"-"`
	LatencyMs int64            `json:"-"`
}

// HasToolCall reports whether the response requests at least one
// structured action.
func (r *CompletionResponse) HasToolCall() bool {
	return len(r.ToolCalls) > 0
}

// Client is the boundary to a generative-language backend.
type Client interface {
	// Complete sends one stateless completion request.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of completion provider.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// NewClient creates a completion client for the given provider.
func NewClient(ctx context.Context, provider Provider, apiKey, modelName string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, modelName)
	case ProviderGemini:
		return NewGeminiClient(ctx, apiKey, modelName)
	default:
		return NewGeminiClient(ctx, apiKey, modelName)
	}
}
