package ai

import (
	"context"
)

// CompletionRequest represents a prompt to the AI.
type CompletionRequest struct {
	Prompt      string
	System      string
	Temperature float32
	MaxTokens   int
	// ThinkingBudget grants extra reasoning tokens. Zero disables it.
	ThinkingBudget int
}

// CompletionResponse represents the AI's answer.
type CompletionResponse struct {
	Text  string
	Usage TokenUsage
	Model string
}

// TokenUsage tracks costs. CachedInputTokens counts input served from
// the provider's prompt cache at a discounted rate.
type TokenUsage struct {
	InputTokens       int
	OutputTokens      int
	CachedInputTokens int
}

// Provider is the interface for all AI backends.
type Provider interface {
	ID() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
