package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/planwave/pkg/domain/ai"
)

// MockProvider returns scripted responses in order. It is used by the
// "mock" provider name for offline runs and by tests.
type MockProvider struct {
	Model     string
	Responses []string
	Err       error

	mu    sync.Mutex
	calls int
}

func NewMockProvider(model string, responses ...string) *MockProvider {
	if model == "" {
		model = "mock"
	}
	return &MockProvider{Model: model, Responses: responses}
}

func (p *MockProvider) ID() string {
	return "mock:" + p.Model
}

// Calls returns how many completions were requested.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	text := fmt.Sprintf("mock response for: %.40s", req.Prompt)
	if len(p.Responses) > 0 {
		idx := p.calls
		if idx >= len(p.Responses) {
			idx = len(p.Responses) - 1
		}
		text = p.Responses[idx]
	}
	p.calls++

	return &ai.CompletionResponse{
		Text:  text,
		Model: p.Model,
		Usage: ai.TokenUsage{
			InputTokens:  len(req.Prompt) / 4,
			OutputTokens: len(text) / 4,
		},
	}, nil
}
