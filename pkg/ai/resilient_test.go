package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	domainai "github.com/felixgeelhaar/planwave/pkg/domain/ai"
)

type flakyProvider struct {
	failures int
	calls    int
}

func (p *flakyProvider) ID() string { return "flaky" }

func (p *flakyProvider) Complete(ctx context.Context, req domainai.CompletionRequest) (*domainai.CompletionResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("transient failure")
	}
	return &domainai.CompletionResponse{Text: "ok", Model: "flaky"}, nil
}

func TestResilientProvider_RetriesTransientFailures(t *testing.T) {
	inner := &flakyProvider{failures: 1}
	p := NewResilientProviderWithConfig(inner, ResilienceConfig{
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		Timeout:    time.Second,
	})

	resp, err := p.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("text = %q", resp.Text)
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2 (one failure, one success)", inner.calls)
	}
}

func TestResilientProvider_GivesUpAfterMaxAttempts(t *testing.T) {
	inner := &flakyProvider{failures: 10}
	p := NewResilientProviderWithConfig(inner, ResilienceConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Timeout:    time.Second,
	})

	if _, err := p.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected failure after exhausting retries")
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestResilientProvider_PreservesID(t *testing.T) {
	p := NewResilientProvider(&flakyProvider{})
	if p.ID() != "flaky" {
		t.Errorf("ID = %s, want flaky", p.ID())
	}
}

func TestMockProvider_ScriptedResponses(t *testing.T) {
	m := NewMockProvider("m", "one", "two")

	for i, want := range []string{"one", "two", "two"} {
		resp, err := m.Complete(context.Background(), domainai.CompletionRequest{Prompt: "p"})
		if err != nil {
			t.Fatal(err)
		}
		if resp.Text != want {
			t.Errorf("call %d text = %q, want %q (last response repeats)", i, resp.Text, want)
		}
	}
	if m.Calls() != 3 {
		t.Errorf("calls = %d, want 3", m.Calls())
	}
}
