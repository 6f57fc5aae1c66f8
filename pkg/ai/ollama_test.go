package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainai "github.com/felixgeelhaar/planwave/pkg/domain/ai"
)

func TestOllamaComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("streaming must be disabled")
		}
		if req.Model != "llama3" {
			t.Errorf("model = %s, want llama3", req.Model)
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "  generated text  ", Done: true})
	}))
	defer server.Close()

	p := NewOllamaProviderWithURL("llama3", server.URL)
	resp, err := p.Complete(context.Background(), domainai.CompletionRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "generated text" {
		t.Errorf("text = %q, want trimmed response", resp.Text)
	}
	if resp.Model != "llama3" {
		t.Errorf("model = %s", resp.Model)
	}
}

func TestOllamaComplete_JSONFormatDetection(t *testing.T) {
	var gotFormat string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotFormat = req.Format
		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "{}", Done: true})
	}))
	defer server.Close()

	p := NewOllamaProviderWithURL("llama3", server.URL)
	_, err := p.Complete(context.Background(), domainai.CompletionRequest{
		Prompt: "Respond ONLY with a JSON object",
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotFormat != "json" {
		t.Errorf("format = %q, want json when the prompt asks for JSON", gotFormat)
	}
}

func TestOllamaComplete_RejectsInvalidModelName(t *testing.T) {
	p := NewOllamaProviderWithURL("bad model; rm -rf", "http://localhost:0")
	if _, err := p.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected model name validation error")
	}
}

func TestOllamaComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewOllamaProviderWithURL("llama3", server.URL)
	if _, err := p.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected API error")
	}
}
