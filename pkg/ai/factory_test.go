package ai

import "testing"

func TestNewProvider(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		wantID   string
		wantErr  bool
	}{
		{"ollama", "llama3", "ollama:llama3", false},
		{"", "", "ollama:llama3", false},
		{"mock", "test-model", "mock:test-model", false},
		{"openai", "gpt-4o", "openai:gpt-4o", false},
		{"anthropic", "claude-3-5-haiku-20241022", "anthropic:claude-3-5-haiku-20241022", false},
		{"carrier-pigeon", "x", "", true},
	}

	for _, tt := range tests {
		p, err := NewProvider(tt.provider, tt.model)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewProvider(%q) expected error", tt.provider)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewProvider(%q): %v", tt.provider, err)
			continue
		}
		if p.ID() != tt.wantID {
			t.Errorf("ID = %s, want %s", p.ID(), tt.wantID)
		}
	}
}

func TestGetDefaultProvider_EnvOverride(t *testing.T) {
	t.Setenv("PLANWAVE_AI_PROVIDER", "mock")
	t.Setenv("PLANWAVE_AI_MODEL", "scripted")

	p, err := GetDefaultProvider("ollama", "llama3")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID() != "mock:scripted" {
		t.Errorf("ID = %s, want env override mock:scripted", p.ID())
	}
}
