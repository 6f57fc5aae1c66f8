package pricing

import "testing"

func TestTable_Cost(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name   string
		model  string
		input  int
		output int
		want   float64
	}{
		{"gpt-4o", "gpt-4o", 1000, 500, 0.0075},
		{"sonnet", "claude-3-5-sonnet-20240620", 1_000_000, 0, 3.0},
		{"local model is free", "llama3", 100000, 100000, 0},
		{"unknown model uses fallback", "mystery-model", 1_000_000, 1_000_000, 18.0},
		{"zero tokens", "gpt-4o", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Cost(tt.model, tt.input, tt.output); got != tt.want {
				t.Errorf("Cost(%s, %d, %d) = %v, want %v", tt.model, tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestTable_CostRounding(t *testing.T) {
	table := DefaultTable()
	// 1 input token of gpt-4o is 2.5e-6 USD; rounds to 3e-6 at 1e-6 precision.
	got := table.Cost("gpt-4o", 1, 0)
	if got != 0.000003 {
		t.Errorf("Cost = %v, want 0.000003", got)
	}
}

func TestTable_CacheSavings(t *testing.T) {
	table := DefaultTable()

	// gpt-4o: input 2.5, cached 1.25 per MTok. 1M cached tokens save 1.25 USD.
	if got := table.CacheSavings("gpt-4o", 1_000_000); got != 1.25 {
		t.Errorf("CacheSavings = %v, want 1.25", got)
	}
	if got := table.CacheSavings("gpt-4o", 0); got != 0 {
		t.Errorf("CacheSavings with no cached tokens = %v, want 0", got)
	}
	// A free model cannot produce negative savings.
	if got := table.CacheSavings("llama3", 1_000_000); got != 0 {
		t.Errorf("CacheSavings for free model = %v, want 0", got)
	}
}

func TestRoundUSD(t *testing.T) {
	if got := RoundUSD(0.0000014); got != 0.000001 {
		t.Errorf("RoundUSD = %v, want 0.000001", got)
	}
	if got := RoundUSD(0.0000015); got != 0.000002 {
		t.Errorf("RoundUSD = %v, want 0.000002", got)
	}
}
