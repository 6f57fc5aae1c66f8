// Package pricing supplies per-model token pricing for cost
// accounting. Hosts can inject their own table; the built-in default
// covers the providers shipped with planwave.
package pricing

import "math"

// ModelPrice holds USD prices per million tokens.
type ModelPrice struct {
	InputPerMTok       float64 `yaml:"input_per_mtok" json:"input_per_mtok"`
	OutputPerMTok      float64 `yaml:"output_per_mtok" json:"output_per_mtok"`
	CachedInputPerMTok float64 `yaml:"cached_input_per_mtok" json:"cached_input_per_mtok"`
}

// Table maps model identifiers to prices.
type Table struct {
	models   map[string]ModelPrice
	fallback ModelPrice
}

// defaultFallback is charged for unknown models so costs are never
// silently zero.
var defaultFallback = ModelPrice{InputPerMTok: 3.0, OutputPerMTok: 15.0, CachedInputPerMTok: 0.3}

// DefaultTable returns pricing for the providers planwave ships with.
func DefaultTable() *Table {
	return &Table{
		fallback: defaultFallback,
		models: map[string]ModelPrice{
			"claude-3-5-sonnet-20240620": {InputPerMTok: 3.0, OutputPerMTok: 15.0, CachedInputPerMTok: 0.3},
			"claude-3-5-haiku-20241022":  {InputPerMTok: 0.8, OutputPerMTok: 4.0, CachedInputPerMTok: 0.08},
			"gpt-4o":                     {InputPerMTok: 2.5, OutputPerMTok: 10.0, CachedInputPerMTok: 1.25},
			"gpt-4o-mini":                {InputPerMTok: 0.15, OutputPerMTok: 0.6, CachedInputPerMTok: 0.075},
			"llama3":                     {}, // local models are free
		},
	}
}

// NewTable builds a table from explicit model prices.
func NewTable(models map[string]ModelPrice, fallback ModelPrice) *Table {
	if models == nil {
		models = map[string]ModelPrice{}
	}
	return &Table{models: models, fallback: fallback}
}

// PriceFor returns the price row for a model, falling back to the
// default row for unknown models.
func (t *Table) PriceFor(model string) ModelPrice {
	if p, ok := t.models[model]; ok {
		return p
	}
	return t.fallback
}

// Cost returns the USD cost of one call, rounded to 1e-6.
func (t *Table) Cost(model string, inputTokens, outputTokens int) float64 {
	p := t.PriceFor(model)
	cost := float64(inputTokens)/1e6*p.InputPerMTok + float64(outputTokens)/1e6*p.OutputPerMTok
	return RoundUSD(cost)
}

// CacheSavings estimates the USD saved by tokens served from the
// provider prompt cache: cached volume priced at the full input rate
// minus the discounted cached rate.
func (t *Table) CacheSavings(model string, cachedTokens int) float64 {
	p := t.PriceFor(model)
	saved := float64(cachedTokens) / 1e6 * (p.InputPerMTok - p.CachedInputPerMTok)
	if saved < 0 {
		saved = 0
	}
	return RoundUSD(saved)
}

// RoundUSD rounds to the nearest 1e-6 dollar.
func RoundUSD(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
