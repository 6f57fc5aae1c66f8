package application

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/planwave/pkg/domain"
	"github.com/felixgeelhaar/planwave/pkg/domain/ai"
	"github.com/felixgeelhaar/planwave/pkg/domain/pricing"
)

// UsageService accumulates token counts and USD spend per model in
// usage.json. Cost is computed from the pricing table at record time
// so a later table change never rewrites history.
type UsageService struct {
	repo  domain.WorkspaceRepository
	table *pricing.Table
}

func NewUsageService(repo domain.WorkspaceRepository, table *pricing.Table) *UsageService {
	if table == nil {
		table = pricing.DefaultTable()
	}
	return &UsageService{repo: repo, table: table}
}

// RecordCall accounts one provider completion under the given command
// name and returns the USD cost of that call.
func (s *UsageService) RecordCall(command, model string, usage ai.TokenUsage) (float64, error) {
	stats, err := s.repo.LoadUsage()
	if err != nil {
		return 0, fmt.Errorf("failed to load usage stats: %w", err)
	}
	if stats == nil {
		stats = &domain.UsageStats{ProviderStats: map[string]int{}}
	}
	if stats.ProviderStats == nil {
		stats.ProviderStats = map[string]int{}
	}

	cost := s.table.Cost(model, usage.InputTokens, usage.OutputTokens)
	savings := s.table.CacheSavings(model, usage.CachedInputTokens)

	stats.TotalCommands++
	stats.LastCommandAt = time.Now().UTC()
	stats.ProviderStats[model+":input"] += usage.InputTokens
	stats.ProviderStats[model+":output"] += usage.OutputTokens
	if usage.CachedInputTokens > 0 {
		stats.ProviderStats[model+":cached_input"] += usage.CachedInputTokens
	}
	stats.ProviderStats["command:"+command]++
	stats.TotalCostUSD = pricing.RoundUSD(stats.TotalCostUSD + cost)
	stats.CacheSavingsUSD = pricing.RoundUSD(stats.CacheSavingsUSD + savings)

	if err := s.repo.UpdateUsage(*stats); err != nil {
		return 0, fmt.Errorf("failed to persist usage stats: %w", err)
	}
	return cost, nil
}

// Stats returns the current usage snapshot, zero-valued when no calls
// were recorded yet.
func (s *UsageService) Stats() (*domain.UsageStats, error) {
	stats, err := s.repo.LoadUsage()
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &domain.UsageStats{ProviderStats: map[string]int{}}
	}
	return stats, nil
}

// Cost exposes the underlying table for callers that account spend
// themselves (the eval loop tracks per-run cost separately).
func (s *UsageService) Cost(model string, usage ai.TokenUsage) float64 {
	return s.table.Cost(model, usage.InputTokens, usage.OutputTokens)
}

// CacheSavings exposes the table's cache discount estimate.
func (s *UsageService) CacheSavings(model string, cachedTokens int) float64 {
	return s.table.CacheSavings(model, cachedTokens)
}
