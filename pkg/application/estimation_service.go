package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/planwave/pkg/domain"
	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
)

// minCalibrationSamples is the number of recorded actuals required
// before the learned factor replaces the default.
const minCalibrationSamples = 3

// Factor clamps. A factor outside this band means the history is
// dominated by outliers and should not steer estimates that hard.
const (
	minCalibrationFactor = 0.1
	maxCalibrationFactor = 2.0
)

// EstimationService derives the calibration factor applied to raw
// decomposer estimates from the workspace's recorded actuals.
type EstimationService struct {
	repo domain.WorkspaceRepository
}

func NewEstimationService(repo domain.WorkspaceRepository) *EstimationService {
	return &EstimationService{repo: repo}
}

// RecordActual stores one estimate-vs-actual sample.
func (s *EstimationService) RecordActual(taskTitle string, estimateMinutes, actualMinutes float64) error {
	if estimateMinutes <= 0 || actualMinutes <= 0 {
		return fmt.Errorf("estimate and actual must be positive, got %v and %v", estimateMinutes, actualMinutes)
	}
	return s.repo.AppendCalibrationRecord(domain.CalibrationRecord{
		TaskTitle:       taskTitle,
		EstimateMinutes: estimateMinutes,
		ActualMinutes:   actualMinutes,
		RecordedAt:      time.Now().UTC(),
	})
}

// CalibrationFactor returns the median actual/estimate ratio over
// recorded history, clamped to [0.1, 2.0]. With fewer than three
// samples it returns the default factor: agents overestimate wall
// time by roughly half, so raw estimates are halved until the
// workspace has evidence of its own.
func (s *EstimationService) CalibrationFactor() (float64, error) {
	records, err := s.repo.LoadCalibrationHistory()
	if err != nil {
		return 0, fmt.Errorf("failed to load calibration history: %w", err)
	}

	ratios := make([]float64, 0, len(records))
	for _, rec := range records {
		if rec.EstimateMinutes > 0 && rec.ActualMinutes > 0 {
			ratios = append(ratios, rec.ActualMinutes/rec.EstimateMinutes)
		}
	}

	if len(ratios) < minCalibrationSamples {
		return planning.DefaultCalibrationFactor, nil
	}

	sort.Float64s(ratios)
	var factor float64
	mid := len(ratios) / 2
	if len(ratios)%2 == 1 {
		factor = ratios[mid]
	} else {
		factor = (ratios[mid-1] + ratios[mid]) / 2
	}

	if factor < minCalibrationFactor {
		factor = minCalibrationFactor
	}
	if factor > maxCalibrationFactor {
		factor = maxCalibrationFactor
	}
	return factor, nil
}
