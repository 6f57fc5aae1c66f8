package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/planwave/pkg/domain"
)

type calibrationHistory struct {
	Records []domain.CalibrationRecord `yaml:"records"`
}

// AppendCalibrationRecord adds an actual-vs-estimate sample to history.yaml.
func (r *FilesystemRepository) AppendCalibrationRecord(record domain.CalibrationRecord) error {
	records, err := r.LoadCalibrationHistory()
	if err != nil {
		return err
	}

	records = append(records, record)

	path, err := r.ResolvePath(HistoryFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(calibrationHistory{Records: records})
	if err != nil {
		return fmt.Errorf("failed to marshal calibration history: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadCalibrationHistory() ([]domain.CalibrationRecord, error) {
	path, err := r.ResolvePath(HistoryFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.CalibrationRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read calibration history: %w", err)
	}

	var history calibrationHistory
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calibration history: %w", err)
	}

	return history.Records, nil
}
