package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/planwave/pkg/domain"
	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
	"github.com/felixgeelhaar/planwave/pkg/domain/quality"
)

// DefaultPolicy returns the policy used when no policy.yaml exists.
func DefaultPolicy() *domain.PolicyConfig {
	return &domain.PolicyConfig{
		AllowAI:          true,
		TokenLimit:       0,
		FileLimit:        planning.DefaultFileLimit,
		QualityThreshold: quality.DefaultQualityThreshold,
		MaxIterations:    quality.DefaultMaxIterations,
	}
}

func (r *FilesystemRepository) SavePolicy(policy *domain.PolicyConfig) error {
	path, err := r.ResolvePath(PolicyFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to marshal policy: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// LoadPolicy reads policy.yaml, returning defaults when the file is absent.
func (r *FilesystemRepository) LoadPolicy() (*domain.PolicyConfig, error) {
	path, err := r.ResolvePath(PolicyFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPolicy(), nil
		}
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy: %w", err)
	}

	if policy.FileLimit <= 0 {
		policy.FileLimit = planning.DefaultFileLimit
	}
	if policy.QualityThreshold <= 0 {
		policy.QualityThreshold = quality.DefaultQualityThreshold
	}
	if policy.MaxIterations <= 0 {
		policy.MaxIterations = quality.DefaultMaxIterations
	}

	return policy, nil
}
