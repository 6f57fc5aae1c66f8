package application

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/planwave/pkg/domain"
)

// AuditService appends hash-chained events to the workspace audit
// trail. Each event's hash covers the previous event's hash, so any
// retroactive edit breaks the chain.
type AuditService struct {
	repo domain.WorkspaceRepository
}

var _ domain.AuditLogger = (*AuditService)(nil)

func NewAuditService(repo domain.WorkspaceRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Log(action, actor string, metadata map[string]interface{}) error {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return fmt.Errorf("failed to load events for chaining: %w", err)
	}

	prevHash := ""
	if len(events) > 0 {
		prevHash = events[len(events)-1].Hash
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Action:    action,
		Actor:     actor,
		Metadata:  metadata,
		PrevHash:  prevHash,
	}
	event.Hash = event.CalculateHash()

	return s.repo.RecordEvent(event)
}

// VerifyIntegrity recomputes every hash in the chain and reports the
// index of the first broken link, or -1 when the chain is intact.
func (s *AuditService) VerifyIntegrity() (int, error) {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return -1, err
	}

	prevHash := ""
	for i := range events {
		e := events[i]
		if e.PrevHash != prevHash {
			return i, nil
		}
		if e.CalculateHash() != e.Hash {
			return i, nil
		}
		prevHash = e.Hash
	}
	return -1, nil
}
