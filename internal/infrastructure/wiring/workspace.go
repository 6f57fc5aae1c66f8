package wiring

import (
	"github.com/felixgeelhaar/planwave/pkg/application"
	"github.com/felixgeelhaar/planwave/pkg/domain/pricing"
	"github.com/felixgeelhaar/planwave/pkg/storage"
)

// Workspace bundles core infrastructure dependencies.
type Workspace struct {
	Repo  *storage.FilesystemRepository
	Audit *application.AuditService
	Usage *application.UsageService
}

func NewWorkspace(root string) *Workspace {
	repo := storage.NewFilesystemRepository(root)
	return &Workspace{
		Repo:  repo,
		Audit: application.NewAuditService(repo),
		Usage: application.NewUsageService(repo, pricing.DefaultTable()),
	}
}
