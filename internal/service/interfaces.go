package service

import (
	"context"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/alexanderramin/orbit/internal/repository"
	"github.com/alexanderramin/orbit/internal/transfer"
)

// BoardService owns the current board and applies every edit to it.
type BoardService interface {
	Load(ctx context.Context) (*domain.State, error)
	Current() *domain.State
	Revision() int64

	AddCampaign(ctx context.Context, d domain.CampaignDraft) (*domain.Campaign, error)
	RenameCampaign(ctx context.Context, id, name string) error
	SetMission(ctx context.Context, id, text string) error
	ClearMission(ctx context.Context, id string) error
	SetCampaignColor(ctx context.Context, id, color string) error
	MoveCampaign(ctx context.Context, id string, x, y float64) error
	MoveCampaignToSlot(ctx context.Context, id string, index int) error
	DeleteCampaign(ctx context.Context, id string) (*DeleteCampaignResult, error)

	AddProject(ctx context.Context, d domain.ProjectDraft) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*UpdateProjectResult, error)
	DeleteProject(ctx context.Context, id string) error

	Layout(ctx context.Context, strategy layout.Strategy, vp layout.Viewport) (layout.Placement, error)
	ResetLayout(ctx context.Context) error

	Replace(ctx context.Context, incoming *domain.State, reason string) (*ReplaceResult, error)
	Flush(ctx context.Context) error
	Sync(ctx context.Context) (bool, error)
	Watch(ctx context.Context, interval time.Duration) error
	Subscribe(fn func(*domain.State)) (unsubscribe func())
}

// TransferService moves whole boards in and out of the store.
type TransferService interface {
	Export(ctx context.Context) ([]byte, transfer.Summary, error)
	ExportFile(ctx context.Context, path string) (transfer.Summary, error)
	Import(ctx context.Context, data []byte) (*ImportResult, error)
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	History(ctx context.Context, limit int) ([]repository.HistoryEntry, error)
	Restore(ctx context.Context, seq int64) (*ImportResult, error)
}

// DeleteCampaignResult lists the projects removed because the deleted
// campaign was their last membership.
type DeleteCampaignResult struct {
	Campaign        domain.Campaign
	RemovedProjects []domain.Project
}

// UpdateProjectResult holds the updated project, or Deleted when the patch
// left it without a campaign.
type UpdateProjectResult struct {
	Project *domain.Project
	Deleted bool
}

// ReplaceResult describes a wholesale board replacement.
type ReplaceResult struct {
	Revision  int64
	BackupSeq int64
}

// ImportResult holds the outcome of an import or restore.
type ImportResult struct {
	Summary   transfer.Summary
	Revision  int64
	BackupSeq int64
}
