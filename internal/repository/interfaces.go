package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
)

// Snapshot is the stored board together with its store bookkeeping.
type Snapshot struct {
	State    *domain.State
	Revision int64
	SavedAt  time.Time
}

// HistoryEntry is a board that was replaced, kept so it can be restored.
type HistoryEntry struct {
	Seq     int64
	State   *domain.State
	Reason  string
	SavedAt time.Time
}

// SnapshotRepo persists the single current board and a history of replaced
// boards. Loaded payloads are always passed through domain normalization.
type SnapshotRepo interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *domain.State) (int64, error)
	Revision(ctx context.Context) (int64, error)
	AppendHistory(ctx context.Context, s *domain.State, reason string) (int64, error)
	ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
	GetHistory(ctx context.Context, seq int64) (*HistoryEntry, error)
	PruneHistory(ctx context.Context, keep int) (int64, error)
}
