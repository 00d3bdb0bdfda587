package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/orbit/internal/repository"
	"github.com/alexanderramin/orbit/internal/transfer"
)

type transferService struct {
	board     *Board
	snapshots repository.SnapshotRepo
	observer  UseCaseObserver
}

// NewTransferService exports and imports whole boards through board.
func NewTransferService(board *Board, snapshots repository.SnapshotRepo, observers ...UseCaseObserver) TransferService {
	return &transferService{
		board:     board,
		snapshots: snapshots,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func summarize(campaigns, projects int) transfer.Summary {
	return transfer.Summary{CampaignCount: campaigns, ProjectCount: projects}
}

func (s *transferService) Export(ctx context.Context) ([]byte, transfer.Summary, error) {
	if err := s.board.Flush(ctx); err != nil {
		return nil, transfer.Summary{}, err
	}
	cur := s.board.Current()
	data, err := transfer.Marshal(cur, s.board.now())
	if err != nil {
		return nil, transfer.Summary{}, err
	}
	return data, summarize(len(cur.Campaigns), len(cur.Projects)), nil
}

func (s *transferService) ExportFile(ctx context.Context, path string) (summary transfer.Summary, err error) {
	startedAt := time.Now()
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "export-board", startedAt, fields, &err)

	if err = s.board.Flush(ctx); err != nil {
		return transfer.Summary{}, err
	}
	cur := s.board.Current()
	if err = transfer.WriteFile(path, cur, s.board.now()); err != nil {
		return transfer.Summary{}, err
	}
	summary = summarize(len(cur.Campaigns), len(cur.Projects))
	fields["campaigns"] = summary.CampaignCount
	fields["projects"] = summary.ProjectCount
	return summary, nil
}

// Import unwraps data and replaces the board with it. Nothing is applied
// when the envelope is invalid.
func (s *transferService) Import(ctx context.Context, data []byte) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"bytes": len(data)}
	defer observe(ctx, s.observer, "import-board", startedAt, fields, &err)

	unwrapped, err := transfer.Unwrap(data)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, unwrapped, "import", fields)
}

func (s *transferService) ImportFile(ctx context.Context, path string) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "import-board", startedAt, fields, &err)

	unwrapped, err := transfer.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, unwrapped, "import", fields)
}

func (s *transferService) apply(ctx context.Context, unwrapped *transfer.Result, reason string, fields map[string]any) (*ImportResult, error) {
	replaced, err := s.board.Replace(ctx, unwrapped.State, reason)
	if err != nil {
		return nil, err
	}
	cur := s.board.Current()
	result := &ImportResult{
		Summary:   summarize(len(cur.Campaigns), len(cur.Projects)),
		Revision:  replaced.Revision,
		BackupSeq: replaced.BackupSeq,
	}
	fields["campaigns"] = result.Summary.CampaignCount
	fields["projects"] = result.Summary.ProjectCount
	return result, nil
}

func (s *transferService) History(ctx context.Context, limit int) ([]repository.HistoryEntry, error) {
	entries, err := s.snapshots.ListHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

// Restore brings back a board from history. The board it replaces is backed
// up in turn, so a restore can itself be undone.
func (s *transferService) Restore(ctx context.Context, seq int64) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"seq": seq}
	defer observe(ctx, s.observer, "restore-board", startedAt, fields, &err)

	entry, err := s.snapshots.GetHistory(ctx, seq)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, &transfer.Result{State: entry.State}, "restore", fields)
}
