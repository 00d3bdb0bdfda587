package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/orbit/internal/db"
	"github.com/alexanderramin/orbit/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context) (*Snapshot, error) {
	query := `SELECT payload, revision, saved_at FROM board_snapshots WHERE id = 'current'`

	var payload string
	var savedAt sql.NullString
	out := &Snapshot{}
	err := r.db.QueryRowContext(ctx, query).Scan(&payload, &out.Revision, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("board snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning board snapshot: %w", err)
	}
	out.State = domain.NormalizeJSON([]byte(payload))
	out.SavedAt = timeOrZero(parseNullableTime(savedAt))
	return out, nil
}

// Save replaces the current board and returns the new revision.
func (r *SQLiteSnapshotRepo) Save(ctx context.Context, s *domain.State) (int64, error) {
	payload, err := encodeState(s)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO board_snapshots (id, payload, revision, updated_at, saved_at)
		VALUES ('current', ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			revision = board_snapshots.revision + 1,
			updated_at = excluded.updated_at,
			saved_at = excluded.saved_at
		RETURNING revision`

	var rev int64
	if err := r.db.QueryRowContext(ctx, query, payload, updatedAtOf(s), nowUTC()).Scan(&rev); err != nil {
		return 0, fmt.Errorf("saving board snapshot: %w", err)
	}
	return rev, nil
}

// Revision returns the current revision, or 0 when nothing was saved yet.
func (r *SQLiteSnapshotRepo) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(revision), 0) FROM board_snapshots WHERE id = 'current'`).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("reading board revision: %w", err)
	}
	return rev, nil
}

func (r *SQLiteSnapshotRepo) AppendHistory(ctx context.Context, s *domain.State, reason string) (int64, error) {
	payload, err := encodeState(s)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshot_history (payload, updated_at, saved_at, reason) VALUES (?, ?, ?, ?)`,
		payload, updatedAtOf(s), nowUTC(), reason)
	if err != nil {
		return 0, fmt.Errorf("appending snapshot history: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading history seq: %w", err)
	}
	return seq, nil
}

// ListHistory returns the newest entries first. A non-positive limit returns
// every entry.
func (r *SQLiteSnapshotRepo) ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, payload, reason, saved_at FROM snapshot_history ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot history: %w", err)
	}
	return entries, nil
}

func (r *SQLiteSnapshotRepo) GetHistory(ctx context.Context, seq int64) (*HistoryEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT seq, payload, reason, saved_at FROM snapshot_history WHERE seq = ?`, seq)
	e, err := scanHistory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history entry %d: %w", seq, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// PruneHistory keeps the newest keep entries and deletes the rest.
func (r *SQLiteSnapshotRepo) PruneHistory(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshot_history WHERE seq NOT IN (
			SELECT seq FROM snapshot_history ORDER BY seq DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning snapshot history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading pruned count: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*HistoryEntry, error) {
	var e HistoryEntry
	var payload string
	var savedAt sql.NullString
	if err := row.Scan(&e.Seq, &payload, &e.Reason, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning history entry: %w", err)
	}
	e.State = domain.NormalizeJSON([]byte(payload))
	e.SavedAt = timeOrZero(parseNullableTime(savedAt))
	return &e, nil
}

func encodeState(s *domain.State) (string, error) {
	if s == nil {
		s = domain.Empty()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding board: %w", err)
	}
	return string(data), nil
}

func updatedAtOf(s *domain.State) int64 {
	if s == nil {
		return 0
	}
	return s.UpdatedAt
}
