package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/orbit/internal/db"
	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/logging"
	"github.com/alexanderramin/orbit/internal/repository"
	"golang.org/x/time/rate"
)

// DefaultSaveInterval spaces out saves of high-frequency edits such as drags.
const DefaultSaveInterval = 250 * time.Millisecond

// DefaultHistoryLimit is how many replaced boards are kept.
const DefaultHistoryLimit = 20

// Board holds the single current board reference. Every edit goes through
// the domain Mutator; accepted edits replace the reference, are persisted,
// and are fanned out to subscribers.
type Board struct {
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	mut       *domain.Mutator
	now       func() time.Time
	observer  UseCaseObserver
	logger    *slog.Logger

	saveInterval time.Duration
	historyLimit int

	mu         sync.Mutex
	current    *domain.State
	revision   int64
	dirty      bool
	limiter    *rate.Limiter
	flushTimer *time.Timer

	subMu  sync.Mutex
	subSeq int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(*domain.State)
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithMutator replaces the default Mutator, e.g. with a fixed clock.
func WithMutator(m *domain.Mutator) BoardOption {
	return func(b *Board) { b.mut = m }
}

// WithClock sets the clock used for export timestamps.
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) { b.now = now }
}

// WithObserver sets the use-case observer.
func WithObserver(o UseCaseObserver) BoardOption {
	return func(b *Board) {
		if o != nil {
			b.observer = o
		}
	}
}

// WithLogger sets the logger used by background work such as Watch.
func WithLogger(l *slog.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithSaveInterval sets the minimum spacing of throttled saves.
func WithSaveInterval(d time.Duration) BoardOption {
	return func(b *Board) {
		if d > 0 {
			b.saveInterval = d
		}
	}
}

// WithHistoryLimit sets how many replaced boards are kept.
func WithHistoryLimit(n int) BoardOption {
	return func(b *Board) {
		if n >= 0 {
			b.historyLimit = n
		}
	}
}

// NewBoard creates a board controller over the given store. Call Load before
// use.
func NewBoard(snapshots repository.SnapshotRepo, uow db.UnitOfWork, opts ...BoardOption) *Board {
	b := &Board{
		snapshots:    snapshots,
		uow:          uow,
		mut:          domain.NewMutator(),
		now:          time.Now,
		observer:     NoopUseCaseObserver{},
		logger:       logging.Discard(),
		saveInterval: DefaultSaveInterval,
		historyLimit: DefaultHistoryLimit,
		current:      domain.Empty(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.limiter = rate.NewLimiter(rate.Every(b.saveInterval), 1)
	return b
}

var _ BoardService = (*Board)(nil)

// Load reads the stored board. An empty store yields an empty board.
func (b *Board) Load(ctx context.Context) (*domain.State, error) {
	snap, err := b.snapshots.Load(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading board: %w", err)
	}

	b.mu.Lock()
	if snap != nil {
		b.current, b.revision = snap.State, snap.Revision
	} else {
		b.current, b.revision = domain.Empty(), 0
	}
	b.dirty = false
	cur := b.current
	b.mu.Unlock()

	b.notify(cur)
	return cur, nil
}

// Current returns the current snapshot. Callers must not modify it.
func (b *Board) Current() *domain.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Revision returns the store revision the current board corresponds to.
func (b *Board) Revision() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision
}

// mutateFunc computes the next board from s. It returns s itself when the
// edit is redundant, or an error explaining why it is refused.
type mutateFunc func(s *domain.State) (*domain.State, error)

// mutate applies fn to the current board and persists the result. A
// redundant edit reports ErrUnchanged. When the save fails the previous
// board stays current.
func (b *Board) mutate(ctx context.Context, fn mutateFunc) (prev, next *domain.State, err error) {
	b.mu.Lock()
	prev = b.current
	next, err = fn(prev)
	if err == nil && next == prev {
		err = ErrUnchanged
	}
	if err != nil {
		b.mu.Unlock()
		return prev, prev, err
	}

	rev, err := b.snapshots.Save(ctx, next)
	if err != nil {
		b.mu.Unlock()
		return prev, prev, fmt.Errorf("saving board: %w", err)
	}
	b.current, b.revision, b.dirty = next, rev, false
	b.stopFlushTimerLocked()
	b.mu.Unlock()

	b.notify(next)
	return prev, next, nil
}

// mutateThrottled applies fn immediately but persists at most once per save
// interval. A skipped save is written by a trailing timer or by Flush.
func (b *Board) mutateThrottled(ctx context.Context, fn mutateFunc) (saved bool, err error) {
	b.mu.Lock()
	prev := b.current
	next, err := fn(prev)
	if err == nil && next == prev {
		err = ErrUnchanged
	}
	if err != nil {
		b.mu.Unlock()
		return false, err
	}

	b.current = next
	if b.limiter.Allow() {
		rev, err := b.snapshots.Save(ctx, next)
		if err != nil {
			b.dirty = true
			b.armFlushTimerLocked()
			b.mu.Unlock()
			b.notify(next)
			return false, fmt.Errorf("saving board: %w", err)
		}
		b.revision, b.dirty = rev, false
		b.stopFlushTimerLocked()
		saved = true
	} else {
		b.dirty = true
		b.armFlushTimerLocked()
	}
	b.mu.Unlock()

	b.notify(next)
	return saved, nil
}

func (b *Board) trailingFlush() {
	if err := b.Flush(context.Background()); err != nil {
		b.logger.Error("board.flush_failed", "error", err)
	}
}

// armFlushTimerLocked schedules a trailing save unless one is pending.
func (b *Board) armFlushTimerLocked() {
	if b.flushTimer == nil {
		b.flushTimer = time.AfterFunc(b.saveInterval, b.trailingFlush)
	}
}

func (b *Board) stopFlushTimerLocked() {
	if b.flushTimer != nil {
		b.flushTimer.Stop()
		b.flushTimer = nil
	}
}

// Flush writes a board whose save was deferred by throttling.
func (b *Board) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopFlushTimerLocked()
	if !b.dirty {
		return nil
	}
	rev, err := b.snapshots.Save(ctx, b.current)
	if err != nil {
		return fmt.Errorf("flushing board: %w", err)
	}
	b.revision, b.dirty = rev, false
	return nil
}

// Subscribe registers fn to receive every new current board, whether it
// came from a local edit or an external write. The returned func removes
// the subscription.
func (b *Board) Subscribe(fn func(*domain.State)) (unsubscribe func()) {
	b.subMu.Lock()
	b.subSeq++
	id := b.subSeq
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.subMu.Lock()
			defer b.subMu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *Board) notify(s *domain.State) {
	b.subMu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(s)
	}
}

// Sync reloads the board when another writer has saved a newer revision.
// The external board wins over any unsaved local edit.
func (b *Board) Sync(ctx context.Context) (bool, error) {
	rev, err := b.snapshots.Revision(ctx)
	if err != nil {
		return false, fmt.Errorf("checking board revision: %w", err)
	}
	if rev == b.Revision() {
		return false, nil
	}

	snap, err := b.snapshots.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("reloading board: %w", err)
	}

	b.mu.Lock()
	if snap.Revision == b.revision {
		b.mu.Unlock()
		return false, nil
	}
	b.current, b.revision, b.dirty = snap.State, snap.Revision, false
	b.stopFlushTimerLocked()
	b.mu.Unlock()

	b.logger.Info("board.external_change", "revision", snap.Revision)
	b.notify(snap.State)
	return true, nil
}

// Watch polls for external writes until ctx is done. Poll errors are logged
// and retried on the next tick.
func (b *Board) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := b.Sync(ctx); err != nil && ctx.Err() == nil {
				b.logger.Warn("board.watch_failed", "error", err)
			}
		}
	}
}

// Replace swaps in a whole new board, backing up the current one into
// history in the same transaction.
func (b *Board) Replace(ctx context.Context, incoming *domain.State, reason string) (result *ReplaceResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"reason": reason}
	defer observe(ctx, b.observer, "replace-board", startedAt, fields, &err)

	b.mu.Lock()
	prev := b.current
	next := b.mut.Adopt(prev, incoming)
	result = &ReplaceResult{}

	err = b.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)

		rev, err := txSnapshots.Save(ctx, next)
		if err != nil {
			return err
		}
		result.Revision = rev

		if len(prev.Campaigns) > 0 || len(prev.Projects) > 0 {
			seq, err := txSnapshots.AppendHistory(ctx, prev, reason)
			if err != nil {
				return err
			}
			result.BackupSeq = seq
		}
		_, err = txSnapshots.PruneHistory(ctx, b.historyLimit)
		return err
	})
	if err != nil {
		b.mu.Unlock()
		return nil, fmt.Errorf("replacing board: %w", err)
	}
	b.current, b.revision, b.dirty = next, result.Revision, false
	b.stopFlushTimerLocked()
	b.mu.Unlock()

	fields["revision"] = result.Revision
	fields["backup_seq"] = result.BackupSeq
	b.notify(next)
	return result, nil
}
