package service

import (
	"context"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
)

// Layout places the current board with strategy. Coordinates the pass seeded
// or clamped are saved so the next pass, and other processes, see the same
// positions.
func (b *Board) Layout(ctx context.Context, strategy layout.Strategy, vp layout.Viewport) (placement layout.Placement, err error) {
	if strategy == nil {
		strategy = layout.Ring{}
	}

	b.mu.Lock()
	placement = strategy.Place(b.current, vp)
	b.mu.Unlock()
	if !placement.Changed {
		return placement, nil
	}

	startedAt := time.Now()
	fields := map[string]any{"strategy": placement.Strategy, "positions": len(placement.Positions())}
	defer observe(ctx, b.observer, "persist-layout", startedAt, fields, &err)

	positions := placement.Positions()
	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		return b.mut.PlaceCampaigns(s, positions), nil
	})
	if err != nil && !isUnchanged(err) {
		return placement, err
	}
	return placement, nil
}

// ResetLayout forgets every stored campaign position so the next ring pass
// seeds them afresh.
func (b *Board) ResetLayout(ctx context.Context) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "reset-layout", startedAt, nil, &err)

	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		return b.mut.ResetCampaignPositions(s), nil
	})
	return err
}
