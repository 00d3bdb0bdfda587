package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
)

func requireCampaign(s *domain.State, id string) error {
	if _, ok := s.Campaign(id); !ok {
		return campaignNotFound(id)
	}
	return nil
}

func (b *Board) AddCampaign(ctx context.Context, d domain.CampaignDraft) (campaign *domain.Campaign, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": d.Name}
	defer observe(ctx, b.observer, "add-campaign", startedAt, fields, &err)

	_, next, err := b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := domain.CheckCampaignDraft(s, d); err != nil {
			return s, rejected(err)
		}
		return b.mut.AddCampaign(s, d), nil
	})
	if err != nil {
		return nil, err
	}
	c := next.Campaigns[len(next.Campaigns)-1]
	fields["campaign"] = c.ID
	return &c, nil
}

func (b *Board) RenameCampaign(ctx context.Context, id, name string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "rename-campaign", startedAt, map[string]any{"campaign": id}, &err)

	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireCampaign(s, id); err != nil {
			return s, err
		}
		if strings.TrimSpace(name) == "" {
			return s, rejectField("name", "campaign name is required")
		}
		return b.mut.RenameCampaign(s, id, name), nil
	})
	return err
}

// SetMission replaces the current mission; a non-empty previous mission
// rolls over into PreviousMission.
func (b *Board) SetMission(ctx context.Context, id, text string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "set-mission", startedAt, map[string]any{"campaign": id}, &err)

	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireCampaign(s, id); err != nil {
			return s, err
		}
		return b.mut.UpdateCampaignMission(s, id, text), nil
	})
	return err
}

// ClearMission empties the current mission and leaves PreviousMission alone.
func (b *Board) ClearMission(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "clear-mission", startedAt, map[string]any{"campaign": id}, &err)

	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireCampaign(s, id); err != nil {
			return s, err
		}
		return b.mut.ClearCampaignMission(s, id), nil
	})
	return err
}

func (b *Board) SetCampaignColor(ctx context.Context, id, color string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "set-campaign-color", startedAt, map[string]any{"campaign": id, "color": color}, &err)

	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireCampaign(s, id); err != nil {
			return s, err
		}
		if strings.TrimSpace(color) == "" {
			return s, rejectField("color", "colour is required")
		}
		return b.mut.SetCampaignColor(s, id, color), nil
	})
	return err
}

// MoveCampaign repositions a campaign. It is meant for drag loops: the board
// updates at once, saves are throttled to the save interval.
func (b *Board) MoveCampaign(ctx context.Context, id string, x, y float64) error {
	startedAt := time.Now()
	saved, err := b.mutateThrottled(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireCampaign(s, id); err != nil {
			return s, err
		}
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return s, rejectField("position", "coordinates must be finite numbers")
		}
		return b.mut.MoveCampaign(s, id, x, y), nil
	})
	if saved || (err != nil && !isUnchanged(err)) {
		observe(ctx, b.observer, "move-campaign", startedAt, map[string]any{"campaign": id}, &err)
	}
	return err
}

// MoveCampaignToSlot reorders a campaign on the slot board.
func (b *Board) MoveCampaignToSlot(ctx context.Context, id string, index int) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "move-campaign-to-slot", startedAt, map[string]any{"campaign": id, "slot": index}, &err)

	_, _, err = b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireCampaign(s, id); err != nil {
			return s, err
		}
		if index < 0 || index >= domain.MaxCampaigns {
			return s, rejectField("slot", fmt.Sprintf("slot index must be in [0, %d)", domain.MaxCampaigns))
		}
		return b.mut.MoveCampaignToSlot(s, id, index), nil
	})
	return err
}

// DeleteCampaign removes a campaign and every project left without one.
func (b *Board) DeleteCampaign(ctx context.Context, id string) (result *DeleteCampaignResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"campaign": id}
	defer observe(ctx, b.observer, "delete-campaign", startedAt, fields, &err)

	prev, next, err := b.mutate(ctx, func(s *domain.State) (*domain.State, error) {
		if err := requireCampaign(s, id); err != nil {
			return s, err
		}
		return b.mut.DeleteCampaign(s, id), nil
	})
	if err != nil {
		return nil, err
	}

	c, _ := prev.Campaign(id)
	result = &DeleteCampaignResult{Campaign: c}
	for _, p := range prev.Projects {
		if _, kept := next.Project(p.ID); !kept {
			result.RemovedProjects = append(result.RemovedProjects, p)
		}
	}
	fields["removed_projects"] = len(result.RemovedProjects)
	return result, nil
}
