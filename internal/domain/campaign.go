package domain

import (
	"fmt"
	"slices"
	"strings"
)

// CampaignDraft holds the inputs for AddCampaign.
type CampaignDraft struct {
	Name  string
	Color string
}

// CheckCampaignDraft reports why AddCampaign would reject d, or nil.
func CheckCampaignDraft(s *State, d CampaignDraft) error {
	s = orEmpty(s)
	if len(s.Campaigns) >= MaxCampaigns {
		return invalid("campaigns", fmt.Sprintf("a board holds at most %d campaigns", MaxCampaigns))
	}
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "campaign name is required")
	}
	return nil
}

// AddCampaign appends a campaign with empty missions. The colour defaults to
// the palette entry for the new campaign's slot.
func (m *Mutator) AddCampaign(s *State, d CampaignDraft) *State {
	s = orEmpty(s)
	if CheckCampaignDraft(s, d) != nil {
		return s
	}
	next := s.clone()
	next.Campaigns = append(next.Campaigns, Campaign{
		ID:    m.uniqueID("", campaignIDSet(s.Campaigns)),
		Name:  strings.TrimSpace(d.Name),
		Color: CoalesceStr(strings.TrimSpace(d.Color), PaletteColor(len(s.Campaigns))),
	})
	return m.touch(next, s)
}

// updateCampaign applies edit to a copy of the campaign with the given id.
// edit returns false when nothing changed, in which case s is returned.
func (m *Mutator) updateCampaign(s *State, id string, edit func(c *Campaign) bool) *State {
	s = orEmpty(s)
	i := s.CampaignIndex(id)
	if i < 0 {
		return s
	}
	c := s.Campaigns[i]
	if !edit(&c) {
		return s
	}
	next := s.clone()
	next.Campaigns[i] = c
	return m.touch(next, s)
}

// RenameCampaign sets a new, non-empty name.
func (m *Mutator) RenameCampaign(s *State, id, name string) *State {
	name = strings.TrimSpace(name)
	return m.updateCampaign(s, id, func(c *Campaign) bool {
		if name == "" || name == c.Name {
			return false
		}
		c.Name = name
		return true
	})
}

// UpdateCampaignMission replaces the current mission. A non-empty current
// mission rolls over into PreviousMission first, including when the new
// text is empty, so PreviousMission always holds the last real mission.
func (m *Mutator) UpdateCampaignMission(s *State, id, text string) *State {
	text = strings.TrimSpace(text)
	return m.updateCampaign(s, id, func(c *Campaign) bool {
		if text == c.CurrentMission {
			return false
		}
		if c.CurrentMission != "" {
			c.PreviousMission = c.CurrentMission
		}
		c.CurrentMission = text
		return true
	})
}

// ClearCampaignMission empties the current mission without rolling it over.
func (m *Mutator) ClearCampaignMission(s *State, id string) *State {
	return m.updateCampaign(s, id, func(c *Campaign) bool {
		if c.CurrentMission == "" {
			return false
		}
		c.CurrentMission = ""
		return true
	})
}

// SetCampaignColor changes the display colour.
func (m *Mutator) SetCampaignColor(s *State, id, color string) *State {
	color = strings.TrimSpace(color)
	return m.updateCampaign(s, id, func(c *Campaign) bool {
		if color == "" || color == c.Color {
			return false
		}
		c.Color = color
		return true
	})
}

// MoveCampaign stores new canvas coordinates. It is a cheap no-op when the
// position is unchanged, so drag loops may call it on every frame.
func (m *Mutator) MoveCampaign(s *State, id string, x, y float64) *State {
	if !isFinite(x) || !isFinite(y) {
		return orEmpty(s)
	}
	return m.updateCampaign(s, id, func(c *Campaign) bool {
		if p, ok := c.Position(); ok && p.X == x && p.Y == y {
			return false
		}
		c.X, c.Y = floatPtr(x), floatPtr(y)
		return true
	})
}

// PlaceCampaigns applies a batch of positions, typically the output of a
// layout pass, as a single snapshot.
func (m *Mutator) PlaceCampaigns(s *State, positions map[string]Point) *State {
	s = orEmpty(s)
	var next *State
	for i, c := range s.Campaigns {
		p, ok := positions[c.ID]
		if !ok || !isFinite(p.X) || !isFinite(p.Y) {
			continue
		}
		if cur, placed := c.Position(); placed && cur == p {
			continue
		}
		if next == nil {
			next = s.clone()
		}
		c.X, c.Y = floatPtr(p.X), floatPtr(p.Y)
		next.Campaigns[i] = c
	}
	if next == nil {
		return s
	}
	return m.touch(next, s)
}

// ResetCampaignPositions forgets every stored coordinate so the next ring
// layout pass seeds fresh ones.
func (m *Mutator) ResetCampaignPositions(s *State) *State {
	s = orEmpty(s)
	var next *State
	for i, c := range s.Campaigns {
		if c.X == nil && c.Y == nil {
			continue
		}
		if next == nil {
			next = s.clone()
		}
		c.X, c.Y = nil, nil
		next.Campaigns[i] = c
	}
	if next == nil {
		return s
	}
	return m.touch(next, s)
}

// MoveCampaignToSlot reorders campaigns so that id lands at index. The
// index is clamped into range.
func (m *Mutator) MoveCampaignToSlot(s *State, id string, index int) *State {
	s = orEmpty(s)
	from := s.CampaignIndex(id)
	if from < 0 {
		return s
	}
	index = max(0, min(index, len(s.Campaigns)-1))
	if index == from {
		return s
	}
	next := s.clone()
	c := next.Campaigns[from]
	next.Campaigns = slices.Delete(next.Campaigns, from, from+1)
	next.Campaigns = slices.Insert(next.Campaigns, index, c)
	return m.touch(next, s)
}

// DeleteCampaign removes a campaign, strips it from every membership and
// deletes the projects that no longer belong anywhere.
func (m *Mutator) DeleteCampaign(s *State, id string) *State {
	s = orEmpty(s)
	i := s.CampaignIndex(id)
	if i < 0 {
		return s
	}
	next := s.clone()
	next.Campaigns = slices.Delete(next.Campaigns, i, i+1)
	next.Projects = enforceMembership(next.Campaigns, next.Projects)
	return m.touch(next, s)
}
