package domain

import (
	"slices"
	"sort"
	"strings"
)

// MaxCampaigns is the hard cap on campaigns per board.
const MaxCampaigns = 6

// Palette holds the default campaign colours, indexed by slot.
var Palette = []string{"#fb4934", "#fabd2f", "#8ec07c", "#83a598", "#d3869b", "#fe8019"}

// PaletteColor returns the default colour for the given slot index.
func PaletteColor(slot int) string {
	if slot < 0 {
		slot = 0
	}
	return Palette[slot%len(Palette)]
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Campaign is a durable theme of work.
type Campaign struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Color           string   `json:"color"`
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	CurrentMission  string   `json:"currentMission"`
	PreviousMission string   `json:"previousMission"`
}

// Position returns the stored coordinates, if the campaign has been placed.
func (c Campaign) Position() (Point, bool) {
	if c.X == nil || c.Y == nil {
		return Point{}, false
	}
	return Point{X: *c.X, Y: *c.Y}, true
}

// Project is a unit of work that belongs to one or more campaigns.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Mode        Mode     `json:"mode"`
	LinkType    LinkType `json:"linkType"`
	Link        string   `json:"link"`
	CampaignIDs []string `json:"campaignIds"`
}

// BelongsTo reports whether the project is a member of the given campaign.
func (p Project) BelongsTo(campaignID string) bool {
	return slices.Contains(p.CampaignIDs, campaignID)
}

// MembershipKey returns an order-independent key for the project's membership set.
func (p Project) MembershipKey() string {
	ids := slices.Clone(p.CampaignIDs)
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

func (p Project) equal(o Project) bool {
	return p.ID == o.ID && p.Name == o.Name && p.Mode == o.Mode &&
		p.LinkType == o.LinkType && p.Link == o.Link &&
		slices.Equal(p.CampaignIDs, o.CampaignIDs)
}

// State is a board snapshot. Snapshots returned by a Mutator are immutable:
// callers replace their reference instead of editing one in place.
type State struct {
	Campaigns []Campaign `json:"campaigns"`
	Projects  []Project  `json:"projects"`
	UpdatedAt int64      `json:"updatedAt"`
}

// Empty returns a board with no campaigns or projects.
func Empty() *State {
	return &State{Campaigns: []Campaign{}, Projects: []Project{}}
}

func orEmpty(s *State) *State {
	if s == nil {
		return Empty()
	}
	return s
}

// CampaignIndex returns the position of the campaign with the given id, or -1.
func (s *State) CampaignIndex(id string) int {
	if s == nil {
		return -1
	}
	return slices.IndexFunc(s.Campaigns, func(c Campaign) bool { return c.ID == id })
}

// Campaign looks up a campaign by id.
func (s *State) Campaign(id string) (Campaign, bool) {
	i := s.CampaignIndex(id)
	if i < 0 {
		return Campaign{}, false
	}
	return s.Campaigns[i], true
}

// ProjectIndex returns the position of the project with the given id, or -1.
func (s *State) ProjectIndex(id string) int {
	if s == nil {
		return -1
	}
	return slices.IndexFunc(s.Projects, func(p Project) bool { return p.ID == id })
}

// Project looks up a project by id.
func (s *State) Project(id string) (Project, bool) {
	i := s.ProjectIndex(id)
	if i < 0 {
		return Project{}, false
	}
	return s.Projects[i], true
}

// ProjectsFor lists the projects that belong to a campaign, in stored order.
func (s *State) ProjectsFor(campaignID string) []Project {
	if s == nil {
		return nil
	}
	var out []Project
	for _, p := range s.Projects {
		if p.BelongsTo(campaignID) {
			out = append(out, p)
		}
	}
	return out
}

// clone copies the entity slices so appends and index writes on the copy
// never reach the receiver. Entity values are copied; their inner slices
// and pointers are shared and must be replaced, not edited.
func (s *State) clone() *State {
	return &State{
		Campaigns: slices.Clone(s.Campaigns),
		Projects:  slices.Clone(s.Projects),
		UpdatedAt: s.UpdatedAt,
	}
}

func campaignIDSet(campaigns []Campaign) map[string]bool {
	set := make(map[string]bool, len(campaigns))
	for _, c := range campaigns {
		set[c.ID] = true
	}
	return set
}
