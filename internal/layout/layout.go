// Package layout turns a board snapshot and a viewport into screen
// placements. Strategies read state and never mutate it; a ring pass that
// seeds or clamps coordinates reports Changed so the caller can persist.
package layout

import (
	"math"
	"sort"

	"github.com/alexanderramin/orbit/internal/domain"
)

// Viewport bounds and the padding every placement keeps from the edges.
const (
	MinViewportWidth  = 320
	MinViewportHeight = 240
	Padding           = 24
)

// Viewport is the drawable area in canvas units.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sanitize replaces non-finite or undersized dimensions with the minimums.
func (v Viewport) Sanitize() Viewport {
	if math.IsNaN(v.Width) || math.IsInf(v.Width, 0) || v.Width < MinViewportWidth {
		v.Width = MinViewportWidth
	}
	if math.IsNaN(v.Height) || math.IsInf(v.Height, 0) || v.Height < MinViewportHeight {
		v.Height = MinViewportHeight
	}
	return v
}

// Center returns the middle of the viewport.
func (v Viewport) Center() domain.Point {
	return domain.Point{X: v.Width / 2, Y: v.Height / 2}
}

// CampaignSpot is where a campaign is drawn.
type CampaignSpot struct {
	ID      string       `json:"id"`
	Point   domain.Point `json:"point"`
	Slot    int          `json:"slot"`
	Seeded  bool         `json:"seeded,omitempty"`
	Clamped bool         `json:"clamped,omitempty"`
}

// ProjectSpot is one drawing of a project. The slot board draws a project
// once per member campaign, so an id may appear several times.
type ProjectSpot struct {
	ID    string       `json:"id"`
	Key   string       `json:"key"`
	Point domain.Point `json:"point"`
	Slot  int          `json:"slot"`
}

// Slot is one fixed board position. Empty slots are explicit placeholders.
type Slot struct {
	Index      int          `json:"index"`
	CampaignID string       `json:"campaignId,omitempty"`
	Empty      bool         `json:"empty"`
	ProjectIDs []string     `json:"projectIds"`
	Center     domain.Point `json:"center"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
}

// Placement is the output of a layout pass.
type Placement struct {
	Strategy       string         `json:"strategy"`
	Viewport       Viewport       `json:"viewport"`
	CampaignRadius float64        `json:"campaignRadius"`
	Campaigns      []CampaignSpot `json:"campaigns"`
	Projects       []ProjectSpot  `json:"projects"`
	Slots          []Slot         `json:"slots,omitempty"`
	Changed        bool           `json:"changed"`
}

// CampaignPoint returns where a campaign was placed.
func (p Placement) CampaignPoint(id string) (domain.Point, bool) {
	for _, c := range p.Campaigns {
		if c.ID == id {
			return c.Point, true
		}
	}
	return domain.Point{}, false
}

// ProjectPoints returns every spot a project was drawn at.
func (p Placement) ProjectPoints(id string) []domain.Point {
	var out []domain.Point
	for _, s := range p.Projects {
		if s.ID == id {
			out = append(out, s.Point)
		}
	}
	return out
}

// Positions returns the campaign coordinates that differ from what was
// stored, keyed by campaign id. Feed it to Mutator.PlaceCampaigns.
func (p Placement) Positions() map[string]domain.Point {
	out := make(map[string]domain.Point)
	for _, c := range p.Campaigns {
		if c.Seeded || c.Clamped {
			out[c.ID] = c.Point
		}
	}
	return out
}

// Strategy places a board inside a viewport. Place never fails: missing
// state is treated as an empty board and the viewport is sanitized.
type Strategy interface {
	Name() string
	Place(s *domain.State, vp Viewport) Placement
}

var strategies = map[string]Strategy{
	Ring{}.Name():  Ring{},
	Slots{}.Name(): Slots{},
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, bool) {
	s, ok := strategies[name]
	return s, ok
}

// Names lists the registered strategy names in sorted order.
func Names() []string {
	out := make([]string, 0, len(strategies))
	for name := range strategies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// clampPoint keeps p at least inset away from every viewport edge.
func clampPoint(p domain.Point, vp Viewport, inset float64) domain.Point {
	return domain.Point{
		X: clampAxis(p.X, inset, vp.Width-inset),
		Y: clampAxis(p.Y, inset, vp.Height-inset),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orEmpty(s *domain.State) *domain.State {
	if s == nil {
		return domain.Empty()
	}
	return s
}
