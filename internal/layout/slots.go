package layout

import (
	"math"

	"github.com/alexanderramin/orbit/internal/domain"
)

// SlotCount is the number of positions on the slot board.
const SlotCount = domain.MaxCampaigns

const slotColumns = 3

// Slots is the fixed board strategy: the first SlotCount campaigns in
// stored order fill a grid of cells, and every project is listed in each
// of its campaigns' cells. The result always has SlotCount slots.
type Slots struct{}

func (Slots) Name() string { return "slots" }

func (Slots) Place(s *domain.State, vp Viewport) Placement {
	s = orEmpty(s)
	vp = vp.Sanitize()

	rows := (SlotCount + slotColumns - 1) / slotColumns
	cellW := (vp.Width - 2*Padding) / slotColumns
	cellH := (vp.Height - 2*Padding) / float64(rows)

	out := Placement{
		Strategy:       Slots{}.Name(),
		Viewport:       vp,
		CampaignRadius: math.Min(cellW, cellH) / 2,
		Campaigns:      []CampaignSpot{},
		Projects:       []ProjectSpot{},
		Slots:          make([]Slot, 0, SlotCount),
	}

	for i := 0; i < SlotCount; i++ {
		col, row := i%slotColumns, i/slotColumns
		slot := Slot{
			Index:      i,
			Empty:      true,
			ProjectIDs: []string{},
			Center: domain.Point{
				X: round2(Padding + cellW*(float64(col)+0.5)),
				Y: round2(Padding + cellH*(float64(row)+0.5)),
			},
			Width:  round2(cellW),
			Height: round2(cellH),
		}

		if i < len(s.Campaigns) {
			c := s.Campaigns[i]
			slot.CampaignID = c.ID
			slot.Empty = false
			out.Campaigns = append(out.Campaigns, CampaignSpot{ID: c.ID, Point: slot.Center, Slot: i})

			members := s.ProjectsFor(c.ID)
			top := slot.Center.Y - cellH/2
			for k, p := range members {
				slot.ProjectIDs = append(slot.ProjectIDs, p.ID)
				out.Projects = append(out.Projects, ProjectSpot{
					ID:  p.ID,
					Key: p.MembershipKey(),
					Point: domain.Point{
						X: slot.Center.X,
						Y: round2(top + cellH*float64(k+1)/float64(len(members)+1)),
					},
					Slot: i,
				})
			}
		}
		out.Slots = append(out.Slots, slot)
	}
	return out
}
