package layout

import (
	"math"

	"github.com/alexanderramin/orbit/internal/domain"
)

const (
	ringMaxRadius = 90
	ringMinRadius = 48
	// ringShrink is how much the campaign radius drops per campaign beyond
	// ringCrowdStart.
	ringShrink     = 12
	ringCrowdStart = 3
	// neighbourGap is the free space between neighbouring campaigns, in
	// campaign radii.
	neighbourGap = 1.5
)

// Ring is the free-canvas strategy. Campaigns without coordinates are
// seeded evenly around a circle starting at the top; stored coordinates are
// kept but clamped into the viewport; projects cluster around the centroid
// of their member campaigns.
type Ring struct{}

func (Ring) Name() string { return "ring" }

// CampaignRadius is the drawn campaign radius for a board of count
// campaigns. It shrinks as the board gets crowded.
func CampaignRadius(count int) float64 {
	r := float64(ringMaxRadius - ringShrink*max(0, count-ringCrowdStart))
	return math.Max(ringMinRadius, math.Min(ringMaxRadius, r))
}

// OrbitRadius is the distance from the viewport centre at which n campaigns
// of radius r are seeded. The spacing-derived ideal is reduced when it would
// push a campaign past the padded viewport edge.
func OrbitRadius(n int, r float64, vp Viewport) float64 {
	if n <= 1 {
		return 0
	}
	spacing := 2*r + neighbourGap*r
	ideal := spacing / (2 * math.Sin(math.Pi/float64(n)))
	limit := math.Min(vp.Width, vp.Height)/2 - Padding - r
	if limit < 0 {
		limit = 0
	}
	return math.Min(ideal, limit)
}

// seedAngle is the angle of campaign i of n, with the first at the top.
func seedAngle(i, n int) float64 {
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
}

func (Ring) Place(s *domain.State, vp Viewport) Placement {
	s = orEmpty(s)
	vp = vp.Sanitize()

	n := len(s.Campaigns)
	r := CampaignRadius(n)
	orbit := OrbitRadius(n, r, vp)
	center := vp.Center()
	inset := Padding + r

	out := Placement{
		Strategy:       Ring{}.Name(),
		Viewport:       vp,
		CampaignRadius: r,
		Campaigns:      make([]CampaignSpot, 0, n),
	}

	anchors := make(map[string]domain.Point, n)
	for i, c := range s.Campaigns {
		spot := CampaignSpot{ID: c.ID, Slot: -1}
		if stored, ok := c.Position(); ok {
			spot.Point = clampPoint(stored, vp, inset)
			spot.Clamped = spot.Point != stored
		} else {
			a := seedAngle(i, n)
			seeded := domain.Point{
				X: round2(center.X + orbit*math.Cos(a)),
				Y: round2(center.Y + orbit*math.Sin(a)),
			}
			spot.Point = clampPoint(seeded, vp, inset)
			spot.Seeded = true
		}
		if spot.Seeded || spot.Clamped {
			out.Changed = true
		}
		anchors[c.ID] = spot.Point
		out.Campaigns = append(out.Campaigns, spot)
	}

	out.Projects = Cluster(s.Projects, anchors, vp)
	return out
}
