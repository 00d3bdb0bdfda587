package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var desk = Viewport{Width: 1200, Height: 800}

func board(t *testing.T, names ...string) (*domain.Mutator, *domain.State) {
	t.Helper()
	n := 0
	m := domain.NewMutator(domain.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}))
	s := domain.Empty()
	for _, name := range names {
		s = m.AddCampaign(s, domain.CampaignDraft{Name: name})
	}
	require.Len(t, s.Campaigns, len(names))
	return m, s
}

func TestCampaignRadius_ShrinksWithCrowding(t *testing.T) {
	assert.Equal(t, 90.0, CampaignRadius(1))
	assert.Equal(t, 90.0, CampaignRadius(3))
	assert.Equal(t, 78.0, CampaignRadius(4))
	assert.Equal(t, 54.0, CampaignRadius(6))
	assert.Equal(t, 48.0, CampaignRadius(40), "bounded below")
}

func TestOrbitRadius(t *testing.T) {
	assert.Equal(t, 0.0, OrbitRadius(1, 90, desk))
	// Two campaigns sit one spacing apart: 2r + 1.5r.
	assert.InDelta(t, 157.5, OrbitRadius(2, 90, desk), 1e-9)

	tight := Viewport{Width: 400, Height: 400}
	assert.InDelta(t, 200-Padding-90, OrbitRadius(6, 90, tight), 1e-9, "clamped to the padded viewport")
	assert.Equal(t, 0.0, OrbitRadius(6, 400, tight), "never negative")
}

func TestRing_SeedsFromTop(t *testing.T) {
	_, s := board(t, "A", "B", "C", "D")
	p := Ring{}.Place(s, desk)

	require.Len(t, p.Campaigns, 4)
	assert.True(t, p.Changed)
	first := p.Campaigns[0]
	assert.True(t, first.Seeded)
	assert.InDelta(t, desk.Width/2, first.Point.X, 0.01)
	assert.Less(t, first.Point.Y, desk.Height/2, "first campaign starts at the top")

	// Second of four is a quarter turn clockwise: to the right of centre.
	second := p.Campaigns[1]
	assert.Greater(t, second.Point.X, desk.Width/2)
	assert.InDelta(t, desk.Height/2, second.Point.Y, 0.01)
}

func TestRing_DeterministicWithoutStateChange(t *testing.T) {
	_, s := board(t, "Writing", "Building")
	first := Ring{}.Place(s, desk)
	second := Ring{}.Place(s, desk)
	assert.Equal(t, first, second)
	assert.Nil(t, s.Campaigns[0].X, "layout never mutates state")
}

func TestRing_StoredPositionsKeptAndClamped(t *testing.T) {
	m, s := board(t, "A", "B")
	s = m.MoveCampaign(s, "c1", 300, 300)
	s = m.MoveCampaign(s, "c2", 5000, -20)

	p := Ring{}.Place(s, desk)
	a, _ := p.CampaignPoint("c1")
	assert.Equal(t, domain.Point{X: 300, Y: 300}, a)
	assert.False(t, p.Campaigns[0].Clamped)

	b, _ := p.CampaignPoint("c2")
	r := p.CampaignRadius
	assert.Equal(t, domain.Point{X: desk.Width - Padding - r, Y: Padding + r}, b)
	assert.True(t, p.Campaigns[1].Clamped)
	assert.True(t, p.Changed)
	assert.Equal(t, map[string]domain.Point{"c2": b}, p.Positions())
}

func TestRing_NoChangeOnceSettled(t *testing.T) {
	m, s := board(t, "A", "B", "C")
	first := Ring{}.Place(s, desk)
	require.True(t, first.Changed)

	s = m.PlaceCampaigns(s, first.Positions())
	second := Ring{}.Place(s, desk)
	assert.False(t, second.Changed)
	assert.Empty(t, second.Positions())
	assert.Equal(t, first.Campaigns[2].Point, second.Campaigns[2].Point)
}

func TestRing_ResizeClampsBackOnScreen(t *testing.T) {
	m, s := board(t, "A")
	s = m.MoveCampaign(s, "c1", 1100, 700)

	small := Ring{}.Place(s, Viewport{Width: 640, Height: 480})
	pt, _ := small.CampaignPoint("c1")
	assert.LessOrEqual(t, pt.X, 640-Padding-small.CampaignRadius)
	assert.LessOrEqual(t, pt.Y, 480-Padding-small.CampaignRadius)
	assert.True(t, small.Changed)
}

func TestRing_DefensiveInputs(t *testing.T) {
	p := Ring{}.Place(nil, Viewport{Width: math.NaN(), Height: math.Inf(1)})
	assert.Equal(t, Viewport{Width: MinViewportWidth, Height: MinViewportHeight}, p.Viewport)
	assert.Empty(t, p.Campaigns)
	assert.Empty(t, p.Projects)
	assert.False(t, p.Changed)
}

func TestRing_SingleCampaignCentered(t *testing.T) {
	_, s := board(t, "Solo")
	p := Ring{}.Place(s, desk)
	pt, ok := p.CampaignPoint("c1")
	require.True(t, ok)
	assert.Equal(t, desk.Center(), pt)
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("ring")
	require.True(t, ok)
	assert.Equal(t, "ring", s.Name())
	_, ok = Lookup("spiral")
	assert.False(t, ok)
	assert.Equal(t, []string{"ring", "slots"}, Names())
}
