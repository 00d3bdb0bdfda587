package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlots_AlwaysSixEntries(t *testing.T) {
	p := Slots{}.Place(nil, desk)
	require.Len(t, p.Slots, SlotCount)
	for i, slot := range p.Slots {
		assert.Equal(t, i, slot.Index)
		assert.True(t, slot.Empty)
		assert.NotNil(t, slot.ProjectIDs)
	}
	assert.False(t, p.Changed)
}

func TestSlots_FillsInStoredOrder(t *testing.T) {
	m, s := board(t, "A", "B", "C")
	s = m.MoveCampaignToSlot(s, "c3", 0)

	p := Slots{}.Place(s, desk)
	require.Len(t, p.Slots, SlotCount)
	assert.Equal(t, "c3", p.Slots[0].CampaignID)
	assert.Equal(t, "c1", p.Slots[1].CampaignID)
	assert.Equal(t, "c2", p.Slots[2].CampaignID)
	for _, slot := range p.Slots[3:] {
		assert.True(t, slot.Empty)
		assert.Empty(t, slot.CampaignID)
	}
}

func TestSlots_DuplicatesSharedProjects(t *testing.T) {
	m, s := board(t, "A", "B")
	s = addPhysical(t, m, s, "shared", "c1", "c2")
	s = addPhysical(t, m, s, "solo", "c2")
	shared, solo := s.Projects[0].ID, s.Projects[1].ID

	p := Slots{}.Place(s, desk)
	assert.Equal(t, []string{shared}, p.Slots[0].ProjectIDs)
	assert.Equal(t, []string{shared, solo}, p.Slots[1].ProjectIDs)
	assert.Len(t, p.ProjectPoints(shared), 2, "listed once per member campaign")
}

func TestSlots_GridGeometry(t *testing.T) {
	_, s := board(t, "A")
	p := Slots{}.Place(s, desk)

	cellW := (desk.Width - 2*Padding) / 3
	cellH := (desk.Height - 2*Padding) / 2
	first := p.Slots[0]
	assert.InDelta(t, Padding+cellW/2, first.Center.X, 0.01)
	assert.InDelta(t, Padding+cellH/2, first.Center.Y, 0.01)
	fourth := p.Slots[3]
	assert.InDelta(t, Padding+cellH*1.5, fourth.Center.Y, 0.01, "second row")

	pt, ok := p.CampaignPoint("c1")
	require.True(t, ok)
	assert.Equal(t, first.Center, pt)
}
