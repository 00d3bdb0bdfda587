package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// newTestMutator returns a Mutator with a frozen clock and sequential ids.
func newTestMutator() *Mutator {
	n := 0
	return NewMutator(
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%02d", n)
		}),
	)
}

func boardWith(t *testing.T, m *Mutator, names ...string) *State {
	t.Helper()
	s := Empty()
	for _, name := range names {
		next := m.AddCampaign(s, CampaignDraft{Name: name})
		require.NotSame(t, s, next, "adding %q should be accepted", name)
		s = next
	}
	return s
}

func TestAddCampaign_DefaultsColorFromPalette(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing", "Building")

	require.Len(t, s.Campaigns, 2)
	assert.Equal(t, "Writing", s.Campaigns[0].Name)
	assert.Equal(t, Palette[0], s.Campaigns[0].Color)
	assert.Equal(t, Palette[1], s.Campaigns[1].Color)
	assert.Empty(t, s.Campaigns[0].CurrentMission)
	assert.Empty(t, s.Campaigns[0].PreviousMission)
	assert.Nil(t, s.Campaigns[0].X, "coordinates stay unset until layout")
}

func TestAddCampaign_ExplicitColor(t *testing.T) {
	m := newTestMutator()
	s := m.AddCampaign(Empty(), CampaignDraft{Name: "Fitness", Color: " #123456 "})
	assert.Equal(t, "#123456", s.Campaigns[0].Color)
}

func TestAddCampaign_BlankNameIsNoOp(t *testing.T) {
	m := newTestMutator()
	s := Empty()
	assert.Same(t, s, m.AddCampaign(s, CampaignDraft{Name: "   "}))
}

func TestAddCampaign_NeverExceedsCap(t *testing.T) {
	m := newTestMutator()
	s := Empty()
	for i := 0; i < MaxCampaigns+4; i++ {
		s = m.AddCampaign(s, CampaignDraft{Name: fmt.Sprintf("C%d", i)})
		assert.LessOrEqual(t, len(s.Campaigns), MaxCampaigns)
	}
	assert.Len(t, s.Campaigns, MaxCampaigns)

	full := s
	assert.Same(t, full, m.AddCampaign(full, CampaignDraft{Name: "One more"}))
	err := CheckCampaignDraft(full, CampaignDraft{Name: "One more"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestAddCampaign_DoesNotMutateInput(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "A")
	before := len(s.Campaigns)
	_ = m.AddCampaign(s, CampaignDraft{Name: "B"})
	assert.Len(t, s.Campaigns, before)
}

func TestMutations_BumpUpdatedAtMonotonically(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "A", "B", "C")
	// The frozen clock would repeat; each accepted mutation must still advance.
	assert.Greater(t, s.UpdatedAt, int64(0))
	prev := s.UpdatedAt
	s = m.RenameCampaign(s, s.Campaigns[0].ID, "Alpha")
	assert.Greater(t, s.UpdatedAt, prev)
}

func TestRenameCampaign(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing")
	id := s.Campaigns[0].ID

	t.Run("unknown id", func(t *testing.T) {
		assert.Same(t, s, m.RenameCampaign(s, "nope", "X"))
	})
	t.Run("unchanged", func(t *testing.T) {
		assert.Same(t, s, m.RenameCampaign(s, id, " Writing "))
	})
	t.Run("blank", func(t *testing.T) {
		assert.Same(t, s, m.RenameCampaign(s, id, ""))
	})
	t.Run("renamed", func(t *testing.T) {
		next := m.RenameCampaign(s, id, "Essays")
		require.NotSame(t, s, next)
		assert.Equal(t, "Essays", next.Campaigns[0].Name)
		assert.Equal(t, "Writing", s.Campaigns[0].Name, "input snapshot untouched")
	})
}

func TestUpdateCampaignMission_Rollover(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing")
	id := s.Campaigns[0].ID

	s = m.UpdateCampaignMission(s, id, "Ship v1")
	s = m.UpdateCampaignMission(s, id, "Ship v2")

	c, _ := s.Campaign(id)
	assert.Equal(t, "Ship v2", c.CurrentMission)
	assert.Equal(t, "Ship v1", c.PreviousMission)
}

func TestUpdateCampaignMission_UnchangedIsNoOp(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing")
	id := s.Campaigns[0].ID
	s = m.UpdateCampaignMission(s, id, "Draft")

	assert.Same(t, s, m.UpdateCampaignMission(s, id, "  Draft "))
	assert.Same(t, s, m.UpdateCampaignMission(s, "missing", "Draft"))
}

func TestUpdateCampaignMission_ClearKeepsLastRealMission(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing")
	id := s.Campaigns[0].ID

	s = m.UpdateCampaignMission(s, id, "Outline")
	s = m.UpdateCampaignMission(s, id, "")
	c, _ := s.Campaign(id)
	assert.Empty(t, c.CurrentMission)
	assert.Equal(t, "Outline", c.PreviousMission)

	// Setting a mission after a clear must not push the empty value over it.
	s = m.UpdateCampaignMission(s, id, "Draft")
	c, _ = s.Campaign(id)
	assert.Equal(t, "Draft", c.CurrentMission)
	assert.Equal(t, "Outline", c.PreviousMission)
}

func TestClearCampaignMission_LeavesPreviousAlone(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing")
	id := s.Campaigns[0].ID
	s = m.UpdateCampaignMission(s, id, "One")
	s = m.UpdateCampaignMission(s, id, "Two")

	s = m.ClearCampaignMission(s, id)
	c, _ := s.Campaign(id)
	assert.Empty(t, c.CurrentMission)
	assert.Equal(t, "One", c.PreviousMission)

	assert.Same(t, s, m.ClearCampaignMission(s, id), "already clear")
}

func TestSetCampaignColor(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing")
	id := s.Campaigns[0].ID

	assert.Same(t, s, m.SetCampaignColor(s, id, Palette[0]))
	next := m.SetCampaignColor(s, id, "#000000")
	assert.Equal(t, "#000000", next.Campaigns[0].Color)
}

func TestMoveCampaign(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "Writing")
	id := s.Campaigns[0].ID

	moved := m.MoveCampaign(s, id, 120, 80)
	require.NotSame(t, s, moved)
	p, ok := moved.Campaigns[0].Position()
	require.True(t, ok)
	assert.Equal(t, Point{X: 120, Y: 80}, p)

	assert.Same(t, moved, m.MoveCampaign(moved, id, 120, 80), "same position is a no-op")
	assert.Same(t, moved, m.MoveCampaign(moved, id, nan(), 3), "non-finite is rejected")
	assert.Same(t, moved, m.MoveCampaign(moved, "missing", 1, 1))
}

func TestPlaceCampaigns_SingleSnapshot(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "A", "B")
	a, b := s.Campaigns[0].ID, s.Campaigns[1].ID

	next := m.PlaceCampaigns(s, map[string]Point{a: {X: 1, Y: 2}, b: {X: 3, Y: 4}, "ghost": {X: 9, Y: 9}})
	require.NotSame(t, s, next)
	pa, _ := next.Campaigns[0].Position()
	pb, _ := next.Campaigns[1].Position()
	assert.Equal(t, Point{X: 1, Y: 2}, pa)
	assert.Equal(t, Point{X: 3, Y: 4}, pb)

	assert.Same(t, next, m.PlaceCampaigns(next, map[string]Point{a: {X: 1, Y: 2}}))
}

func TestResetCampaignPositions(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "A")
	assert.Same(t, s, m.ResetCampaignPositions(s))

	s = m.MoveCampaign(s, s.Campaigns[0].ID, 5, 5)
	reset := m.ResetCampaignPositions(s)
	_, placed := reset.Campaigns[0].Position()
	assert.False(t, placed)
}

func TestMoveCampaignToSlot(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "A", "B", "C")
	c := s.Campaigns[2].ID

	next := m.MoveCampaignToSlot(s, c, 0)
	assert.Equal(t, []string{"C", "A", "B"}, names(next))
	assert.Equal(t, []string{"A", "B", "C"}, names(s))

	assert.Same(t, next, m.MoveCampaignToSlot(next, c, -3), "clamped to current slot")
	last := m.MoveCampaignToSlot(next, c, 99)
	assert.Equal(t, []string{"A", "B", "C"}, names(last))
}

func TestDeleteCampaign_CascadesToProjects(t *testing.T) {
	m := newTestMutator()
	s := boardWith(t, m, "A", "B")
	a, b := s.Campaigns[0].ID, s.Campaigns[1].ID

	s = m.AddProject(s, ProjectDraft{Name: "Only A", Mode: ModePhysical, CampaignIDs: []string{a}})
	s = m.AddProject(s, ProjectDraft{Name: "A and B", Mode: ModePhysical, CampaignIDs: []string{a, b}})
	require.Len(t, s.Projects, 2)

	next := m.DeleteCampaign(s, a)
	require.Len(t, next.Campaigns, 1)
	require.Len(t, next.Projects, 1)
	assert.Equal(t, "A and B", next.Projects[0].Name)
	assert.Equal(t, []string{b}, next.Projects[0].CampaignIDs)
	for _, p := range next.Projects {
		assert.False(t, p.BelongsTo(a))
	}

	assert.Same(t, next, m.DeleteCampaign(next, a), "unknown id is a no-op")
	assert.Len(t, s.Projects, 2, "input snapshot untouched")
}

func names(s *State) []string {
	out := make([]string, 0, len(s.Campaigns))
	for _, c := range s.Campaigns {
		out = append(out, c.Name)
	}
	return out
}
