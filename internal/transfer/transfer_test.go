package transfer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)

func sampleState() *domain.State {
	x, y := 410.5, 220.0
	return &domain.State{
		Campaigns: []domain.Campaign{
			{ID: "c1", Name: "Writing", Color: "#fb4934", X: &x, Y: &y, CurrentMission: "Draft act two", PreviousMission: "Outline"},
			{ID: "c2", Name: "Building", Color: "#fabd2f"},
		},
		Projects: []domain.Project{
			{ID: "p1", Name: "Novella", Mode: domain.ModeLaunchable, LinkType: domain.LinkWeb, Link: "docs.new", CampaignIDs: []string{"c1"}},
			{ID: "p2", Name: "Bench", Mode: domain.ModePhysical, Link: "ignored", CampaignIDs: []string{"c1", "c2", "c1"}},
			{ID: "p3", Name: "Ghost", Mode: domain.ModePhysical, CampaignIDs: []string{"missing"}},
		},
		UpdatedAt: 1767000000000,
	}
}

func TestWrap(t *testing.T) {
	env := Wrap(sampleState(), exportTime.In(time.FixedZone("CET", 3600)))
	assert.Equal(t, Format, env.Format)
	assert.Equal(t, Version, env.Version)
	assert.Equal(t, "2026-05-04T12:30:00Z", env.ExportedAt)
	assert.Len(t, env.State.Campaigns, 2)

	assert.NotNil(t, Wrap(nil, exportTime).State)
}

func TestRoundTrip_EqualsNormalized(t *testing.T) {
	s := sampleState()
	data, err := Marshal(s, exportTime)
	require.NoError(t, err)

	res, err := Unwrap(data)
	require.NoError(t, err)
	assert.Equal(t, domain.Normalize(s), res.State)
	assert.Equal(t, exportTime, res.ExportedAt)
	assert.Equal(t, Summary{CampaignCount: 2, ProjectCount: 2}, res.Summary, "orphaned project dropped")
}

func TestRoundTrip_Empty(t *testing.T) {
	data, err := Marshal(domain.Empty(), exportTime)
	require.NoError(t, err)

	res, err := Unwrap(data)
	require.NoError(t, err)
	assert.Equal(t, domain.Empty(), res.State)
	assert.Zero(t, res.Summary.CampaignCount)
}

func TestUnwrap_Rejections(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", `{"format":`, "parsing JSON"},
		{"array root", `[]`, "parsing JSON"},
		{"wrong format", `{"format":"kanban","version":1,"exportedAt":"2026-05-04T12:30:00Z","state":{"campaigns":[],"projects":[]}}`, "format"},
		{"wrong version", `{"format":"orbit-board","version":2,"exportedAt":"2026-05-04T12:30:00Z","state":{"campaigns":[],"projects":[]}}`, "version"},
		{"string version", `{"format":"orbit-board","version":"1","exportedAt":"2026-05-04T12:30:00Z","state":{"campaigns":[],"projects":[]}}`, "version"},
		{"bad timestamp", `{"format":"orbit-board","version":1,"exportedAt":"last tuesday","state":{"campaigns":[],"projects":[]}}`, "exportedAt"},
		{"numeric timestamp", `{"format":"orbit-board","version":1,"exportedAt":12,"state":{"campaigns":[],"projects":[]}}`, "exportedAt"},
		{"missing state", `{"format":"orbit-board","version":1,"exportedAt":"2026-05-04T12:30:00Z"}`, "state: expected an object"},
		{"campaigns not list", `{"format":"orbit-board","version":1,"exportedAt":"2026-05-04T12:30:00Z","state":{"campaigns":{},"projects":[]}}`, "state.campaigns"},
		{"projects missing", `{"format":"orbit-board","version":1,"exportedAt":"2026-05-04T12:30:00Z","state":{"campaigns":[]}}`, "state.projects"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Unwrap([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnwrap_ReportsEveryProblem(t *testing.T) {
	_, err := Unwrap([]byte(`{"format":"x","version":0,"exportedAt":"?","state":{"campaigns":1,"projects":"no"}}`))
	require.Error(t, err)
	for _, field := range []string{"format", "version", "exportedAt", "state.campaigns", "state.projects"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestUnwrap_TruncatesLongValuesByRune(t *testing.T) {
	format := `"` + strings.Repeat("é", 60) + `"`
	_, err := Unwrap([]byte(`{"format":` + format + `,"version":1,"exportedAt":"2026-05-04T12:30:00Z","state":{"campaigns":[],"projects":[]}}`))
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "...")

	got := describe(json.RawMessage(format))
	assert.Equal(t, 40, utf8.RuneCountInString(got))
	assert.Equal(t, "hello", describe(json.RawMessage("  hello ")))
	assert.Equal(t, "nothing", describe(nil))
}

func TestUnwrap_AcceptsLooseTimestamps(t *testing.T) {
	for _, stamp := range []string{"2026-05-04T12:30:00.123Z", "2026-05-04T14:30:00+02:00", "2026-05-04T12:30:00", "2026-05-04"} {
		env := map[string]any{
			"format": Format, "version": 1.0, "exportedAt": stamp,
			"state": map[string]any{"campaigns": []any{}, "projects": []any{}},
		}
		data, err := json.Marshal(env)
		require.NoError(t, err)

		res, err := Unwrap(data)
		require.NoError(t, err, stamp)
		assert.Equal(t, time.UTC, res.ExportedAt.Location())
	}
}

func TestUnwrap_NormalizesEntries(t *testing.T) {
	data := `{"format":"orbit-board","version":1,"exportedAt":"2026-05-04T12:30:00Z","state":{
		"campaigns":[{"id":"c1"},"junk",{"id":"c1","name":"Dup"}],
		"projects":[{"name":"Legacy","campaignId":"c1","link":"obsidian://open?vault=notes"}]}}`

	res, err := Unwrap([]byte(data))
	require.NoError(t, err)
	require.Len(t, res.State.Campaigns, 2)
	assert.Equal(t, "Campaign 1", res.State.Campaigns[0].Name)
	assert.NotEqual(t, res.State.Campaigns[0].ID, res.State.Campaigns[1].ID)
	require.Len(t, res.State.Projects, 1)
	assert.Equal(t, domain.LinkObsidian, res.State.Projects[0].LinkType)
	assert.Equal(t, []string{"c1"}, res.State.Projects[0].CampaignIDs)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "board.json")
	require.NoError(t, WriteFile(path, sampleState(), exportTime))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"format": "orbit-board"`)

	res, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Summary.CampaignCount)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidEnvelope)
}
