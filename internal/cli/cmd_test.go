package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/orbit/internal/config"
	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/alexanderramin/orbit/internal/repository"
	"github.com/alexanderramin/orbit/internal/service"
	"github.com/alexanderramin/orbit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	snapshots := repository.NewSQLiteSnapshotRepo(db)

	board := service.NewBoard(snapshots, testutil.NewTestUoW(db),
		service.WithMutator(testutil.NewTestMutator("cli")),
		service.WithClock(func() time.Time { return testutil.FixedTime }),
	)
	_, err := board.Load(context.Background())
	require.NoError(t, err)

	return &App{
		Board:         board,
		Transfer:      service.NewTransferService(board, snapshots),
		Config:        config.DefaultConfig(t.TempDir()),
		Version:       "test",
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExec(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

// seedBoard adds two campaigns and a project shared between them.
func seedBoard(t *testing.T, app *App) {
	t.Helper()
	mustExec(t, app, "campaign", "add", "Writing")
	mustExec(t, app, "campaign", "add", "Reading")
	mustExec(t, app, "project", "add", "Shelf", "-c", "Writing", "-c", "Reading", "--mode", "physical")
}

// --- Campaigns ---

func TestCampaignAddAndList(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "campaign", "add", "Deep", "Work")
	assert.Contains(t, out, "Added campaign Deep Work")

	out = mustExec(t, app, "campaign", "list")
	assert.Contains(t, out, "Deep Work")
	assert.Len(t, app.Board.Current().Campaigns, 1)
}

func TestCampaignList_Empty(t *testing.T) {
	app := testApp(t)
	out := mustExec(t, app, "campaign", "ls")
	assert.Contains(t, out, "No campaigns yet")
}

func TestCampaignAdd_CapIsAnError(t *testing.T) {
	app := testApp(t)
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		mustExec(t, app, "campaign", "add", name)
	}
	_, err := executeCmd(t, app, "campaign", "add", "G")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrRejected)
	assert.Len(t, app.Board.Current().Campaigns, domain.MaxCampaigns)
}

func TestCampaignRenameAndMission(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "campaign", "add", "Writing")

	out := mustExec(t, app, "campaign", "rename", "writing", "Essays")
	assert.Contains(t, out, "Renamed Writing to Essays")

	mustExec(t, app, "campaign", "mission", "Essays", "Draft", "intro")
	mustExec(t, app, "campaign", "mission", "Essays", "Edit intro")
	c := app.Board.Current().Campaigns[0]
	assert.Equal(t, "Edit intro", c.CurrentMission)
	assert.Equal(t, "Draft intro", c.PreviousMission)

	mustExec(t, app, "campaign", "clear-mission", "Essays")
	c = app.Board.Current().Campaigns[0]
	assert.Empty(t, c.CurrentMission)
	assert.Equal(t, "Draft intro", c.PreviousMission)
}

func TestCampaignShow(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)
	mustExec(t, app, "campaign", "mission", "Reading", "Finish chapter 3")

	out := mustExec(t, app, "campaign", "show", "reading")
	assert.Contains(t, out, "READING")
	assert.Contains(t, out, "Finish chapter 3")
	assert.Contains(t, out, "Shelf")
}

func TestCampaignRename_UnchangedSucceeds(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "campaign", "add", "Writing")

	out := mustExec(t, app, "campaign", "rename", "Writing", "Writing")
	assert.Contains(t, out, "Nothing to change.")
}

func TestCampaign_UnknownReference(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "campaign", "rename", "ghost", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCampaignMoveAndSlot(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	mustExec(t, app, "campaign", "move", "Writing", "300", "200.5")
	c, _ := app.Board.Current().Campaign("cli-01")
	p, ok := c.Position()
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 300, Y: 200.5}, p)

	_, err := executeCmd(t, app, "campaign", "move", "Writing", "left", "2")
	assert.Error(t, err)

	out := mustExec(t, app, "campaign", "slot", "Reading", "1")
	assert.Contains(t, out, "slot 1")
	assert.Equal(t, "Reading", app.Board.Current().Campaigns[0].Name)
}

func TestCampaignDelete_Cascades(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)
	mustExec(t, app, "project", "add", "Journal", "-c", "Writing", "--mode", "physical")

	out := mustExec(t, app, "campaign", "delete", "Writing", "--yes")
	assert.Contains(t, out, "Deleted campaign Writing")
	assert.Contains(t, out, "Journal")
	assert.NotContains(t, out, "Shelf")

	s := app.Board.Current()
	require.Len(t, s.Projects, 1)
	assert.Equal(t, []string{"cli-02"}, s.Projects[0].CampaignIDs)
}

// --- Projects ---

func TestProjectAdd_InfersLinkType(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "campaign", "add", "Writing")

	out := mustExec(t, app, "project", "add", "Notes", "-c", "Writing", "--link", "obsidian://open?vault=main")
	assert.Contains(t, out, "Added project Notes")

	p := app.Board.Current().Projects[0]
	assert.Equal(t, domain.LinkObsidian, p.LinkType)
	assert.Equal(t, domain.ModeLaunchable, p.Mode)
}

func TestProjectAdd_Validation(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "campaign", "add", "Writing")

	_, err := executeCmd(t, app, "project", "add", "-c", "Writing")
	assert.ErrorContains(t, err, "name is required")

	_, err = executeCmd(t, app, "project", "add", "Notes", "-c", "Writing")
	assert.ErrorIs(t, err, service.ErrRejected, "launchable without a link")

	_, err = executeCmd(t, app, "project", "add", "Notes", "-c", "Writing", "--mode", "sideways")
	assert.Error(t, err)

	assert.Empty(t, app.Board.Current().Projects)
}

func TestProjectList_FiltersByCampaign(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)
	mustExec(t, app, "project", "add", "Journal", "-c", "Writing", "--mode", "physical")

	out := mustExec(t, app, "project", "list", "-c", "Reading")
	assert.Contains(t, out, "Shelf")
	assert.NotContains(t, out, "Journal")

	out = mustExec(t, app, "project", "list")
	assert.Contains(t, out, "Journal")
}

func TestProjectUpdate(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	_, err := executeCmd(t, app, "project", "update", "Shelf")
	assert.ErrorContains(t, err, "nothing to update")

	out := mustExec(t, app, "project", "update", "Shelf", "--name", "Bookshelf", "-c", "Reading")
	assert.Contains(t, out, "Updated project Bookshelf")
	p := app.Board.Current().Projects[0]
	assert.Equal(t, []string{"cli-02"}, p.CampaignIDs)

	out = mustExec(t, app, "project", "update", "Bookshelf", "--name", "Bookshelf")
	assert.Contains(t, out, "Nothing to change.")
}

func TestProjectUpdate_UnknownCampaignKeepsProject(t *testing.T) {
	app := testApp(t)
	mustExec(t, app, "campaign", "add", "Writing")
	mustExec(t, app, "project", "add", "Journal", "-c", "Writing", "--mode", "physical")

	_, err := executeCmd(t, app, "project", "update", "Journal", "-c", "Reading")
	require.Error(t, err)
	p := app.Board.Current().Projects[0]
	assert.Equal(t, []string{"cli-01"}, p.CampaignIDs)
}

func TestProjectDelete(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	out := mustExec(t, app, "project", "rm", "shelf")
	assert.Contains(t, out, "Deleted project Shelf")
	assert.Empty(t, app.Board.Current().Projects)
}

// --- Board and layout ---

func TestBoard_RingSeedsAndSaves(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	out := mustExec(t, app, "board")
	assert.Contains(t, out, "2/6 campaigns")
	for _, c := range app.Board.Current().Campaigns {
		_, ok := c.Position()
		assert.True(t, ok, "campaign %s has a saved position", c.Name)
	}
}

func TestBoard_SlotsAndTree(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	out := mustExec(t, app, "board", "--layout", "slots")
	assert.Contains(t, out, "Writing")
	assert.Contains(t, out, "(empty)")

	out = mustExec(t, app, "board", "--tree")
	assert.Contains(t, out, "Shelf")
	assert.Contains(t, out, "shared")

	_, err := executeCmd(t, app, "board", "--layout", "spiral")
	assert.Error(t, err)
}

func TestBoard_JSON(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	out := mustExec(t, app, "board", "--json", "--layout", "slots")
	var p layout.Placement
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "slots", p.Strategy)
	assert.Len(t, p.Slots, domain.MaxCampaigns)
}

func TestBoard_EmptyTree(t *testing.T) {
	app := testApp(t)
	out := mustExec(t, app, "board", "--tree")
	assert.Contains(t, out, "The board is empty.")
}

func TestLayoutReset(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)
	mustExec(t, app, "campaign", "move", "Writing", "300", "200")

	out := mustExec(t, app, "layout", "reset")
	assert.Contains(t, out, "Cleared campaign positions.")
	for _, c := range app.Board.Current().Campaigns {
		_, ok := c.Position()
		assert.False(t, ok)
	}

	out = mustExec(t, app, "layout", "reset")
	assert.Contains(t, out, "Nothing to change.")
}

// --- Transfer ---

func TestExportImportRestore(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	path := filepath.Join(t.TempDir(), "board.json")
	out := mustExec(t, app, "export", "-o", path)
	assert.Contains(t, out, "Exported 2 campaign(s) and 1 project(s)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format": "orbit-board"`)

	mustExec(t, app, "campaign", "add", "Extra")
	require.Len(t, app.Board.Current().Campaigns, 3)

	out = mustExec(t, app, "import", path)
	assert.Contains(t, out, "Imported 2 campaign(s) and 1 project(s)")
	assert.Contains(t, out, "orbit restore 1")
	assert.Len(t, app.Board.Current().Campaigns, 2)

	out = mustExec(t, app, "history")
	assert.Contains(t, out, "import")

	out = mustExec(t, app, "restore", "1")
	assert.Contains(t, out, "Restored #1: 3 campaign(s)")
	assert.Len(t, app.Board.Current().Campaigns, 3)
}

func TestExport_Stdout(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)

	out := mustExec(t, app, "export")
	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "orbit-board", env["format"])
}

func TestImport_Stdin(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)
	data := mustExec(t, app, "export")

	other := testApp(t)
	root := NewRootCmd(other)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetIn(bytes.NewBufferString(data))
	root.SetArgs([]string{"import", "-"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Imported 2 campaign(s)")
	assert.NotContains(t, buf.String(), "restore", "an empty board is not backed up")
}

func TestImport_InvalidFileChangesNothing(t *testing.T) {
	app := testApp(t)
	seedBoard(t, app)
	before := app.Board.Revision()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"format":"something-else","version":1,"state":{}}`), 0o644))

	_, err := executeCmd(t, app, "import", path)
	require.Error(t, err)
	assert.Equal(t, before, app.Board.Revision())
	assert.Len(t, app.Board.Current().Campaigns, 2)
}

func TestHistory_EmptyAndRestoreErrors(t *testing.T) {
	app := testApp(t)

	out := mustExec(t, app, "history")
	assert.Contains(t, out, "No history yet.")

	_, err := executeCmd(t, app, "restore", "zero")
	assert.ErrorContains(t, err, "invalid history entry")

	_, err = executeCmd(t, app, "restore", "42")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// --- Interactive-only commands ---

func TestView_RequiresTerminal(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "view")
	assert.ErrorContains(t, err, "interactive terminal")
}
