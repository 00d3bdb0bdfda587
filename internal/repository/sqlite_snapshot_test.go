package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/orbit/internal/db"
	"github.com/alexanderramin/orbit/internal/domain"
	"github.com/alexanderramin/orbit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBoard() *domain.State {
	writing := testutil.NewTestCampaign("Writing", testutil.WithCampaignID("c-writing"),
		testutil.WithMission("Finish chapter 3", "Outline"), testutil.WithPosition(320, 180))
	building := testutil.NewTestCampaign("Building", testutil.WithCampaignID("c-building"))
	return testutil.NewTestBoard(
		[]domain.Campaign{writing, building},
		[]domain.Project{
			testutil.NewTestProject("Novella", []string{"c-writing"},
				testutil.WithProjectID("p-novella"), testutil.WithLink("https://docs.new", domain.LinkWeb)),
			testutil.NewTestProject("Workbench", []string{"c-writing", "c-building"},
				testutil.WithProjectID("p-bench"), testutil.Physical()),
		},
	)
}

func TestSnapshotRepo_Load_NotFoundWhenEmpty(t *testing.T) {
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	rev, err := repo.Revision(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rev)
}

func TestSnapshotRepo_SaveLoadRoundTrip(t *testing.T) {
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	board := sampleBoard()

	rev, err := repo.Save(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, board, got.State)
	assert.Equal(t, int64(1), got.Revision)
	assert.False(t, got.SavedAt.IsZero())
}

func TestSnapshotRepo_Save_BumpsRevision(t *testing.T) {
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		rev, err := repo.Save(ctx, sampleBoard())
		require.NoError(t, err)
		assert.Equal(t, want, rev)
	}

	rev, err := repo.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rev)
}

func TestSnapshotRepo_Save_NilStoresEmptyBoard(t *testing.T) {
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, nil)
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Empty(), got.State)
}

func TestSnapshotRepo_Load_NormalizesCorruptPayload(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO board_snapshots (id, payload, revision, saved_at)
		VALUES ('current', '{"campaigns":[{"name":"Solo","x":"left"},7],"projects":[{"name":"Orphan","campaignIds":["gone"]}]}', 4, 'garbage')`)
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.State.Campaigns, 1)
	assert.Equal(t, "Solo", got.State.Campaigns[0].Name)
	assert.Nil(t, got.State.Campaigns[0].X)
	assert.Empty(t, got.State.Projects, "orphaned project dropped")
	assert.Equal(t, int64(4), got.Revision)
	assert.True(t, got.SavedAt.IsZero(), "unparseable timestamp reads as zero")
}

func TestSnapshotRepo_History(t *testing.T) {
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first, err := repo.AppendHistory(ctx, domain.Empty(), "import")
	require.NoError(t, err)
	second, err := repo.AppendHistory(ctx, sampleBoard(), "restore")
	require.NoError(t, err)
	assert.Greater(t, second, first)

	entries, err := repo.ListHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].Seq, "newest first")
	assert.Equal(t, "restore", entries[0].Reason)
	assert.Len(t, entries[0].State.Campaigns, 2)

	limited, err := repo.ListHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	got, err := repo.GetHistory(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "import", got.Reason)
	assert.Empty(t, got.State.Campaigns)

	_, err = repo.GetHistory(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotRepo_PruneHistory(t *testing.T) {
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		seq, err := repo.AppendHistory(ctx, domain.Empty(), "import")
		require.NoError(t, err)
		last = seq
	}

	removed, err := repo.PruneHistory(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, err := repo.ListHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, last, entries[0].Seq)
}

func TestSnapshotRepo_InsideTransaction(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepo := NewSQLiteSnapshotRepo(tx)
		if _, err := txRepo.AppendHistory(ctx, domain.Empty(), "import"); err != nil {
			return err
		}
		_, err := txRepo.Save(ctx, sampleBoard())
		return err
	})
	require.NoError(t, err)

	repo := NewSQLiteSnapshotRepo(database)
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.State.Projects, 2)

	entries, err := repo.ListHistory(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
