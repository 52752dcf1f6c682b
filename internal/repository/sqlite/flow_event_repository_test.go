package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivmel/reflecta/internal/models"
	"github.com/ivmel/reflecta/internal/repository/sqlite"
	"github.com/ivmel/reflecta/internal/testutil"
)

func seedEvents(t *testing.T, repo interface {
	Insert(ctx context.Context, event models.FlowEvent) (int64, error)
}) {
	t.Helper()
	ctx := context.Background()
	events := []models.FlowEvent{
		{UserKey: "tg:1", Date: "2026-03-10", Kind: models.FlowEventSkip, Sphere: "career", QuestionID: 1},
		{UserKey: "tg:1", Date: "2026-03-10", Kind: models.FlowEventNotUnderstood, Sphere: "career", QuestionID: 2},
		{UserKey: "tg:1", Date: "2026-03-10", Kind: models.FlowEventAnswered, Sphere: "money", QuestionID: 3},
		{UserKey: "tg:1", Date: "2026-03-11", Kind: models.FlowEventSkip, Sphere: "money", QuestionID: 4},
		{UserKey: "tg:2", Date: "2026-03-10", Kind: models.FlowEventSkipAll},
	}
	for _, e := range events {
		_, err := repo.Insert(ctx, e)
		require.NoError(t, err)
	}
}

func TestFlowEventRepository_InsertAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewFlowEventRepository(database.DB)
	seedEvents(t, repo)

	events, err := repo.List(context.Background(), models.FlowEventFilter{UserKey: "tg:1", Date: "2026-03-10"})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.FlowEventSkip, events[0].Kind)
	assert.Equal(t, models.FlowEventAnswered, events[2].Kind)
	for _, e := range events {
		assert.Equal(t, "tg:1", e.UserKey)
		assert.Equal(t, "2026-03-10", e.Date)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestFlowEventRepository_FilterByKind(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewFlowEventRepository(database.DB)
	seedEvents(t, repo)

	events, err := repo.List(context.Background(), models.FlowEventFilter{
		UserKey: "tg:1",
		Kind:    models.FlowEventSkip,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, models.FlowEventSkip, e.Kind)
	}
}

func TestFlowEventRepository_FilterBySphere(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewFlowEventRepository(database.DB)
	seedEvents(t, repo)

	events, err := repo.List(context.Background(), models.FlowEventFilter{UserKey: "tg:1", Sphere: "money"})
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestFlowEventRepository_LimitAndOffset(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewFlowEventRepository(database.DB)
	seedEvents(t, repo)

	first, err := repo.List(context.Background(), models.FlowEventFilter{UserKey: "tg:1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)

	rest, err := repo.List(context.Background(), models.FlowEventFilter{UserKey: "tg:1", Limit: 10, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.NotEqual(t, first[0].ID, rest[0].ID)
}

func TestFlowEventRepository_Count(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewFlowEventRepository(database.DB)
	seedEvents(t, repo)

	count, err := repo.Count(context.Background(), models.FlowEventFilter{UserKey: "tg:1", Date: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = repo.Count(context.Background(), models.FlowEventFilter{Kind: models.FlowEventSkipAll})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIdentityRepository_CreateAndLookup(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewIdentityRepository(database.DB)
	ctx := context.Background()

	guestID, err := repo.CreateGuest(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, guestID)

	exists, err := repo.GuestExists(ctx, guestID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.GuestExists(ctx, "not-a-guest")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPreferenceRepository_DarkTheme(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewPreferenceRepository(database.DB)
	ctx := context.Background()

	enabled, err := repo.DarkTheme(ctx, "tg:1")
	require.NoError(t, err)
	assert.False(t, enabled, "default is light theme")

	require.NoError(t, repo.SetDarkTheme(ctx, "tg:1", true))
	enabled, err = repo.DarkTheme(ctx, "tg:1")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, repo.SetDarkTheme(ctx, "tg:1", false))
	enabled, err = repo.DarkTheme(ctx, "tg:1")
	require.NoError(t, err)
	assert.False(t, enabled)
}
