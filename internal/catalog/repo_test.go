package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangarec/pkg/database"
	"mangarec/pkg/models"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func strp(v string) *string { return &v }

func boolp(v bool) *bool { return &v }

func seededRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepo(db)
	ctx := context.Background()

	items := []models.CatalogItem{
		{MalID: 1, Title: "Alpha", Type: "Manga", Genres: "Action, Adventure", MeanScore: floatp(8.1), Chapters: intp(100), PublishedDate: strp("2001-04-01")},
		{MalID: 2, Title: "Beta", Type: "Manhwa", Genres: "Romance", MeanScore: floatp(7.2)},
		{MalID: 3, Title: "Gamma", Type: "Manga", Genres: "Action, Hentai"},
	}
	for _, it := range items {
		require.NoError(t, repo.Upsert(ctx, it))
	}
	return repo
}

func TestGetByID(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	item, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Alpha", item.Title)
	require.NotNil(t, item.MeanScore)
	assert.Equal(t, 8.1, *item.MeanScore)
	require.NotNil(t, item.Chapters)
	assert.Equal(t, 100, *item.Chapters)
	assert.Nil(t, item.UserScore)
	assert.Nil(t, item.Volumes)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListFilters(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	byType, err := repo.List(ctx, Query{Type: "Manhwa"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, int64(2), byType[0].MalID)

	byGenre, err := repo.List(ctx, Query{GenresAny: []string{"action"}})
	require.NoError(t, err)
	assert.Len(t, byGenre, 2)

	excluded, err := repo.List(ctx, Query{GenresNone: []string{"hentai"}})
	require.NoError(t, err)
	assert.Len(t, excluded, 2)

	unrated, err := repo.List(ctx, Query{Rated: boolp(false)})
	require.NoError(t, err)
	assert.Len(t, unrated, 3)
}

func TestListOrderedByID(t *testing.T) {
	repo := seededRepo(t)

	items, err := repo.List(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].MalID, items[i].MalID)
	}
}

func TestUpdateFeedback(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	found, err := repo.UpdateFeedback(ctx, 1, intp(9), intp(-1), intp(0), false)
	require.NoError(t, err)
	assert.True(t, found)

	item, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, item.UserScore)
	assert.Equal(t, 9, *item.UserScore)
	require.NotNil(t, item.Read)
	assert.Equal(t, -1, *item.Read)

	rated, err := repo.List(ctx, Query{Rated: boolp(true)})
	require.NoError(t, err)
	require.Len(t, rated, 1)
	assert.Equal(t, int64(1), rated[0].MalID)

	found, err = repo.UpdateFeedback(ctx, 999, nil, nil, nil, true)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpsertPreservesFeedback(t *testing.T) {
	repo := seededRepo(t)
	ctx := context.Background()

	_, err := repo.UpdateFeedback(ctx, 2, intp(8), intp(-1), intp(0), false)
	require.NoError(t, err)

	// re-import the same title with refreshed metadata
	require.NoError(t, repo.Upsert(ctx, models.CatalogItem{
		MalID: 2, Title: "Beta (updated)", Type: "Manhwa", Genres: "Romance", MeanScore: floatp(7.5),
	}))

	item, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Beta (updated)", item.Title)
	require.NotNil(t, item.UserScore)
	assert.Equal(t, 8, *item.UserScore)
}
