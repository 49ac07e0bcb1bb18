package labeling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mangarec/internal/genres"
	"mangarec/pkg/models"
)

func TestBuildFeaturesCoalescing(t *testing.T) {
	bl := genres.DefaultBlacklist()

	row := BuildFeatures(models.CatalogItem{
		MalID:  1,
		Title:  "Bare",
		Type:   "Manga",
		Genres: "Action, Boys Love, Drama",
	}, bl)

	assert.Equal(t, "Manga", row.Type)
	assert.Equal(t, []string{"Action", "Drama"}, row.Genres)
	assert.Zero(t, row.MeanScore)
	assert.Zero(t, row.Chapters)
	assert.Zero(t, row.Volumes)
	assert.Equal(t, "", row.Synopsis)
}

func TestBuildFeaturesPopulated(t *testing.T) {
	mean := 8.2
	ch := 120
	vols := 12

	row := BuildFeatures(models.CatalogItem{
		Type:      "Manhwa",
		Genres:    "Romance",
		MeanScore: &mean,
		Chapters:  &ch,
		Volumes:   &vols,
		Synopsis:  "a story",
	}, genres.DefaultBlacklist())

	assert.Equal(t, 8.2, row.MeanScore)
	assert.Equal(t, 120, row.Chapters)
	assert.Equal(t, 12, row.Volumes)
	assert.Equal(t, "a story", row.Synopsis)
}

func TestExamples(t *testing.T) {
	bl := genres.DefaultBlacklist()
	items := []models.CatalogItem{
		{MalID: 1, Title: "liked", Genres: "Action", UserScore: intp(9)},
		{MalID: 2, Title: "dropped", Genres: "Drama", Dropped: intp(1)},
		{MalID: 3, Title: "no signal", Genres: "Drama"},
		{MalID: 4, Title: "blacklisted", Genres: "Action, Hentai", UserScore: intp(9)},
	}

	ex := Examples(items, bl)
	assert.Len(t, ex, 2)
	assert.Equal(t, int64(1), ex[0].MalID)
	assert.Equal(t, 1, ex[0].Label)
	assert.Equal(t, int64(2), ex[1].MalID)
	assert.Equal(t, 0, ex[1].Label)
}
