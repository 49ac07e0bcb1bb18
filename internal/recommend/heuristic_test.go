package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangarec/internal/genres"
	"mangarec/internal/weights"
	"mangarec/pkg/models"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func strp(v string) *string { return &v }

func newTestRanker() *HeuristicRanker {
	return NewHeuristicRanker(8, 50, genres.DefaultBlacklist())
}

// scenario: A is liked history, B and C tie on genre match and are split by
// mean score.
func scenarioItems() []models.CatalogItem {
	return []models.CatalogItem{
		{MalID: 1, Title: "A", Genres: "Action,Romance", UserScore: intp(9), Read: intp(-1)},
		{MalID: 2, Title: "B", Genres: "Action", MeanScore: floatp(7.0), Chapters: intp(50), Read: intp(0), Dropped: intp(0)},
		{MalID: 3, Title: "C", Genres: "Romance", MeanScore: floatp(8.0), Chapters: intp(0), PublishedDate: strp("1999-01-01"), Read: intp(0), Dropped: intp(0)},
	}
}

func TestBuildAffinity(t *testing.T) {
	h := newTestRanker()
	affinity := h.BuildAffinity(scenarioItems())
	assert.Equal(t, map[string]int{"Action": 1, "Romance": 1}, affinity)
}

func TestBuildAffinityExcludesDroppedAndUnread(t *testing.T) {
	h := newTestRanker()
	items := []models.CatalogItem{
		{MalID: 1, Genres: "Action", UserScore: intp(9), Read: intp(0)},            // never engaged
		{MalID: 2, Genres: "Drama", UserScore: intp(9), Read: intp(-1), Dropped: intp(1)}, // dropped
		{MalID: 3, Genres: "Comedy", UserScore: intp(7), Read: intp(-1)},           // below threshold
	}
	assert.Empty(t, h.BuildAffinity(items))
}

func TestRankScenario(t *testing.T) {
	h := newTestRanker()
	ranked := h.Rank(scenarioItems(), weights.Defaults())

	require.Len(t, ranked, 2)
	// B and C both match half the affinity mass; C wins on mean score
	assert.Equal(t, int64(3), ranked[0].MalID)
	assert.Equal(t, int64(2), ranked[1].MalID)
	assert.Equal(t, 0.5, ranked[0].Score)
	assert.Equal(t, 0.5, ranked[1].Score)
	assert.Equal(t, map[string]float64{"Romance": 1}, ranked[0].Breakdown)
}

func TestRankEmptyAffinity(t *testing.T) {
	h := newTestRanker()
	items := []models.CatalogItem{
		{MalID: 10, Genres: "Action", MeanScore: floatp(6.0), Read: intp(0)},
		{MalID: 11, Genres: "Drama", MeanScore: floatp(9.0), Read: intp(0)},
	}

	ranked := h.Rank(items, weights.Defaults())
	require.Len(t, ranked, 2)
	// no liked history: every match score is exactly 0, mean score decides
	assert.Zero(t, ranked[0].Score)
	assert.Zero(t, ranked[1].Score)
	assert.Equal(t, int64(11), ranked[0].MalID)
}

func TestRankCandidateFiltering(t *testing.T) {
	h := newTestRanker()
	items := []models.CatalogItem{
		{MalID: 1, Genres: "Action", UserScore: intp(6), Read: intp(0)},              // rated
		{MalID: 2, Genres: "Action", Read: intp(5)},                                  // mid-read
		{MalID: 3, Genres: "Action", Dropped: intp(1)},                               // dropped
		{MalID: 4, Genres: "Action", NotInterested: true},                            // opted out
		{MalID: 5, Genres: "Action, Hentai"},                                         // blacklisted
		{MalID: 6, Genres: "Action", Read: intp(0), Dropped: intp(0)},                // the one candidate
	}

	ranked := h.Rank(items, weights.Defaults())
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(6), ranked[0].MalID)
}

func TestRankMissingDateLosesFinalTieBreak(t *testing.T) {
	h := newTestRanker()
	items := []models.CatalogItem{
		{MalID: 20, Genres: "Action"},
		{MalID: 21, Genres: "Action", PublishedDate: strp("2010-05-01")},
	}

	ranked := h.Rank(items, weights.Defaults())
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(21), ranked[0].MalID)
}

func TestRankUnknownChaptersNotPenalized(t *testing.T) {
	h := newTestRanker()
	// nil chapters and zero chapters carry the same tie-break value; the
	// date key decides
	items := []models.CatalogItem{
		{MalID: 30, Genres: "Action", Chapters: intp(0), PublishedDate: strp("2005-01-01")},
		{MalID: 31, Genres: "Action", PublishedDate: strp("2001-01-01")},
	}

	ranked := h.Rank(items, weights.Defaults())
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(31), ranked[0].MalID)
}

func TestRankDeterminism(t *testing.T) {
	h := newTestRanker()
	items := scenarioItems()
	w := weights.Defaults()

	first := h.Rank(items, w)
	second := h.Rank(items, w)
	assert.Equal(t, first, second)
}

func TestRankScalingInvariance(t *testing.T) {
	h := newTestRanker()
	items := scenarioItems()

	doubled := weights.Defaults()
	for k := range doubled {
		doubled[k] *= 2
	}

	base := h.Rank(items, weights.Defaults())
	scaled := h.Rank(items, doubled)

	require.Len(t, scaled, len(base))
	for i := range base {
		assert.Equal(t, base[i].MalID, scaled[i].MalID)
	}
}

func TestRankResultLimit(t *testing.T) {
	h := NewHeuristicRanker(8, 2, genres.DefaultBlacklist())
	items := []models.CatalogItem{
		{MalID: 1, Genres: "Action"},
		{MalID: 2, Genres: "Action"},
		{MalID: 3, Genres: "Action"},
	}
	assert.Len(t, h.Rank(items, weights.Defaults()), 2)
}

func TestRankZeroWeightCollapsesCriterion(t *testing.T) {
	h := newTestRanker()
	w := weights.Defaults()
	w[weights.MeanScore] = 0

	// with mean score muted, B vs C falls through to the chapters key
	ranked := h.Rank(scenarioItems(), w)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(2), ranked[0].MalID) // B has 50 chapters, C has 0
}
