package recommend

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangarec/internal/genres"
	"mangarec/pkg/models"
)

// stubClassifier scores rows from their mean score alone, or fails every
// call when err is set.
type stubClassifier struct {
	err     error
	version string
}

func (s *stubClassifier) Fit(rows []models.FeatureRow, labels []int) error { return nil }

func (s *stubClassifier) PredictProba(rows []models.FeatureRow) ([][2]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][2]float64, len(rows))
	for i, r := range rows {
		p := r.MeanScore / 10
		if p > 1 {
			p = 1
		}
		out[i] = [2]float64{1 - p, p}
	}
	return out, nil
}

func (s *stubClassifier) Version() string { return s.version }

func newTestSupervisedRanker(clf *stubClassifier, batch int) *Ranker {
	return NewRanker(clf, batch, genres.DefaultBlacklist(), zerolog.Nop())
}

func featureRows(scores ...float64) []models.FeatureRow {
	rows := make([]models.FeatureRow, len(scores))
	for i, s := range scores {
		rows[i] = models.FeatureRow{MeanScore: s}
	}
	return rows
}

func TestScoreBounds(t *testing.T) {
	r := newTestSupervisedRanker(&stubClassifier{}, 100)
	rows := featureRows(1, 5, 9.9, 0, 10)

	scores, err := r.Score(rows)
	require.NoError(t, err)
	require.Len(t, scores, len(rows))
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScoreBatchingInvariance(t *testing.T) {
	rows := featureRows(1, 2, 3, 4, 5, 6, 7)

	whole, err := newTestSupervisedRanker(&stubClassifier{}, 1000).Score(rows)
	require.NoError(t, err)
	batched, err := newTestSupervisedRanker(&stubClassifier{}, 2).Score(rows)
	require.NoError(t, err)

	assert.Equal(t, whole, batched)
}

func TestScoreBatchFailureAborts(t *testing.T) {
	r := newTestSupervisedRanker(&stubClassifier{err: errors.New("boom")}, 2)

	scores, err := r.Score(featureRows(1, 2, 3))
	assert.Nil(t, scores)

	var scoringErr *ScoringError
	require.ErrorAs(t, err, &scoringErr)
	assert.Equal(t, 0, scoringErr.Batch)
}

func TestRankItemsTieBreakByID(t *testing.T) {
	r := newTestSupervisedRanker(&stubClassifier{}, 100)
	items := []models.CatalogItem{
		{MalID: 7, Title: "tied-b", MeanScore: floatp(5)},
		{MalID: 3, Title: "tied-a", MeanScore: floatp(5)},
		{MalID: 9, Title: "best", MeanScore: floatp(9)},
	}

	ranked, err := r.RankItems(items)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(9), ranked[0].MalID)
	assert.Equal(t, int64(3), ranked[1].MalID)
	assert.Equal(t, int64(7), ranked[2].MalID)

	again, err := r.RankItems(items)
	require.NoError(t, err)
	assert.Equal(t, ranked, again)
}

func TestPage(t *testing.T) {
	ranked := []models.RankedItem{
		{MalID: 1}, {MalID: 2}, {MalID: 3}, {MalID: 4}, {MalID: 5},
	}

	assert.Len(t, Page(ranked, 0, 2), 2)
	assert.Equal(t, int64(3), Page(ranked, 1, 2)[0].MalID)
	assert.Len(t, Page(ranked, 2, 2), 1) // partial last page
	assert.Empty(t, Page(ranked, 3, 2))  // past the end: empty, not an error
	assert.Empty(t, Page(ranked, 99, 2))
}

func labeledFixture() []models.LabeledExample {
	mk := func(id int64, label int, genre string, mean float64) models.LabeledExample {
		return models.LabeledExample{
			MalID: id,
			Label: label,
			Features: models.FeatureRow{
				Type: "Manga", Genres: []string{genre}, MeanScore: mean,
			},
		}
	}
	return []models.LabeledExample{
		mk(1, 1, "Action", 8.5),
		mk(2, 1, "Action", 8.0),
		mk(3, 1, "Adventure", 8.8),
		mk(4, 0, "Romance", 5.0),
		mk(5, 0, "Romance", 4.5),
		mk(6, 0, "Drama", 5.5),
		mk(7, 1, "Fantasy", 9.0),
		mk(8, 0, "Drama", 6.0),
	}
}

func TestTrain(t *testing.T) {
	tr := NewTrainer(0.25, "nb-v1", zerolog.Nop())

	nb, err := tr.Train(labeledFixture())
	require.NoError(t, err)
	assert.Equal(t, "nb-v1", nb.Version())

	probs, err := nb.PredictProba(featureRows(1))
	require.NoError(t, err)
	require.Len(t, probs, 1)
}

func TestTrainInsufficientClasses(t *testing.T) {
	tr := NewTrainer(0.25, "nb-v1", zerolog.Nop())

	onlyPos := labeledFixture()[:3]
	_, err := tr.Train(onlyPos)
	assert.ErrorIs(t, err, ErrInsufficientClasses)

	_, err = tr.Train(nil)
	assert.ErrorIs(t, err, ErrInsufficientClasses)
}

func TestTrainTinyMinorityFallsBack(t *testing.T) {
	tr := NewTrainer(0.25, "nb-v1", zerolog.Nop())

	// one negative example: stratification is infeasible but training
	// must still succeed
	examples := labeledFixture()[:4]
	_, err := tr.Train(examples)
	require.NoError(t, err)
}

func TestCheckVersionDoesNotFail(t *testing.T) {
	r := newTestSupervisedRanker(&stubClassifier{version: "nb-v0"}, 10)
	// mismatch is a warning only; ranking still works afterwards
	r.CheckVersion("nb-v1")

	scores, err := r.Score(featureRows(5))
	require.NoError(t, err)
	assert.Len(t, scores, 1)
}
