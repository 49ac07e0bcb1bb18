package recommend

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"mangarec/internal/genres"
	"mangarec/internal/labeling"
	"mangarec/internal/model"
	"mangarec/pkg/models"
)

// splitSeed fixes the shuffle used for the holdout split; training the same
// dataset twice reports the same metrics.
const splitSeed = 42

// Trainer fits the classifier on derived labels and reports holdout metrics.
// The metrics are informational only; a weak model still ships.
type Trainer struct {
	HoldoutFraction float64
	ModelVersion    string
	Log             zerolog.Logger
}

func NewTrainer(holdoutFraction float64, version string, log zerolog.Logger) *Trainer {
	return &Trainer{
		HoldoutFraction: holdoutFraction,
		ModelVersion:    version,
		Log:             log,
	}
}

// Train fits a fresh classifier. Fails with ErrInsufficientClasses when the
// examples carry fewer than two distinct labels. The holdout split is
// stratified by class; when a class is too small to split, it degrades to a
// plain split rather than failing.
func (t *Trainer) Train(examples []models.LabeledExample) (*model.NaiveBayes, error) {
	pos, neg := 0, 0
	for _, ex := range examples {
		if ex.Label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, fmt.Errorf("%w: pos=%d neg=%d", ErrInsufficientClasses, pos, neg)
	}

	t.Log.Info().
		Int("total", len(examples)).
		Int("positive", pos).
		Int("negative", neg).
		Msg("class balance")

	trainIdx, holdIdx := t.split(examples)

	rows := make([]models.FeatureRow, len(trainIdx))
	labels := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		rows[i] = examples[idx].Features
		labels[i] = examples[idx].Label
	}

	nb := model.NewNaiveBayes(t.ModelVersion)
	if err := nb.Fit(rows, labels); err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	t.report(nb, examples, holdIdx)
	return nb, nil
}

// split partitions example indices into train and holdout sets. Stratified
// when every class can spare at least one holdout row and keep one for
// training; otherwise a single shuffled cut.
func (t *Trainer) split(examples []models.LabeledExample) (train, holdout []int) {
	rng := rand.New(rand.NewSource(splitSeed))

	byClass := [2][]int{}
	for i, ex := range examples {
		byClass[ex.Label] = append(byClass[ex.Label], i)
	}

	stratifiable := len(byClass[0]) >= 2 && len(byClass[1]) >= 2
	if stratifiable {
		for _, idxs := range byClass {
			shuffled := append([]int(nil), idxs...)
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			n := int(float64(len(shuffled)) * t.HoldoutFraction)
			if n < 1 {
				n = 1
			}
			if n >= len(shuffled) {
				n = len(shuffled) - 1
			}
			holdout = append(holdout, shuffled[:n]...)
			train = append(train, shuffled[n:]...)
		}
		sort.Ints(train)
		sort.Ints(holdout)
		return train, holdout
	}

	// fallback: plain shuffled cut, never fails
	all := make([]int, len(examples))
	for i := range all {
		all[i] = i
	}
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	n := int(float64(len(all)) * t.HoldoutFraction)
	if n >= len(all) {
		n = len(all) - 1
	}
	holdout = append(holdout, all[:n]...)
	train = append(train, all[n:]...)
	sort.Ints(train)
	sort.Ints(holdout)
	return train, holdout
}

// report logs accuracy and per-class precision/recall/F1 on the holdout rows.
func (t *Trainer) report(nb *model.NaiveBayes, examples []models.LabeledExample, holdIdx []int) {
	if len(holdIdx) == 0 {
		return
	}

	rows := make([]models.FeatureRow, len(holdIdx))
	for i, idx := range holdIdx {
		rows[i] = examples[idx].Features
	}

	probs, err := nb.PredictProba(rows)
	if err != nil {
		t.Log.Warn().Err(err).Msg("holdout evaluation skipped")
		return
	}

	var tp, tn, fp, fn int
	for i, idx := range holdIdx {
		pred := 0
		if probs[i][1] >= 0.5 {
			pred = 1
		}
		switch {
		case pred == 1 && examples[idx].Label == 1:
			tp++
		case pred == 0 && examples[idx].Label == 0:
			tn++
		case pred == 1 && examples[idx].Label == 0:
			fp++
		default:
			fn++
		}
	}

	total := tp + tn + fp + fn
	t.Log.Info().
		Int("holdout", total).
		Float64("accuracy", ratio(tp+tn, total)).
		Float64("precision_pos", ratio(tp, tp+fp)).
		Float64("recall_pos", ratio(tp, tp+fn)).
		Float64("precision_neg", ratio(tn, tn+fn)).
		Float64("recall_neg", ratio(tn, tn+fp)).
		Msg("holdout evaluation")
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Ranker wraps a trained classifier for inference-time scoring.
type Ranker struct {
	Classifier model.Classifier
	BatchSize  int
	Blacklist  genres.Blacklist
	Log        zerolog.Logger
}

func NewRanker(clf model.Classifier, batchSize int, bl genres.Blacklist, log zerolog.Logger) *Ranker {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &Ranker{Classifier: clf, BatchSize: batchSize, Blacklist: bl, Log: log}
}

// CheckVersion compares a loaded classifier's stamp to the configured one.
// A mismatch is logged and ranking proceeds; stale-but-loadable models are a
// supported state.
func (r *Ranker) CheckVersion(expected string) {
	v, ok := r.Classifier.(model.Versioned)
	if !ok {
		return
	}
	if got := v.Version(); got != expected {
		r.Log.Warn().
			Str("model_version", got).
			Str("expected", expected).
			Msg("model version mismatch")
	}
}

// Score returns P(positive) per feature row, in input order. Rows are fed to
// the classifier in fixed-size batches purely to bound the working set; the
// numbers are identical to scoring everything at once. Any batch failure
// aborts with a ScoringError and no partial output.
func (r *Ranker) Score(rows []models.FeatureRow) ([]float64, error) {
	scores := make([]float64, len(rows))
	for start, batchNo := 0, 0; start < len(rows); start, batchNo = start+r.BatchSize, batchNo+1 {
		end := start + r.BatchSize
		if end > len(rows) {
			end = len(rows)
		}

		probs, err := r.Classifier.PredictProba(rows[start:end])
		if err != nil {
			return nil, &ScoringError{Batch: batchNo, Err: err}
		}
		for i, p := range probs {
			scores[start+i] = p[1]
		}
	}
	return scores, nil
}

// RankItems scores catalog rows and orders them by score descending, ties by
// ascending mal_id. The ordering is byte-identical across runs.
func (r *Ranker) RankItems(items []models.CatalogItem) ([]models.RankedItem, error) {
	rows := make([]models.FeatureRow, len(items))
	for i, it := range items {
		rows[i] = labeling.BuildFeatures(it, r.Blacklist)
	}

	scores, err := r.Score(rows)
	if err != nil {
		return nil, err
	}

	out := make([]models.RankedItem, len(items))
	for i, it := range items {
		out[i] = models.RankedItem{MalID: it.MalID, Title: it.Title, Score: scores[i]}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MalID < out[j].MalID
	})
	return out, nil
}

// Page returns the k-th zero-indexed window of a ranked list. Pages past the
// end are empty, not an error.
func Page(ranked []models.RankedItem, page, size int) []models.RankedItem {
	if page < 0 || size <= 0 {
		return nil
	}
	start := page * size
	if start >= len(ranked) {
		return []models.RankedItem{}
	}
	end := start + size
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end]
}
