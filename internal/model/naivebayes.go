package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"mangarec/pkg/models"
)

// NaiveBayes is the default in-process classifier: multinomial naive Bayes
// over sparse binary features extracted from a FeatureRow (genre tags, type,
// bucketed numerics, synopsis tokens). Fully deterministic, and per-row
// independent, so scoring in batches cannot change the numbers.
//
// Exported fields make the trained state a plain JSON artifact.
type NaiveBayes struct {
	ModelVersion string `json:"version"`

	DocCount     [2]int            `json:"doc_count"`     // documents per class
	FeatureCount [2]map[string]int `json:"feature_count"` // feature occurrences per class
	TotalCount   [2]int            `json:"total_count"`   // sum of feature occurrences per class
	Vocabulary   map[string]bool   `json:"vocabulary"`
}

var errNotFitted = errors.New("classifier not fitted")

func NewNaiveBayes(version string) *NaiveBayes {
	return &NaiveBayes{
		ModelVersion: version,
		FeatureCount: [2]map[string]int{{}, {}},
		Vocabulary:   map[string]bool{},
	}
}

func (nb *NaiveBayes) Version() string { return nb.ModelVersion }

func (nb *NaiveBayes) Fit(rows []models.FeatureRow, labels []int) error {
	if len(rows) != len(labels) {
		return fmt.Errorf("fit: %d rows vs %d labels", len(rows), len(labels))
	}
	if len(rows) == 0 {
		return errors.New("fit: empty training set")
	}

	nb.DocCount = [2]int{}
	nb.TotalCount = [2]int{}
	nb.FeatureCount = [2]map[string]int{{}, {}}
	nb.Vocabulary = map[string]bool{}

	for i, row := range rows {
		y := labels[i]
		if y != 0 && y != 1 {
			return fmt.Errorf("fit: label %d out of range at row %d", y, i)
		}
		nb.DocCount[y]++
		for _, f := range extractFeatures(row) {
			nb.FeatureCount[y][f]++
			nb.TotalCount[y]++
			nb.Vocabulary[f] = true
		}
	}
	return nil
}

func (nb *NaiveBayes) PredictProba(rows []models.FeatureRow) ([][2]float64, error) {
	if nb.DocCount[0]+nb.DocCount[1] == 0 {
		return nil, errNotFitted
	}

	total := float64(nb.DocCount[0] + nb.DocCount[1])
	vocab := float64(len(nb.Vocabulary))
	// Laplace-smoothed priors keep a single-class model from emitting 0/1.
	logPrior := [2]float64{
		math.Log((float64(nb.DocCount[0]) + 1) / (total + 2)),
		math.Log((float64(nb.DocCount[1]) + 1) / (total + 2)),
	}

	out := make([][2]float64, len(rows))
	for i, row := range rows {
		var logp [2]float64
		for c := 0; c < 2; c++ {
			logp[c] = logPrior[c]
			denom := float64(nb.TotalCount[c]) + vocab
			for _, f := range extractFeatures(row) {
				if !nb.Vocabulary[f] {
					continue // unseen feature carries no evidence
				}
				logp[c] += math.Log((float64(nb.FeatureCount[c][f]) + 1) / denom)
			}
		}

		m := math.Max(logp[0], logp[1])
		e0 := math.Exp(logp[0] - m)
		e1 := math.Exp(logp[1] - m)
		out[i] = [2]float64{e0 / (e0 + e1), e1 / (e0 + e1)}
	}
	return out, nil
}

// extractFeatures flattens a FeatureRow into namespaced sparse features.
func extractFeatures(row models.FeatureRow) []string {
	feats := make([]string, 0, 8+len(row.Genres))
	if row.Type != "" {
		feats = append(feats, "type="+row.Type)
	}
	for _, g := range row.Genres {
		feats = append(feats, "genre="+strings.ToLower(g))
	}
	feats = append(feats,
		"mean="+bucketScore(row.MeanScore),
		"chapters="+bucketCount(row.Chapters),
		"volumes="+bucketCount(row.Volumes),
	)
	for _, tok := range tokenize(row.Synopsis) {
		feats = append(feats, "word="+tok)
	}
	return feats
}

func bucketScore(mean float64) string {
	if mean <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d", int(mean))
}

func bucketCount(n int) string {
	switch {
	case n <= 0:
		return "unknown"
	case n <= 10:
		return "short"
	case n <= 50:
		return "medium"
	case n <= 200:
		return "long"
	default:
		return "epic"
	}
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 { // drop stop-word-length noise
			out = append(out, f)
		}
	}
	return out
}
