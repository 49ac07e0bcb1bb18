package labeling

import (
	"mangarec/internal/genres"
	"mangarec/pkg/models"
)

// BuildFeatures maps a catalog row into the classifier's feature vector.
// Total over any valid row: missing numerics coalesce to zero, missing text
// to empty. A coalesced chapters=0 is indistinguishable from a real zero;
// that approximation is fixed policy, not something to patch downstream.
func BuildFeatures(item models.CatalogItem, bl genres.Blacklist) models.FeatureRow {
	row := models.FeatureRow{
		Type:     item.Type,
		Genres:   bl.Filter(genres.Parse(item.Genres)),
		Synopsis: item.Synopsis,
	}
	if item.MeanScore != nil {
		row.MeanScore = *item.MeanScore
	}
	if item.Chapters != nil {
		row.Chapters = *item.Chapters
	}
	if item.Volumes != nil {
		row.Volumes = *item.Volumes
	}
	return row
}

// Examples derives the supervised dataset from a catalog snapshot: one
// LabeledExample per item whose label is not Unlabeled. Items carrying a
// blacklisted genre are skipped entirely so the encoder never sees them.
func Examples(items []models.CatalogItem, bl genres.Blacklist) []models.LabeledExample {
	out := make([]models.LabeledExample, 0, len(items))
	for _, it := range items {
		if bl.Matches(it.Genres) {
			continue
		}
		label := Derive(it.UserScore, it.Read, it.Dropped, it.NotInterested)
		if label == Unlabeled {
			continue
		}
		out = append(out, models.LabeledExample{
			MalID:    it.MalID,
			Title:    it.Title,
			Features: BuildFeatures(it, bl),
			Label:    int(label),
		})
	}
	return out
}
