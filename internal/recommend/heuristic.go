package recommend

import (
	"sort"

	"mangarec/internal/genres"
	"mangarec/internal/weights"
	"mangarec/pkg/models"
)

// missingDateSentinel sorts after every real YYYY-MM-DD date, so undated
// candidates lose the final tie-break instead of winning it.
const missingDateSentinel = "9999-12-31"

// HeuristicRanker scores unrated candidates without a trained model, from
// genre-affinity statistics mined out of the user's own liked history. It is
// a pure function over the catalog snapshot it is handed: no caches, so the
// same snapshot and weights always produce the same list.
type HeuristicRanker struct {
	LikeThreshold int // user score that counts as liked
	ResultLimit   int // cap on returned rows
	Blacklist     genres.Blacklist
}

func NewHeuristicRanker(likeThreshold, resultLimit int, bl genres.Blacklist) *HeuristicRanker {
	return &HeuristicRanker{
		LikeThreshold: likeThreshold,
		ResultLimit:   resultLimit,
		Blacklist:     bl,
	}
}

// BuildAffinity counts genre tags across the liked history: items rated at or
// above the threshold, fully engaged (read != 0), and not dropped.
func (h *HeuristicRanker) BuildAffinity(items []models.CatalogItem) map[string]int {
	affinity := make(map[string]int)
	for _, it := range items {
		if it.UserScore == nil || *it.UserScore < h.LikeThreshold {
			continue
		}
		if it.Read == nil || *it.Read == 0 {
			continue
		}
		if it.Dropped != nil && *it.Dropped != 0 {
			continue
		}
		for _, g := range h.Blacklist.Filter(genres.Parse(it.Genres)) {
			affinity[g]++
		}
	}
	return affinity
}

type heuristicCandidate struct {
	item       models.CatalogItem
	matchScore float64
	meanScore  float64
	chapterKey float64 // weighted chapters, 0 when count unknown
	pubDate    string
	breakdown  map[string]float64
}

// Rank orders the unrated, non-dropped, non-opted-out candidates of the
// snapshot by the weighted composite key and truncates to the result limit.
func (h *HeuristicRanker) Rank(items []models.CatalogItem, w weights.Vector) []models.RankedItem {
	affinity := h.BuildAffinity(items)

	totalWeight := 0
	for _, n := range affinity {
		totalWeight += n
	}
	if totalWeight == 0 {
		totalWeight = 1 // no liked history: every match score is exactly 0
	}

	wMatch := w.Get(weights.GenreMatch)
	wMean := w.Get(weights.MeanScore)
	wChapters := w.Get(weights.Chapters)

	var cands []heuristicCandidate
	for _, it := range items {
		if !h.isCandidate(it) {
			continue
		}

		tags := h.Blacklist.Filter(genres.Parse(it.Genres))
		breakdown := make(map[string]float64)
		matchRaw := 0
		for _, g := range tags {
			n, ok := affinity[g]
			if !ok {
				continue
			}
			if _, seen := breakdown[g]; seen {
				continue // duplicate tag on the row counts once
			}
			breakdown[g] = float64(n)
			matchRaw += n
		}

		cand := heuristicCandidate{
			item:       it,
			matchScore: float64(matchRaw) / float64(totalWeight) * wMatch,
			pubDate:    missingDateSentinel,
			breakdown:  breakdown,
		}
		if it.MeanScore != nil {
			cand.meanScore = *it.MeanScore * wMean
		}
		if it.Chapters != nil {
			cand.chapterKey = float64(*it.Chapters) * wChapters
		}
		if it.PublishedDate != nil {
			cand.pubDate = *it.PublishedDate
		}
		cands = append(cands, cand)
	}

	// Composite key, each level only breaking ties in the previous one.
	// Trailing mal_id keeps the order total even for fully tied rows.
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.matchScore != b.matchScore {
			return a.matchScore > b.matchScore
		}
		if a.meanScore != b.meanScore {
			return a.meanScore > b.meanScore
		}
		if a.chapterKey != b.chapterKey {
			return a.chapterKey > b.chapterKey
		}
		if a.pubDate != b.pubDate {
			return a.pubDate < b.pubDate
		}
		return a.item.MalID < b.item.MalID
	})

	if h.ResultLimit > 0 && len(cands) > h.ResultLimit {
		cands = cands[:h.ResultLimit]
	}

	out := make([]models.RankedItem, len(cands))
	for i, c := range cands {
		out[i] = models.RankedItem{
			MalID:     c.item.MalID,
			Title:     c.item.Title,
			Score:     c.matchScore,
			Breakdown: c.breakdown,
		}
	}
	return out
}

func (h *HeuristicRanker) isCandidate(it models.CatalogItem) bool {
	if it.UserScore != nil {
		return false
	}
	if it.Read != nil && *it.Read != 0 {
		return false
	}
	if it.Dropped != nil && *it.Dropped != 0 {
		return false
	}
	if it.NotInterested {
		return false
	}
	return !h.Blacklist.Matches(it.Genres)
}
