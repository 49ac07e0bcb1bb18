package models

// RankedItem is one entry of a ranking result: the catalog identifier, its
// score, and (for the heuristic ranker) the per-criterion breakdown behind it.
// Result slices are built fresh per ranking call and never persisted.
type RankedItem struct {
	MalID     int64              `json:"mal_id"`
	Title     string             `json:"title"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"` // genre tag -> affinity count
}
