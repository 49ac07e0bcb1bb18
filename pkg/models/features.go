package models

// FeatureRow is the fixed feature vector the classifier consumes.
// Null-coalescing happens once, in labeling.BuildFeatures; downstream code
// can assume every field is populated.
type FeatureRow struct {
	Type      string   `json:"type"`
	Genres    []string `json:"genre_list"` // post-blacklist, original order
	MeanScore float64  `json:"mean_score"`
	Chapters  int      `json:"chapters"`
	Volumes   int      `json:"volumes"`
	Synopsis  string   `json:"synopsis"`
}

// LabeledExample pairs a feature row with its derived binary label.
// Never built for an item whose derived label is unlabeled.
type LabeledExample struct {
	MalID    int64      `json:"mal_id"`
	Title    string     `json:"title"`
	Features FeatureRow `json:"features"`
	Label    int        `json:"label"` // 0 or 1
}
