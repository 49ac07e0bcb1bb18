package models

// CatalogItem is one recommendable catalog row as stored in the manga table.
//
// The scoring core reads every field; only the user feedback fields
// (UserScore, Read, Dropped, NotInterested) are ever written back, and only
// through the catalog repo's feedback update.
type CatalogItem struct {
	MalID         int64    `json:"mal_id"`
	Title         string   `json:"title"`
	Type          string   `json:"type"`                     // "Manga", "Manhwa", "Manhua", ...
	Genres        string   `json:"genres"`                   // comma-joined tags, order not meaningful
	MeanScore     *float64 `json:"mean_score,omitempty"`     // community rating, nil when unknown
	Chapters      *int     `json:"chapters,omitempty"`       // nil when unknown
	Volumes       *int     `json:"volumes,omitempty"`        // nil when unknown
	Status        string   `json:"status"`                   // "Finished", "Publishing", ...
	Synopsis      string   `json:"synopsis"`
	PublishedDate *string  `json:"published_date,omitempty"` // "YYYY-MM-DD", nil when unknown
	Images        string   `json:"images,omitempty"`         // opaque cover-image JSON blob

	// Mutable user feedback.
	UserScore     *int `json:"user_score,omitempty"` // 1..10
	Read          *int `json:"read,omitempty"`       // 0 unread, -1 finished, -2 read-unfinished, >0 chapter checkpoint
	Dropped       *int `json:"dropped,omitempty"`    // 0 no, 1 dropped, 2 dropped-but-resumable
	NotInterested bool `json:"not_interested"`
}
