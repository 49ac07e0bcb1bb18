package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"mangarec/internal/catalog"
	"mangarec/pkg/database"
	"mangarec/pkg/models"
)

// dumpEntry mirrors one element of a Jikan-style manga dataset dump.
type dumpEntry struct {
	MalID    int64    `json:"mal_id"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Score    *float64 `json:"score"`
	Chapters *int     `json:"chapters"`
	Volumes  *int     `json:"volumes"`
	Status   string   `json:"status"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Synopsis  string          `json:"synopsis"`
	Images    json.RawMessage `json:"images"`
	Published struct {
		From *string `json:"from"`
	} `json:"published"`
}

func main() {
	var in = flag.String("in", "data/manga_dataset.json", "input JSON dump path")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	b, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read dump: %v", err)
	}

	var entries []dumpEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		log.Fatalf("parse dump: %v", err)
	}

	repo := catalog.NewRepo(db)
	imported := 0
	for _, e := range entries {
		if e.MalID == 0 || e.Title == "" {
			continue
		}
		if err := repo.Upsert(ctx, toItem(e)); err != nil {
			log.Fatalf("import %d: %v", e.MalID, err)
		}
		imported++
	}

	log.Printf("imported %d of %d entries from %s", imported, len(entries), *in)
}

func toItem(e dumpEntry) models.CatalogItem {
	item := models.CatalogItem{
		MalID:     e.MalID,
		Title:     e.Title,
		Type:      e.Type,
		MeanScore: e.Score,
		Chapters:  e.Chapters,
		Volumes:   e.Volumes,
		Status:    e.Status,
		Synopsis:  e.Synopsis,
		Images:    string(e.Images),
	}

	genres := ""
	for i, g := range e.Genres {
		if i > 0 {
			genres += ", "
		}
		genres += g.Name
	}
	item.Genres = genres

	// dumps carry full timestamps; only the date part is meaningful here
	if e.Published.From != nil && *e.Published.From != "" {
		date := *e.Published.From
		if len(date) > 10 {
			date = date[:10]
		}
		item.PublishedDate = &date
	}
	return item
}
