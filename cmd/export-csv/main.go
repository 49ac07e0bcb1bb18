package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mangarec/internal/catalog"
	"mangarec/internal/genres"
	"mangarec/internal/labeling"
	"mangarec/pkg/database"
	"mangarec/pkg/models"
)

func main() {
	var out = flag.String("out", "data/labeled_data.csv", "output CSV path for the labeled dataset")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	items, err := catalog.NewRepo(db).List(ctx, catalog.Query{})
	if err != nil {
		log.Fatalf("catalog scan failed: %v", err)
	}

	examples := labeling.Examples(items, genres.DefaultBlacklist())
	if err := exportLabeled(examples, *out); err != nil {
		log.Fatalf("export labeled data failed: %v", err)
	}

	log.Printf("exported %d labeled entries to %s", len(examples), *out)
}

func exportLabeled(examples []models.LabeledExample, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"mal_id", "title", "type", "genre_list", "mean_score", "chapters", "volumes", "label",
	}); err != nil {
		return err
	}

	for _, ex := range examples {
		if err := w.Write([]string{
			strconv.FormatInt(ex.MalID, 10),
			ex.Title,
			ex.Features.Type,
			strings.Join(ex.Features.Genres, ", "),
			strconv.FormatFloat(ex.Features.MeanScore, 'f', -1, 64),
			strconv.Itoa(ex.Features.Chapters),
			strconv.Itoa(ex.Features.Volumes),
			strconv.Itoa(ex.Label),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
