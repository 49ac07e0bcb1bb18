package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"mangarec/internal/catalog"
	"mangarec/internal/genres"
	"mangarec/internal/labeling"
	"mangarec/internal/model"
	"mangarec/internal/recommend"
	"mangarec/pkg/database"
	"mangarec/pkg/utils"
)

func main() {
	var out = flag.String("out", "", "model output path (default: configured model path)")
	flag.Parse()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	cfg := utils.LoadRecommenderConfig()
	if *out != "" {
		cfg.ModelPath = *out
	}

	items, err := catalog.NewRepo(db).List(ctx, catalog.Query{})
	if err != nil {
		log.Fatal().Err(err).Msg("catalog scan failed")
	}

	examples := labeling.Examples(items, genres.DefaultBlacklist())
	log.Info().Int("catalog", len(items)).Int("labeled", len(examples)).Msg("labeled dataset derived")

	trainer := recommend.NewTrainer(cfg.HoldoutFraction, cfg.ExpectedModelVersion, log)
	nb, err := trainer.Train(examples)
	if err != nil {
		if errors.Is(err, recommend.ErrInsufficientClasses) {
			log.Fatal().Err(err).Msg("rate or drop a few titles first to produce both label classes")
		}
		log.Fatal().Err(err).Msg("training failed")
	}

	if err := model.Save(cfg.ModelPath, nb); err != nil {
		log.Fatal().Err(err).Msg("model save failed")
	}

	log.Info().Str("path", cfg.ModelPath).Str("version", nb.Version()).Msg("model trained and saved")
}
