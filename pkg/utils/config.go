package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("MANGAREC_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("MANGAREC_JWT_ISSUER")
	if issuer == "" {
		issuer = "mangarec"
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: envDuration("MANGAREC_JWT_TTL_HOURS", 24*time.Hour),
	}
}

// RecommenderConfig carries every tunable of the scoring core. All values have
// working dev defaults; env vars override.
type RecommenderConfig struct {
	ModelPath            string  // persisted classifier artifact
	ExpectedModelVersion string  // stamp compared at load time
	LikeThreshold        int     // user score that counts as "liked" for affinity mining
	PredictBatchSize     int     // rows per inference batch (memory bound, not parallelism)
	ResultLimit          int     // heuristic ranking cap
	PageSize             int     // supervised ranking page size
	HoldoutFraction      float64 // held-out share for the training report
}

func LoadRecommenderConfig() RecommenderConfig {
	modelPath := os.Getenv("MANGAREC_MODEL_PATH")
	if modelPath == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		modelPath = filepath.Join(home, ".mangarec", "model.json")
	}

	version := os.Getenv("MANGAREC_MODEL_VERSION")
	if version == "" {
		version = "nb-v1"
	}

	return RecommenderConfig{
		ModelPath:            modelPath,
		ExpectedModelVersion: version,
		LikeThreshold:        envInt("MANGAREC_LIKE_THRESHOLD", 8),
		PredictBatchSize:     envInt("MANGAREC_PREDICT_BATCH", 5000),
		ResultLimit:          envInt("MANGAREC_RESULT_LIMIT", 50),
		PageSize:             envInt("MANGAREC_PAGE_SIZE", 50),
		HoldoutFraction:      0.25,
	}
}

func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	hours, err := strconv.Atoi(s)
	if err != nil || hours <= 0 {
		return def
	}
	return time.Duration(hours) * time.Hour
}
