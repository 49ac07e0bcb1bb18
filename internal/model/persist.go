package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the trained classifier atomically (temp file + rename) so a
// crash mid-write never leaves a truncated artifact behind.
func Save(path string, nb *NaiveBayes) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure model dir: %w", err)
	}

	b, err := json.Marshal(nb)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename model: %w", err)
	}
	return nil
}

// Load reads a persisted classifier. Version compatibility is the caller's
// concern: a stamp mismatch is a warning, not a load failure.
func Load(path string) (*NaiveBayes, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var nb NaiveBayes
	if err := json.Unmarshal(b, &nb); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}
	if nb.FeatureCount[0] == nil {
		nb.FeatureCount[0] = map[string]int{}
	}
	if nb.FeatureCount[1] == nil {
		nb.FeatureCount[1] = map[string]int{}
	}
	if nb.Vocabulary == nil {
		nb.Vocabulary = map[string]bool{}
	}
	return &nb, nil
}
