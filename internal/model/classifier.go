package model

import "mangarec/pkg/models"

// Classifier is the opaque binary-classification capability the supervised
// ranker builds on. Any implementation that can fit labeled feature rows and
// emit per-row class probabilities can be swapped in.
type Classifier interface {
	// Fit trains on parallel slices of feature rows and binary labels.
	Fit(rows []models.FeatureRow, labels []int) error

	// PredictProba returns [P(negative), P(positive)] per input row, in input
	// order. Each pair sums to 1.
	PredictProba(rows []models.FeatureRow) ([][2]float64, error)
}

// Versioned is implemented by classifiers that carry a training-time version
// stamp, used for the non-fatal compatibility check at load time.
type Versioned interface {
	Version() string
}
