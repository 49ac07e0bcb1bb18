package recommend

import (
	"errors"
	"fmt"
)

// ErrInsufficientClasses is returned by Train when the labeled dataset holds
// fewer than two distinct label values; a binary classifier cannot be fit.
var ErrInsufficientClasses = errors.New("training data has fewer than two label classes")

// ScoringError reports a failed inference batch. The whole ranking call is
// aborted so a caller never sees a mix of fresh and missing scores.
type ScoringError struct {
	Batch int
	Err   error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring batch %d: %v", e.Batch, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }
