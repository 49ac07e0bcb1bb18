package labeling

// Label is the ternary training target derived from user feedback.
type Label int

const (
	Negative  Label = 0
	Positive  Label = 1
	Unlabeled Label = -1 // not enough signal, excluded from training
)

// Derive turns raw per-item feedback into a label. The rules are checked in
// order and the first match wins: an explicit high rating is positive even
// when the title was later dropped or opted out.
//
//  1. user score >= 8           -> Positive
//  2. read state -1 (finished)  -> Positive
//  3. dropped, not-interested, or user score <= 4 -> Negative
//  4. otherwise                 -> Unlabeled
func Derive(userScore, readState, droppedState *int, notInterested bool) Label {
	if userScore != nil && *userScore >= 8 {
		return Positive
	}
	if readState != nil && *readState == -1 {
		return Positive
	}
	if (droppedState != nil && *droppedState == 1) || notInterested ||
		(userScore != nil && *userScore <= 4) {
		return Negative
	}
	return Unlabeled
}
