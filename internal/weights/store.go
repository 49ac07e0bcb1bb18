package weights

import (
	"context"
	"database/sql"
	"fmt"
)

// Criterion names. These are the persisted keys; renaming one orphans stored
// multipliers.
const (
	GenreMatch    = "genre-match"
	MeanScore     = "mean-score"
	Chapters      = "chapters"
	PublishedDate = "published-date" // date-decay slot, currently tie-break presence only
)

// Vector maps criterion name to a non-negative multiplier.
type Vector map[string]float64

// Defaults is the hard-coded fallback: every criterion weighted 1.0.
func Defaults() Vector {
	return Vector{
		GenreMatch:    1.0,
		MeanScore:     1.0,
		Chapters:      1.0,
		PublishedDate: 1.0,
	}
}

// Get returns the multiplier for a criterion, falling back to 1.0 for keys
// the vector does not carry.
func (v Vector) Get(criterion string) float64 {
	if m, ok := v[criterion]; ok {
		return m
	}
	return 1.0
}

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Load returns the persisted vector, with defaults filling any criterion that
// has never been saved. A fresh database yields exactly Defaults().
func (s *Store) Load(ctx context.Context) (Vector, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT criterion, multiplier FROM weights
	`)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	defer rows.Close()

	v := Defaults()
	for rows.Next() {
		var criterion string
		var multiplier float64
		if err := rows.Scan(&criterion, &multiplier); err != nil {
			return nil, fmt.Errorf("scan weight row: %w", err)
		}
		if _, known := v[criterion]; !known {
			continue // stale key from an older build
		}
		if multiplier < 0 {
			multiplier = 0
		}
		v[criterion] = multiplier
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("weights rows err: %w", err)
	}
	return v, nil
}

// Save upserts every known criterion of the vector in one transaction.
// Unknown keys are ignored rather than persisted.
func (s *Store) Save(ctx context.Context, v Vector) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save weights: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for criterion := range Defaults() {
		m, ok := v[criterion]
		if !ok {
			continue
		}
		if m < 0 {
			m = 0
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO weights (criterion, multiplier) VALUES (?, ?)
			ON CONFLICT(criterion) DO UPDATE SET multiplier = excluded.multiplier
		`, criterion, m); err != nil {
			return fmt.Errorf("save weight %s: %w", criterion, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save weights: %w", err)
	}
	return nil
}
