package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mangarec/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

// Query is the filter surface the scoring core depends on. Zero values mean
// "no filter"; Limit<=0 returns every matching row (rankers scan the full
// candidate set).
type Query struct {
	Type       string   // exact type match
	GenresAny  []string // substring any-match against the genres field
	GenresNone []string // substring exclude
	Rated      *bool    // true: user_score set, false: unrated
	OptedOut   *bool    // filter on the not_interested flag
	Limit      int
	Offset     int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const itemColumns = `
	mal_id, title, type, genres, mean_score, chapters, volumes,
	status, synopsis, published_date, images,
	user_score, read, dropped, not_interested
`

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM manga
		WHERE mal_id = ?
	`, id)

	item, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return item, nil
}

func (r *Repo) Count(ctx context.Context, q Query) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q Query) ([]models.CatalogItem, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var out []models.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Upsert writes a catalog row, preserving existing user feedback on conflict.
// Used by the dataset import tool; the API never creates rows.
func (r *Repo) Upsert(ctx context.Context, item models.CatalogItem) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO manga (mal_id, title, type, genres, mean_score, chapters,
			volumes, status, synopsis, published_date, images)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(mal_id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			genres = excluded.genres,
			mean_score = excluded.mean_score,
			chapters = excluded.chapters,
			volumes = excluded.volumes,
			status = excluded.status,
			synopsis = excluded.synopsis,
			published_date = excluded.published_date,
			images = excluded.images
	`, item.MalID, item.Title, item.Type, item.Genres,
		nullFloat(item.MeanScore), nullInt(item.Chapters), nullInt(item.Volumes),
		item.Status, item.Synopsis, nullStr(item.PublishedDate), item.Images)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// UpdateFeedback is the single write path for the mutable user fields.
// Returns false when no row has that id.
func (r *Repo) UpdateFeedback(ctx context.Context, id int64, userScore, read, dropped *int, notInterested bool) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE manga
		SET user_score = ?, read = ?, dropped = ?, not_interested = ?
		WHERE mal_id = ?
	`, nullInt(userScore), nullInt(read), nullInt(dropped), boolInt(notInterested), id)
	if err != nil {
		return false, fmt.Errorf("update feedback: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list. Rows come back in
// mal_id order so full-catalog scans feed the rankers deterministically.
func buildListSQL(q Query, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + itemColumns + ` FROM manga`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM manga`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Type) != "" {
		where = append(where, "type = ?")
		args = append(args, strings.TrimSpace(q.Type))
	}

	if q.Rated != nil {
		if *q.Rated {
			where = append(where, "user_score IS NOT NULL")
		} else {
			where = append(where, "user_score IS NULL")
		}
	}

	if q.OptedOut != nil {
		where = append(where, "not_interested = ?")
		args = append(args, boolInt(*q.OptedOut))
	}

	// any-match include over the comma-joined genre field
	if len(q.GenresAny) > 0 {
		var genreOr []string
		for _, g := range q.GenresAny {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			genreOr = append(genreOr, "LOWER(genres) LIKE ?")
			args = append(args, "%"+strings.ToLower(g)+"%")
		}
		if len(genreOr) > 0 {
			where = append(where, "("+strings.Join(genreOr, " OR ")+")")
		}
	}

	for _, g := range q.GenresNone {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		where = append(where, "(genres IS NULL OR LOWER(genres) NOT LIKE ?)")
		args = append(args, "%"+strings.ToLower(g)+"%")
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY mal_id ASC"
		if q.Limit > 0 {
			offset := q.Offset
			if offset < 0 {
				offset = 0
			}
			sqlStr += " LIMIT ? OFFSET ?"
			args = append(args, q.Limit, offset)
		}
	}

	return sqlStr, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.CatalogItem, error) {
	var (
		it        models.CatalogItem
		typ       sql.NullString
		genres    sql.NullString
		meanScore sql.NullFloat64
		chapters  sql.NullInt64
		volumes   sql.NullInt64
		status    sql.NullString
		synopsis  sql.NullString
		pubDate   sql.NullString
		images    sql.NullString
		userScore sql.NullInt64
		read      sql.NullInt64
		dropped   sql.NullInt64
		notInt    int
	)

	if err := row.Scan(
		&it.MalID, &it.Title, &typ, &genres, &meanScore, &chapters, &volumes,
		&status, &synopsis, &pubDate, &images,
		&userScore, &read, &dropped, &notInt,
	); err != nil {
		return nil, err
	}

	it.Type = typ.String
	it.Genres = genres.String
	it.Status = status.String
	it.Synopsis = synopsis.String
	it.Images = images.String
	it.NotInterested = notInt != 0

	if meanScore.Valid {
		v := meanScore.Float64
		it.MeanScore = &v
	}
	if chapters.Valid {
		v := int(chapters.Int64)
		it.Chapters = &v
	}
	if volumes.Valid {
		v := int(volumes.Int64)
		it.Volumes = &v
	}
	if pubDate.Valid && pubDate.String != "" {
		v := pubDate.String
		it.PublishedDate = &v
	}
	if userScore.Valid {
		v := int(userScore.Int64)
		it.UserScore = &v
	}
	if read.Valid {
		v := int(read.Int64)
		it.Read = &v
	}
	if dropped.Valid {
		v := int(dropped.Int64)
		it.Dropped = &v
	}

	return &it, nil
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
