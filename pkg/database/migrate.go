package database

import (
	"database/sql"
	"fmt"
)

// schema is idempotent; every statement is CREATE ... IF NOT EXISTS so Migrate
// can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS manga (
	mal_id          INTEGER PRIMARY KEY,
	title           TEXT NOT NULL,
	type            TEXT,
	genres          TEXT,
	mean_score      REAL,
	chapters        INTEGER,
	volumes         INTEGER,
	status          TEXT,
	synopsis        TEXT,
	published_date  TEXT,
	images          TEXT,
	user_score      INTEGER,
	read            INTEGER DEFAULT 0,
	dropped         INTEGER DEFAULT 0,
	not_interested  INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_manga_type ON manga(type);
CREATE INDEX IF NOT EXISTS idx_manga_user_score ON manga(user_score);

CREATE TABLE IF NOT EXISTS weights (
	criterion   TEXT PRIMARY KEY,
	multiplier  REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	username       TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
