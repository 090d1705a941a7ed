package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	source_path     TEXT NOT NULL,
	source_hash     TEXT NOT NULL DEFAULT '',
	source_size     INTEGER NOT NULL DEFAULT 0,
	output_path     TEXT NOT NULL DEFAULT '',
	provider        TEXT NOT NULL DEFAULT '',
	segment_count   INTEGER NOT NULL DEFAULT 0,
	filler_count    INTEGER NOT NULL DEFAULT 0,
	source_duration REAL NOT NULL DEFAULT 0,
	kept_duration   REAL NOT NULL DEFAULT 0,
	started_at      INTEGER NOT NULL,
	finished_at     INTEGER NOT NULL,
	has_error       INTEGER NOT NULL DEFAULT 0,
	error_message   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs (started_at);`

// SQLiteDB is the default run store, a single local file
type SQLiteDB struct {
	*repository.CommonDB
}

// NewSQLiteDB opens (creating if needed) the database at dbFilePath.
// ":memory:" gives a private in-memory database.
func NewSQLiteDB(ctx context.Context, dbFilePath string) (*SQLiteDB, error) {
	dsn := ":memory:"
	if dbFilePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbFilePath), 0755); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrDatabaseConnection, err)
		}
		dsn = fmt.Sprintf("file:%s?mode=rwc&_busy_timeout=5000", dbFilePath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDatabaseConnection, err)
	}
	// an in-memory database lives as long as its one connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create table: %w", apperrors.ErrDatabaseConnection, err)
	}
	return &SQLiteDB{CommonDB: repository.NewCommonDB(db, "sqlite3")}, nil
}
