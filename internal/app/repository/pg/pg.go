package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	source_path     TEXT NOT NULL,
	source_hash     TEXT NOT NULL DEFAULT '',
	source_size     BIGINT NOT NULL DEFAULT 0,
	output_path     TEXT NOT NULL DEFAULT '',
	provider        TEXT NOT NULL DEFAULT '',
	segment_count   INTEGER NOT NULL DEFAULT 0,
	filler_count    INTEGER NOT NULL DEFAULT 0,
	source_duration DOUBLE PRECISION NOT NULL DEFAULT 0,
	kept_duration   DOUBLE PRECISION NOT NULL DEFAULT 0,
	started_at      BIGINT NOT NULL,
	finished_at     BIGINT NOT NULL,
	has_error       INTEGER NOT NULL DEFAULT 0,
	error_message   TEXT NOT NULL DEFAULT ''
)`

type PostgresDB struct {
	*repository.CommonDB
}

// NewPostgresDB connects with a lib/pq DSN and makes sure the runs table exists
func NewPostgresDB(ctx context.Context, dsn string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDatabaseConnection, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDatabaseConnection, err)
	}
	return NewWithDB(ctx, db)
}

// NewWithDB wraps an open connection, used with sqlmock
func NewWithDB(ctx context.Context, db *sql.DB) (*PostgresDB, error) {
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("%w: failed to create table: %w", apperrors.ErrDatabaseConnection, err)
	}
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres")}, nil
}
