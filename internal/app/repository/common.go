package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/model"
)

// CommonDB provides the run queries shared by the sqlite and postgres backends
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	var placeholders PlaceholderFunc

	switch driverName {
	case "postgres":
		placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
	default:
		placeholders = func(n int) string { return "?" }
	}

	return &CommonDB{
		db:           db,
		driverName:   driverName,
		placeholders: placeholders,
	}
}

const runColumns = `id, kind, source_path, source_hash, source_size, output_path, provider,
	segment_count, filler_count, source_duration, kept_duration,
	started_at, finished_at, has_error, error_message`

// RecordRun inserts one run. Times are stored as unix milliseconds so both dialects share the schema.
func (c *CommonDB) RecordRun(ctx context.Context, run model.Run) error {
	params := make([]string, 15)
	for i := range params {
		params[i] = c.placeholders(i + 1)
	}

	query := fmt.Sprintf(`INSERT INTO runs (%s) VALUES (%s)`, runColumns, strings.Join(params, ", "))

	_, err := c.db.ExecContext(ctx, query,
		run.ID, string(run.Kind), run.SourcePath, run.SourceHash, run.SourceSize, run.OutputPath, run.Provider,
		run.SegmentCount, run.FillerCount, run.SourceDuration, run.KeptDuration,
		run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.HasError, run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInsertFailed, err)
	}
	return nil
}

// ListRuns returns runs newest first
func (c *CommonDB) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	query := fmt.Sprintf(`SELECT %s FROM runs ORDER BY started_at DESC, id`, runColumns)
	var args []interface{}
	if limit > 0 {
		query += " LIMIT " + c.placeholders(1)
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrQueryFailed, err)
	}
	defer rows.Close()

	runs := make([]model.Run, 0)
	for rows.Next() {
		var (
			r                 model.Run
			kind              string
			started, finished int64
		)
		err := rows.Scan(
			&r.ID, &kind, &r.SourcePath, &r.SourceHash, &r.SourceSize, &r.OutputPath, &r.Provider,
			&r.SegmentCount, &r.FillerCount, &r.SourceDuration, &r.KeptDuration,
			&started, &finished, &r.HasError, &r.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan failed: %w", apperrors.ErrQueryFailed, err)
		}
		r.Kind = model.RunKind(kind)
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrQueryFailed, err)
	}
	return runs, nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}
