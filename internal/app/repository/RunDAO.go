package repository

import (
	"context"

	"videotextcut/internal/app/model"
)

// RunDAO is the audit log of transcribe and splice runs
type RunDAO interface {
	Close() error

	RecordRun(ctx context.Context, run model.Run) error

	// ListRuns returns the most recent runs first; limit <= 0 means all
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
}

// NopDAO discards runs, used when the database driver is "none"
type NopDAO struct{}

func (NopDAO) Close() error { return nil }

func (NopDAO) RecordRun(context.Context, model.Run) error { return nil }

func (NopDAO) ListRuns(context.Context, int) ([]model.Run, error) { return []model.Run{}, nil }
