package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videotextcut/internal/app/config"
	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/repository"
)

func TestProvideRunDAO(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "runs.db")
	dao, cleanup, err := provideRunDAO(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()
	runs, err := dao.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	cfg.Database.Driver = "none"
	dao, cleanupNop, err := provideRunDAO(ctx, cfg)
	require.NoError(t, err)
	defer cleanupNop()
	assert.IsType(t, repository.NopDAO{}, dao)

	cfg.Database.Driver = "mysql"
	_, _, err = provideRunDAO(ctx, cfg)
	assert.Error(t, err)
}

func TestProvideTranscriptionProvider_Unknown(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "carrier_pigeon"

	_, err := provideTranscriptionProvider(cfg, nil)

	assert.ErrorIs(t, err, apperrors.ErrProviderNotFound)
}

func TestInitializeRunDAO(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "none"

	dao, cleanup, err := InitializeRunDAO(context.Background(), cfg)

	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, dao)
}
