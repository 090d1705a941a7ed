//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"
	"videotextcut/internal/app/api"
	"videotextcut/internal/app/config"
	"videotextcut/internal/app/editor"
	"videotextcut/internal/app/metrics"
	"videotextcut/internal/app/repository"
	"videotextcut/internal/app/splicer"
)

// InitializeEditor builds the full pipeline for cfg. The cleanup closes the run store.
func InitializeEditor(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*editor.Editor, func(), error) {
	wire.Build(
		editor.New,
		provideTools,
		provideTranscriptionProvider,
		provideGateway,
		wire.Bind(new(api.Transcriber), new(*api.Gateway)),
		provideSplicer,
		wire.Bind(new(splicer.Splicer), new(*splicer.FFmpegSplicer)),
		provideRunDAO,
		metrics.NewRecorder,
	)
	return nil, nil, nil
}

// InitializeRunDAO opens only the run history store
func InitializeRunDAO(ctx context.Context, cfg config.AppConfig) (repository.RunDAO, func(), error) {
	wire.Build(provideRunDAO)
	return nil, nil, nil
}
