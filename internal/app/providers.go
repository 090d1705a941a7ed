package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"videotextcut/internal/app/api"
	"videotextcut/internal/app/api/provider"
	"videotextcut/internal/app/audio"
	"videotextcut/internal/app/config"
	"videotextcut/internal/app/repository"
	"videotextcut/internal/app/repository/pg"
	"videotextcut/internal/app/repository/sqlite"
	"videotextcut/internal/app/splicer"
)

func provideTools(cfg config.AppConfig, logger *zap.Logger) *audio.Tools {
	return audio.NewTools(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath, logger)
}

// provideTranscriptionProvider builds the engine named by cfg.Provider from the registry
func provideTranscriptionProvider(cfg config.AppConfig, logger *zap.Logger) (provider.TranscriptionProvider, error) {
	p, err := provider.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := p.ValidateConfiguration(); err != nil {
		return nil, fmt.Errorf("provider %s: %w", cfg.Provider, err)
	}
	return p, nil
}

func provideGateway(p provider.TranscriptionProvider, tools *audio.Tools, cfg config.AppConfig, logger *zap.Logger) *api.Gateway {
	return api.NewGateway(p, tools, api.GatewayOptions{
		SupportedFormats: cfg.SupportedFormats,
		Model:            cfg.ModelIdentifier,
		TempDir:          cfg.TempDirectory,
	}, logger)
}

func provideSplicer(cfg config.AppConfig, tools *audio.Tools, logger *zap.Logger) *splicer.FFmpegSplicer {
	return splicer.NewFFmpegSplicer(splicer.Options{
		FFmpegPath:       tools.FFmpeg(),
		VideoCodec:       cfg.FFmpeg.VideoCodec,
		AudioCodec:       cfg.FFmpeg.AudioCodec,
		Preset:           cfg.FFmpeg.Preset,
		CRF:              cfg.FFmpeg.CRF,
		AudioBitrate:     cfg.FFmpeg.AudioBitrate,
		SupportedFormats: cfg.SupportedFormats,
		TempDir:          cfg.TempDirectory,
	}, tools, logger)
}

// provideRunDAO opens the run history backend selected by database.driver
func provideRunDAO(ctx context.Context, cfg config.AppConfig) (repository.RunDAO, func(), error) {
	var (
		dao repository.RunDAO
		err error
	)
	switch cfg.Database.Driver {
	case "", "sqlite":
		dao, err = sqlite.NewSQLiteDB(ctx, cfg.Database.DSN)
	case "postgres":
		dao, err = pg.NewPostgresDB(ctx, cfg.Database.DSN)
	case "none":
		dao = repository.NopDAO{}
	default:
		err = fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, err
	}
	return dao, func() { dao.Close() }, nil
}
