package whisper

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"videotextcut/internal/app/api/provider"
	"videotextcut/internal/app/audio"
	"videotextcut/internal/app/config"
	openaiclient "videotextcut/internal/app/api/openai"
	envconfig "videotextcut/internal/config"
)

func init() {
	provider.RegisterProvider(providerName, createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper provider from configuration
func createOpenAIProvider(cfg config.AppConfig, logger *zap.Logger) (provider.TranscriptionProvider, error) {
	apiKey := strings.TrimSpace(cfg.OpenAI.APIKey)
	if err := envconfig.ValidateAPIKey(apiKey, "OpenAI"); err != nil {
		return nil, fmt.Errorf("openai provider: %w", err)
	}
	if cfg.OpenAI.BaseURL != "" {
		if err := envconfig.ValidateURL(cfg.OpenAI.BaseURL, "OpenAI base"); err != nil {
			return nil, err
		}
	}

	client := openaiclient.NewClient(apiKey, cfg.OpenAI.BaseURL)
	tools := audio.NewTools(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath, logger)
	return NewRemoteTranscriber(client, OpenAIProviderConfig{
		Model:    cfg.OpenAI.Model,
		Language: cfg.OpenAI.Language,
		TempDir:  cfg.TempDirectory,
	}, tools, logger), nil
}
