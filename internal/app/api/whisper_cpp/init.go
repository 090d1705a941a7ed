package whisper_cpp

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"videotextcut/internal/app/api/provider"
	"videotextcut/internal/app/audio"
	"videotextcut/internal/app/config"
)

func init() {
	provider.RegisterProvider(providerName, createWhisperCppProvider)
}

// createWhisperCppProvider creates a whisper.cpp provider from configuration
func createWhisperCppProvider(cfg config.AppConfig, logger *zap.Logger) (provider.TranscriptionProvider, error) {
	if cfg.WhisperCpp.BinaryPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires whisper_cpp.binary_path")
	}
	modelPath := cfg.WhisperCpp.ModelPath
	if modelPath == "" {
		if cfg.ModelIdentifier == "" {
			return nil, fmt.Errorf("whisper_cpp provider requires whisper_cpp.model_path or model_identifier")
		}
		modelPath = filepath.Join("models", "ggml-"+cfg.ModelIdentifier+".bin")
	}

	tools := audio.NewTools(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath, logger)
	return NewLocalTranscriber(LocalProviderConfig{
		BinaryPath: cfg.WhisperCpp.BinaryPath,
		ModelPath:  modelPath,
		Language:   cfg.WhisperCpp.Language,
		Threads:    cfg.WhisperCpp.Threads,
		TempDir:    cfg.TempDirectory,
	}, tools, logger), nil
}
