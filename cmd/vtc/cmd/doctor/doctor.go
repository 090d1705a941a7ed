package doctor

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"videotextcut/cmd/vtc/cmd/shared"
	"videotextcut/internal/app"
	"videotextcut/internal/app/audio"
	appconfig "videotextcut/internal/app/config"
	"videotextcut/internal/config"
)

// Cmd represents the doctor command
var Cmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ffmpeg and the speech engine are usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := shared.LoadConfig()
		if err != nil {
			return err
		}
		logger, err := shared.NewLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		tools := audio.NewTools(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath, logger)
		failed := 0
		for _, c := range checks(cfg, tools) {
			detail, err := c.run(cmd)
			if !report(cmd.OutOrStdout(), c.name, detail, err) {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d checks failed", failed)
		}
		return nil
	},
}

type check struct {
	name string
	run  func(cmd *cobra.Command) (string, error)
}

func checks(cfg appconfig.AppConfig, tools *audio.Tools) []check {
	binary := func(path, name string) func(cmd *cobra.Command) (string, error) {
		return func(cmd *cobra.Command) (string, error) {
			resolved, err := config.ValidateBinary(path, name)
			if err != nil {
				return "", err
			}
			version, err := tools.ToolVersion(cmd.Context(), resolved)
			if err != nil {
				return resolved, nil
			}
			return resolved + ": " + version, nil
		}
	}

	list := []check{
		{name: "ffmpeg", run: binary(cfg.FFmpeg.FFmpegPath, "ffmpeg")},
		{name: "ffprobe", run: binary(cfg.FFmpeg.FFprobePath, "ffprobe")},
	}

	switch cfg.Provider {
	case "whisper_cpp":
		list = append(list,
			check{name: "whisper.cpp", run: func(*cobra.Command) (string, error) {
				return config.ValidateBinary(cfg.WhisperCpp.BinaryPath, "whisper.cpp")
			}},
			check{name: "whisper model", run: func(*cobra.Command) (string, error) {
				if _, err := os.Stat(cfg.WhisperCpp.ModelPath); err != nil {
					return "", fmt.Errorf("model file: %w", err)
				}
				return cfg.WhisperCpp.ModelPath, nil
			}},
		)
	case "openai":
		list = append(list, check{name: "openai api key", run: func(*cobra.Command) (string, error) {
			if err := config.ValidateAPIKey(cfg.OpenAI.APIKey, "OpenAI"); err != nil {
				return "", err
			}
			if cfg.OpenAI.BaseURL != "" {
				if err := config.ValidateURL(cfg.OpenAI.BaseURL, "OpenAI base"); err != nil {
					return "", err
				}
				return cfg.OpenAI.BaseURL, nil
			}
			return "set", nil
		}})
	}

	if cfg.Database.Driver != "none" {
		list = append(list, check{name: "history database", run: func(cmd *cobra.Command) (string, error) {
			_, cleanup, err := app.InitializeRunDAO(cmd.Context(), cfg)
			if err != nil {
				return "", err
			}
			cleanup()
			return cfg.Database.Driver, nil
		}})
	}
	return list
}

func report(w io.Writer, name string, detail string, err error) bool {
	if err != nil {
		fmt.Fprintf(w, "✗ %-16s %v\n", name, err)
		return false
	}
	fmt.Fprintf(w, "✓ %-16s %s\n", name, detail)
	return true
}
