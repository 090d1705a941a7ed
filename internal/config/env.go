package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	appconfig "videotextcut/internal/app/config"
)

// DefaultEnvPaths are searched in order by LoadEnv
var DefaultEnvPaths = []string{
	".env",
	".env.local",
}

// LoadEnv loads the first .env file found among paths (DefaultEnvPaths when
// empty) into the process environment. Variables already set win. It returns
// the file it loaded, or "" when none exists.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvPaths
	}

	for _, envPath := range paths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		return envPath, nil
	}
	return "", nil
}

// ApplyEnv overrides cfg with VTC_* variables and the engine-specific
// variables OPENAI_API_KEY, WHISPER_CPP_BINARY and WHISPER_CPP_MODEL.
func ApplyEnv(cfg *appconfig.AppConfig) error {
	setString(&cfg.Provider, "VTC_PROVIDER")
	setString(&cfg.ModelIdentifier, "VTC_MODEL")
	setString(&cfg.OutputFormat, "VTC_OUTPUT_FORMAT")
	setString(&cfg.OutputDirectory, "VTC_OUTPUT_DIR")
	setString(&cfg.TempDirectory, "VTC_TEMP_DIR")
	setString(&cfg.LogLevel, "VTC_LOG_LEVEL")
	setString(&cfg.MetricsFile, "VTC_METRICS_FILE")
	setString(&cfg.Database.Driver, "VTC_DB_DRIVER")
	setString(&cfg.Database.DSN, "VTC_DB_DSN")
	setString(&cfg.FFmpeg.FFmpegPath, "VTC_FFMPEG")
	setString(&cfg.FFmpeg.FFprobePath, "VTC_FFPROBE")
	setString(&cfg.WhisperCpp.BinaryPath, "WHISPER_CPP_BINARY")
	setString(&cfg.WhisperCpp.ModelPath, "WHISPER_CPP_MODEL")
	setString(&cfg.WhisperCpp.Language, "VTC_LANGUAGE")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")

	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		if err := ValidateAPIKey(key, "OpenAI"); err != nil {
			return err
		}
		cfg.OpenAI.APIKey = key
	}

	if v := os.Getenv("VTC_FILLER_WORDS"); v != "" {
		cfg.FillerWords = splitList(v)
	}
	if v := os.Getenv("VTC_SUPPORTED_FORMATS"); v != "" {
		cfg.SupportedFormats = splitList(v)
	}
	if err := setFloat(&cfg.SilenceThreshold, "VTC_SILENCE_THRESHOLD"); err != nil {
		return err
	}
	if err := setFloat(&cfg.EmptySpotGap, "VTC_EMPTY_SPOT_GAP"); err != nil {
		return err
	}
	if err := setFloat(&cfg.MinSegmentDuration, "VTC_MIN_SEGMENT_DURATION"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}

// splitList splits a comma separated list, dropping blanks
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
