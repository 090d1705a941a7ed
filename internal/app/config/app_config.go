package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	apperrors "videotextcut/internal/app/errors"
)

// AppConfig is the process-wide configuration. It is read-only once loaded;
// long-running operations work on a Clone taken when they start.
type AppConfig struct {
	SupportedFormats   []string `yaml:"supported_formats" validate:"required,min=1,dive,startswith=."`
	ModelIdentifier    string   `yaml:"model_identifier" validate:"required"`
	OutputFormat       string   `yaml:"output_format" validate:"required,alphanum"`
	SilenceThreshold   float64  `yaml:"silence_threshold" validate:"gte=0"`
	EmptySpotGap       float64  `yaml:"empty_spot_gap" validate:"gte=0"`
	MinSegmentDuration float64  `yaml:"min_segment_duration" validate:"gte=0"`
	FillerWords        []string `yaml:"filler_words"`

	Provider        string `yaml:"provider" validate:"required"`
	OutputDirectory string `yaml:"output_directory"`
	TempDirectory   string `yaml:"temp_directory"`
	LogLevel        string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	MetricsFile     string `yaml:"metrics_file,omitempty"`

	WhisperCpp WhisperCppConfig `yaml:"whisper_cpp"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Database   DatabaseConfig   `yaml:"database"`
}

// WhisperCppConfig points at a local whisper.cpp build
type WhisperCppConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads,omitempty" validate:"gte=0"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Model    string `yaml:"model,omitempty"`
	Language string `yaml:"language,omitempty"`
}

// FFmpegConfig selects the media binaries and the output encoding
type FFmpegConfig struct {
	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFprobePath  string `yaml:"ffprobe_path"`
	VideoCodec   string `yaml:"video_codec"`
	AudioCodec   string `yaml:"audio_codec"`
	Preset       string `yaml:"preset,omitempty"`
	CRF          int    `yaml:"crf,omitempty" validate:"gte=0,lte=51"`
	AudioBitrate string `yaml:"audio_bitrate,omitempty"`
}

// DatabaseConfig selects the run-history backend
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite postgres none"`
	DSN    string `yaml:"dsn,omitempty"`
}

// Default returns the built-in configuration
func Default() AppConfig {
	return AppConfig{
		SupportedFormats:   []string{".mp4", ".avi", ".mov", ".mkv", ".m4v", ".webm"},
		ModelIdentifier:    "base",
		OutputFormat:       "mp4",
		SilenceThreshold:   0.01,
		EmptySpotGap:       0.5,
		MinSegmentDuration: 0.5,
		FillerWords:        []string{"uh", "um", "uhm", "er", "ah", "like", "you know", "so", "well", "actually"},
		Provider:           "whisper_cpp",
		OutputDirectory:    "",
		TempDirectory:      os.TempDir(),
		LogLevel:           "info",
		WhisperCpp: WhisperCppConfig{
			BinaryPath: "whisper-cli",
			ModelPath:  "models/ggml-base.bin",
			Language:   "en",
		},
		OpenAI: OpenAIConfig{
			APIKey: "${OPENAI_API_KEY}",
			Model:  "whisper-1",
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:   "ffmpeg",
			FFprobePath:  "ffprobe",
			VideoCodec:   "libx264",
			AudioCodec:   "aac",
			Preset:       "medium",
			CRF:          23,
			AudioBitrate: "128k",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    filepath.Join("data", "vtc.db"),
		},
	}
}

// Load reads a YAML file on top of Default. A missing file is not an error
// when allowMissing is set.
func Load(configPath string, allowMissing bool) (AppConfig, error) {
	cfg := Default()
	configPath = os.ExpandEnv(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			cfg.expandEnvironmentVariables()
			return cfg, nil
		}
		return AppConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to parse YAML %s: %w", configPath, err)
	}
	cfg.expandEnvironmentVariables()

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the directory if needed
func Save(cfg AppConfig, configPath string) error {
	configPath = os.ExpandEnv(configPath)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks struct tags and cross-field rules
func (c AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return err
	}

	if !c.HasFormat("." + c.OutputFormat) {
		return apperrors.InvalidField("output_format", fmt.Sprintf("%q is not one of supported_formats %v", c.OutputFormat, c.SupportedFormats))
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return apperrors.InvalidField("database.dsn", "required for the postgres driver")
	}
	return nil
}

// HasFormat reports whether ext (".mp4", case-insensitive) is supported
func (c AppConfig) HasFormat(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range c.SupportedFormats {
		if strings.ToLower(f) == ext {
			return true
		}
	}
	return false
}

// Clone copies the slices so the copy can't be changed through the original
func (c AppConfig) Clone() AppConfig {
	out := c
	out.SupportedFormats = append([]string(nil), c.SupportedFormats...)
	out.FillerWords = append([]string(nil), c.FillerWords...)
	return out
}

// expandEnvironmentVariables resolves ${VAR} references in secrets and paths
func (c *AppConfig) expandEnvironmentVariables() {
	for _, field := range []*string{
		&c.OpenAI.APIKey,
		&c.OpenAI.BaseURL,
		&c.WhisperCpp.BinaryPath,
		&c.WhisperCpp.ModelPath,
		&c.Database.DSN,
		&c.OutputDirectory,
		&c.TempDirectory,
		&c.MetricsFile,
	} {
		if strings.Contains(*field, "${") {
			*field = os.ExpandEnv(*field)
		}
	}
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	if path := os.Getenv("VTC_CONFIG"); path != "" {
		return path
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "vtc.yaml"
	}
	return filepath.Join(dir, "vtc", "config.yaml")
}
