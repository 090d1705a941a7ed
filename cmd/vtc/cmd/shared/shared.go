// Package shared holds the flags and setup every vtc subcommand needs.
package shared

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"videotextcut/internal/app"
	"videotextcut/internal/app/common"
	appconfig "videotextcut/internal/app/config"
	"videotextcut/internal/app/editor"
	"videotextcut/internal/app/progress"
	"videotextcut/internal/app/splicer"
	"videotextcut/internal/app/util/files"
	"videotextcut/internal/config"
)

var (
	ConfigPath string
	Verbose    bool
	Provider   string
	Progress   bool
	NoProgress bool
)

// BindFlags registers the persistent flags on the root command
func BindFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVarP(&ConfigPath, "config", "c", "", "config file (default "+appconfig.GetDefaultConfigPath()+")")
	flags.BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	flags.StringVarP(&Provider, "provider", "p", "", "speech engine: whisper_cpp or openai")
	flags.BoolVar(&Progress, "progress", false, "force progress bars even when stderr is not a terminal")
	flags.BoolVar(&NoProgress, "no-progress", false, "never draw progress bars")
}

// LoadConfig resolves defaults, the YAML file, the environment and flags, in that order
func LoadConfig() (appconfig.AppConfig, error) {
	path := ConfigPath
	allowMissing := path == ""
	if path == "" {
		path = appconfig.GetDefaultConfigPath()
	}

	cfg, err := appconfig.Load(path, allowMissing)
	if err != nil {
		return appconfig.AppConfig{}, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return appconfig.AppConfig{}, err
	}
	if Provider != "" {
		cfg.Provider = Provider
	}
	if Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return appconfig.AppConfig{}, err
	}
	return cfg, nil
}

func NewLogger(cfg appconfig.AppConfig) (*zap.Logger, error) {
	return common.NewLogger(Verbose, cfg.LogLevel)
}

// Env is what a pipeline command works with
type Env struct {
	Config appconfig.AppConfig
	Logger *zap.Logger
	Editor *editor.Editor
	close  func()
}

// Close flushes metrics, closes the run store and syncs the logger
func (e *Env) Close() {
	if err := e.Editor.WriteMetrics(); err != nil {
		e.Logger.Warn("failed to write metrics", zap.Error(err))
	}
	e.close()
	_ = e.Logger.Sync()
}

// Setup loads the configuration and builds the editor
func Setup(ctx context.Context) (*Env, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	ed, cleanup, err := app.InitializeEditor(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return nil, err
	}
	return &Env{Config: cfg, Logger: logger, Editor: ed, close: cleanup}, nil
}

// ResolveInputs expands a directory argument into the supported media files
// it contains, leaving out outputs of earlier cuts. A file argument is
// returned as is; a missing file is reported later by the transcriber.
func ResolveInputs(path string, formats []string) ([]files.MediaFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return []files.MediaFile{{FullPath: path, Name: filepath.Base(path)}}, nil
	}
	if !info.IsDir() {
		return []files.MediaFile{{FullPath: path, Name: info.Name(), Size: info.Size()}}, nil
	}

	found, err := files.FindMedia(path, formats)
	if err != nil {
		return nil, err
	}
	inputs := make([]files.MediaFile, 0, len(found))
	for _, f := range found {
		stem := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		if strings.HasSuffix(stem, splicer.DefaultSuffix) {
			continue
		}
		inputs = append(inputs, f)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no media files with extensions %v in %s", formats, path)
	}
	return inputs, nil
}

func progressManager() *progress.Manager {
	enabled := !NoProgress && progress.ShouldShowProgress(Progress)
	return progress.NewManager(progress.Config{Enabled: enabled, Writer: os.Stderr})
}

// Load transcribes path with a progress bar
func (e *Env) Load(ctx context.Context, path string) (*editor.Session, error) {
	pm := progressManager()
	bar := pm.NewBar("Transcribing")
	s, err := e.Editor.Load(ctx, path, bar.Callback())
	finish(pm, bar, err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Cut renders the session with a progress bar
func (e *Env) Cut(ctx context.Context, s *editor.Session, output string) (editor.CutResult, error) {
	pm := progressManager()
	bar := pm.NewBar("Cutting")
	res, err := e.Editor.Cut(ctx, s, output, bar.Callback())
	finish(pm, bar, err)
	return res, err
}

func finish(pm *progress.Manager, bar *progress.Bar, err error) {
	if err != nil {
		bar.Abort()
	} else {
		bar.Complete()
	}
	pm.Wait()
}
