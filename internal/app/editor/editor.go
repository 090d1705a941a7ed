// Package editor drives one video through transcribe, classify, edit and cut,
// recording every run.
package editor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"videotextcut/internal/app/api"
	"videotextcut/internal/app/common"
	"videotextcut/internal/app/config"
	"videotextcut/internal/app/cutlist"
	"videotextcut/internal/app/metrics"
	"videotextcut/internal/app/model"
	"videotextcut/internal/app/repository"
	"videotextcut/internal/app/splicer"
	"videotextcut/internal/app/utils"
)

// Editor wires the pipeline collaborators together. It holds no per-video
// state; that lives in Session.
type Editor struct {
	cfg         config.AppConfig
	transcriber api.Transcriber
	splicer     splicer.Splicer
	runs        repository.RunDAO
	metrics     *metrics.Recorder
	logger      *zap.Logger
	now         func() time.Time
}

func New(cfg config.AppConfig, transcriber api.Transcriber, sp splicer.Splicer, runs repository.RunDAO, recorder *metrics.Recorder, logger *zap.Logger) *Editor {
	if runs == nil {
		runs = repository.NopDAO{}
	}
	return &Editor{
		cfg:         cfg.Clone(),
		transcriber: transcriber,
		splicer:     sp,
		runs:        runs,
		metrics:     recorder,
		logger:      common.OrNop(logger),
		now:         time.Now,
	}
}

// Config returns a copy of the configuration new sessions start from
func (e *Editor) Config() config.AppConfig {
	return e.cfg.Clone()
}

// Runs exposes the run history store
func (e *Editor) Runs() repository.RunDAO {
	return e.runs
}

func (e *Editor) providerName() string {
	if named, ok := e.transcriber.(interface{ ProviderName() string }); ok {
		return named.ProviderName()
	}
	return e.cfg.Provider
}

// Load transcribes mediaPath and classifies fillers. The returned session
// keeps the configuration as it was at this call.
func (e *Editor) Load(ctx context.Context, mediaPath string, onProgress func(float64)) (*Session, error) {
	snapshot := e.cfg.Clone()
	run := e.newRun(model.RunKindTranscribe, mediaPath)
	run.Provider = e.providerName()

	log := e.logger.With(zap.String("file", mediaPath), zap.String("run_id", run.ID))
	log.Info("loading video")

	transcript, err := e.transcriber.Transcribe(ctx, mediaPath, onProgress)
	elapsed := e.now().Sub(run.StartedAt)
	e.metrics.ObserveTranscription(run.Provider, elapsed, err)
	if err != nil {
		e.finish(ctx, run, err)
		return nil, err
	}

	session := newSession(snapshot, transcript)
	classifyStart := e.now()
	flagged := session.Classify()
	e.metrics.ObserveStage("classify", e.now().Sub(classifyStart))

	run.SegmentCount = len(transcript.Segments)
	run.FillerCount = flagged
	run.SourceDuration = transcript.Duration
	e.finish(ctx, run, nil)

	log.Info("video loaded",
		zap.Int("segments", run.SegmentCount),
		zap.Int("fillers", flagged),
		zap.Float64("duration", transcript.Duration))
	return session, nil
}

// Plan is a cut computed from a session at one point in time. Later edits to
// the session do not change it.
type Plan struct {
	Source       string
	Intervals    []model.CutInterval
	Duration     float64
	Removed      float64
	SegmentCount int
	FillerCount  int
	OutputFormat string
	outputDir    string
}

// Kept is the total length of the planned output
func (p Plan) Kept() float64 {
	return cutlist.KeptDuration(p.Intervals)
}

// DefaultOutput is where the cut goes when the caller names no path
func (p Plan) DefaultOutput() string {
	out := splicer.OutputPath(p.Source, splicer.DefaultSuffix)
	if p.outputDir != "" {
		out = filepath.Join(p.outputDir, filepath.Base(out))
	}
	return out
}

// PlanCut builds the cut list from the session's current flags
func (e *Editor) PlanCut(s *Session) (Plan, error) {
	start := e.now()
	intervals, err := s.CutList()
	e.metrics.ObserveStage("cutlist", e.now().Sub(start))
	if err != nil {
		return Plan{}, err
	}

	t := s.Transcript()
	return Plan{
		Source:       t.SourcePath,
		Intervals:    intervals,
		Duration:     t.Duration,
		Removed:      t.Duration - cutlist.KeptDuration(intervals),
		SegmentCount: len(t.Segments),
		FillerCount:  s.FillerCount(),
		OutputFormat: s.cfg.OutputFormat,
		outputDir:    s.cfg.OutputDirectory,
	}, nil
}

// CutResult describes a finished splice
type CutResult struct {
	OutputPath       string
	Intervals        []model.CutInterval
	KeptDuration     float64
	RemovedDuration  float64
	CompressionRatio float64
}

// Render splices a plan. outputPath "" uses Plan.DefaultOutput.
func (e *Editor) Render(ctx context.Context, plan Plan, outputPath string, onProgress func(float64)) (CutResult, error) {
	if outputPath == "" {
		outputPath = plan.DefaultOutput()
	}
	run := e.newRun(model.RunKindSplice, plan.Source)
	run.SegmentCount = plan.SegmentCount
	run.FillerCount = plan.FillerCount
	run.SourceDuration = plan.Duration
	run.KeptDuration = plan.Kept()

	log := e.logger.With(zap.String("file", plan.Source), zap.String("run_id", run.ID))
	log.Info("cutting video", zap.Int("intervals", len(plan.Intervals)), zap.String("output", outputPath))

	written, err := e.splicer.Splice(ctx, plan.Source, plan.Intervals, outputPath, plan.OutputFormat, onProgress)
	e.metrics.ObserveSplice(e.now().Sub(run.StartedAt), plan.Removed, err)
	run.OutputPath = written
	e.finish(ctx, run, err)
	if err != nil {
		return CutResult{}, err
	}

	log.Info("video cut", zap.String("output", written), zap.Float64("removed_seconds", plan.Removed))
	return CutResult{
		OutputPath:       written,
		Intervals:        plan.Intervals,
		KeptDuration:     plan.Kept(),
		RemovedDuration:  plan.Removed,
		CompressionRatio: cutlist.CompressionRatio(plan.Intervals, plan.Duration),
	}, nil
}

// Cut plans and renders in one call
func (e *Editor) Cut(ctx context.Context, s *Session, outputPath string, onProgress func(float64)) (CutResult, error) {
	plan, err := e.PlanCut(s)
	if err != nil {
		return CutResult{}, err
	}
	return e.Render(ctx, plan, outputPath, onProgress)
}

// WriteMetrics flushes the metrics textfile when one is configured
func (e *Editor) WriteMetrics() error {
	return e.metrics.WriteTextfile(e.cfg.MetricsFile)
}

func (e *Editor) newRun(kind model.RunKind, source string) model.Run {
	run := model.Run{
		ID:         uuid.NewString(),
		Kind:       kind,
		SourcePath: source,
		StartedAt:  e.now(),
	}
	if hash, err := utils.ShortHash(source); err == nil {
		run.SourceHash = hash
	}
	if size, err := utils.GetFileSize(source); err == nil {
		run.SourceSize = size
	}
	return run
}

// finish stamps the run and stores it; a failing store is logged, never returned
func (e *Editor) finish(ctx context.Context, run model.Run, runErr error) {
	run.FinishedAt = e.now()
	if runErr != nil {
		run.HasError = 1
		run.ErrorMessage = runErr.Error()
	}
	if err := e.runs.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		e.logger.Warn("failed to record run", zap.String("run_id", run.ID), zap.Error(err))
	}
}
