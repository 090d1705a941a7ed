package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"videotextcut/internal/app/api/provider"
	"videotextcut/internal/app/common"
	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/model"
)

// DurationProber reports the length of a media file in seconds
type DurationProber interface {
	GetMediaDuration(ctx context.Context, filePath string) (float64, error)
}

// GatewayOptions are the parts of the configuration the gateway reads
type GatewayOptions struct {
	SupportedFormats []string
	Language         string
	Model            string
	TempDir          string
}

// Gateway adapts a speech engine to the Transcriber contract: it rejects
// unsupported inputs, normalizes engine segments and validates the result.
type Gateway struct {
	provider provider.TranscriptionProvider
	prober   DurationProber
	opts     GatewayOptions
	logger   *zap.Logger
}

func NewGateway(p provider.TranscriptionProvider, prober DurationProber, opts GatewayOptions, logger *zap.Logger) *Gateway {
	opts.SupportedFormats = append([]string(nil), opts.SupportedFormats...)
	return &Gateway{
		provider: p,
		prober:   prober,
		opts:     opts,
		logger:   common.OrNop(logger),
	}
}

// ProviderName returns the name of the underlying engine
func (g *Gateway) ProviderName() string {
	return g.provider.GetProviderInfo().Name
}

func (g *Gateway) Transcribe(ctx context.Context, mediaPath string, onProgress ProgressFunc) (*model.TranscriptData, error) {
	ext := strings.ToLower(filepath.Ext(mediaPath))
	if !g.supports(ext) {
		return nil, apperrors.UnsupportedFormat(ext, g.opts.SupportedFormats)
	}
	if _, err := os.Stat(mediaPath); err != nil {
		return nil, apperrors.TranscriptionFailed(fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, mediaPath))
	}

	log := g.logger.With(zap.String("file", mediaPath), zap.String("provider", g.ProviderName()))
	log.Info("transcription started")

	resp, err := g.provider.TranscriptWithOptions(ctx, &provider.TranscriptionRequest{
		InputFilePath: mediaPath,
		Language:      g.opts.Language,
		Model:         g.opts.Model,
		TempDir:       g.opts.TempDir,
		OnProgress:    onProgress,
	})
	if err != nil {
		log.Error("transcription failed", zap.Error(err))
		return nil, apperrors.TranscriptionFailed(err)
	}

	segments := normalize(resp.Segments)
	duration := g.duration(ctx, mediaPath, resp, segments, log)
	if !(duration > 0) {
		return nil, apperrors.TranscriptionFailed(fmt.Errorf("could not determine the duration of %s", mediaPath))
	}

	transcript := &model.TranscriptData{
		Segments:   segments,
		Duration:   duration,
		SourcePath: mediaPath,
	}
	if err := transcript.Validate(); err != nil {
		return nil, apperrors.TranscriptionFailed(err)
	}

	log.Info("transcription finished",
		zap.Int("segments", len(segments)),
		zap.Float64("duration", duration),
		zap.Duration("elapsed", resp.ProcessingTime))
	return transcript, nil
}

func (g *Gateway) supports(ext string) bool {
	for _, f := range g.opts.SupportedFormats {
		if strings.ToLower(f) == ext {
			return true
		}
	}
	return false
}

// duration prefers the probed container length but never reports less than the last segment end
func (g *Gateway) duration(ctx context.Context, mediaPath string, resp *provider.TranscriptionResponse, segments []*model.Segment, log *zap.Logger) float64 {
	var lastEnd float64
	if n := len(segments); n > 0 {
		lastEnd = segments[n-1].EndTime
	}

	duration := resp.Duration
	if g.prober != nil {
		probed, err := g.prober.GetMediaDuration(ctx, mediaPath)
		if err != nil {
			log.Warn("duration probe failed, falling back to engine timings", zap.Error(err))
		} else {
			duration = probed
		}
	}
	return max(duration, lastEnd)
}

// normalize assigns ids 0..n-1, trims text, clamps small overlaps between
// neighbours and drops segments left empty or zero-length
func normalize(raw []provider.TranscriptionSegment) []*model.Segment {
	segments := make([]*model.Segment, 0, len(raw))
	prevEnd := 0.0
	for _, r := range raw {
		text := strings.TrimSpace(r.Text)
		start := max(r.Start, 0, prevEnd)
		end := r.End
		if text == "" || !(end > start) {
			continue
		}

		seg := &model.Segment{
			ID:         len(segments),
			StartTime:  start,
			EndTime:    end,
			Text:       text,
			Confidence: clamp01(r.Confidence),
		}
		for _, w := range r.Words {
			seg.Words = append(seg.Words, model.WordTiming{
				Word:       w.Word,
				StartTime:  w.Start,
				EndTime:    w.End,
				Confidence: clamp01(w.Probability),
			})
		}
		segments = append(segments, seg)
		prevEnd = end
	}
	return segments
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}
