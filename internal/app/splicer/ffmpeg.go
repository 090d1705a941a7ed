package splicer

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"videotextcut/internal/app/common"
	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/model"
)

const (
	waitDelay = 2 * time.Second

	// filters longer than this go through -filter_complex_script to stay
	// clear of command line length limits
	maxInlineFilter = 64 * 1024
)

// StreamProber tells the splicer whether the source has sound
type StreamProber interface {
	HasAudioStream(ctx context.Context, filePath string) (bool, error)
}

// Options selects the ffmpeg binary and the encoding
type Options struct {
	FFmpegPath       string
	VideoCodec       string
	AudioCodec       string
	Preset           string
	CRF              int
	AudioBitrate     string
	SupportedFormats []string
	TempDir          string
}

// FFmpegSplicer cuts with a single trim/atrim + concat filter graph so the
// output is re-encoded once
type FFmpegSplicer struct {
	opts   Options
	prober StreamProber
	logger *zap.Logger
}

func NewFFmpegSplicer(opts Options, prober StreamProber, logger *zap.Logger) *FFmpegSplicer {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	opts.SupportedFormats = append([]string(nil), opts.SupportedFormats...)
	return &FFmpegSplicer{opts: opts, prober: prober, logger: common.OrNop(logger)}
}

func (s *FFmpegSplicer) Splice(ctx context.Context, source string, intervals []model.CutInterval, outputPath, outputFormat string, onProgress func(float64)) (string, error) {
	if len(intervals) == 0 {
		return "", apperrors.SpliceFailed(fmt.Errorf("nothing to keep in %s", source))
	}
	for i, iv := range intervals {
		if !(iv.End > iv.Start) || iv.Start < 0 {
			return "", apperrors.SpliceFailed(fmt.Errorf("interval %d (%s) is empty or negative", i, iv))
		}
	}
	if _, err := os.Stat(source); err != nil {
		return "", apperrors.SpliceFailed(fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, source))
	}

	if outputPath == "" {
		outputPath = OutputPath(source, DefaultSuffix)
	}
	outputPath = withFormat(outputPath, outputFormat)
	ext := strings.ToLower(filepath.Ext(outputPath))
	if !s.supports(ext) {
		return "", apperrors.UnsupportedFormat(ext, s.opts.SupportedFormats)
	}
	if same, _ := samePath(source, outputPath); same {
		return "", apperrors.SpliceFailed(fmt.Errorf("output %s would overwrite the source", outputPath))
	}

	outDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", apperrors.SpliceFailed(fmt.Errorf("failed to create output directory: %w", err))
	}

	withAudio := true
	if s.prober != nil {
		has, err := s.prober.HasAudioStream(ctx, source)
		if err != nil {
			return "", apperrors.SpliceFailed(err)
		}
		withAudio = has
	}

	log := s.logger.With(zap.String("source", source), zap.String("output", outputPath))
	log.Info("splice started", zap.Int("intervals", len(intervals)), zap.Bool("audio", withAudio))

	tmpPath := filepath.Join(outDir, fmt.Sprintf(".vtc-%s-%s", uuid.NewString()[:8], filepath.Base(outputPath)))
	args, cleanup, err := s.buildArgs(source, tmpPath, ext, intervals, withAudio)
	if err != nil {
		return "", apperrors.SpliceFailed(err)
	}
	defer cleanup()

	total := 0.0
	for _, iv := range intervals {
		total += iv.Duration()
	}

	if err := s.run(ctx, args, total, onProgress); err != nil {
		os.Remove(tmpPath)
		log.Error("splice failed", zap.Error(err))
		return "", apperrors.SpliceFailed(err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return "", apperrors.SpliceFailed(fmt.Errorf("failed to move output into place: %w", err))
	}

	if onProgress != nil {
		onProgress(1)
	}
	log.Info("splice finished", zap.Float64("kept_seconds", total))
	return outputPath, nil
}

func (s *FFmpegSplicer) supports(ext string) bool {
	for _, f := range s.opts.SupportedFormats {
		if strings.ToLower(f) == ext {
			return true
		}
	}
	return false
}

// buildArgs returns the ffmpeg arguments and a cleanup for any script file it wrote
func (s *FFmpegSplicer) buildArgs(source, output, ext string, intervals []model.CutInterval, withAudio bool) ([]string, func(), error) {
	cleanup := func() {}
	graph := FilterGraph(intervals, withAudio)

	args := []string{"-y", "-nostdin", "-hide_banner", "-i", source}
	if len(graph) > maxInlineFilter {
		script, err := os.CreateTemp(s.opts.TempDir, "vtc-filter-*.txt")
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to write filter script: %w", err)
		}
		cleanup = func() { os.Remove(script.Name()) }
		if _, err := script.WriteString(graph); err != nil {
			script.Close()
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to write filter script: %w", err)
		}
		if err := script.Close(); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to write filter script: %w", err)
		}
		args = append(args, "-filter_complex_script", script.Name())
	} else {
		args = append(args, "-filter_complex", graph)
	}

	args = append(args, "-map", "[outv]")
	if withAudio {
		args = append(args, "-map", "[outa]")
	}

	videoCodec, audioCodec := s.codecsFor(ext)
	args = append(args, "-c:v", videoCodec)
	if s.opts.Preset != "" && videoCodec == "libx264" {
		args = append(args, "-preset", s.opts.Preset)
	}
	if s.opts.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(s.opts.CRF))
	}
	if withAudio {
		args = append(args, "-c:a", audioCodec)
		if s.opts.AudioBitrate != "" {
			args = append(args, "-b:a", s.opts.AudioBitrate)
		}
	}
	if ext == ".mp4" || ext == ".m4v" || ext == ".mov" {
		args = append(args, "-movflags", "+faststart")
	}
	args = append(args, "-progress", "pipe:1", "-nostats", output)
	return args, cleanup, nil
}

// codecsFor keeps the configured codecs except for webm, which only carries VP8/VP9 and Vorbis/Opus
func (s *FFmpegSplicer) codecsFor(ext string) (string, string) {
	if ext == ".webm" {
		return "libvpx-vp9", "libopus"
	}
	video, audio := s.opts.VideoCodec, s.opts.AudioCodec
	if video == "" {
		video = "libx264"
	}
	if audio == "" {
		audio = "aac"
	}
	return video, audio
}

// FilterGraph builds the trim/atrim + concat graph producing [outv] and, with audio, [outa]
func FilterGraph(intervals []model.CutInterval, withAudio bool) string {
	var b strings.Builder
	for i, iv := range intervals {
		start, end := seconds(iv.Start), seconds(iv.End)
		fmt.Fprintf(&b, "[0:v]trim=start=%s:end=%s,setpts=PTS-STARTPTS[v%d];", start, end, i)
		if withAudio {
			fmt.Fprintf(&b, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[a%d];", start, end, i)
		}
	}
	for i := range intervals {
		fmt.Fprintf(&b, "[v%d]", i)
		if withAudio {
			fmt.Fprintf(&b, "[a%d]", i)
		}
	}
	if withAudio {
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=1[outv][outa]", len(intervals))
	} else {
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=0[outv]", len(intervals))
	}
	return b.String()
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *FFmpegSplicer) run(ctx context.Context, args []string, total float64, onProgress func(float64)) error {
	cmd := exec.CommandContext(ctx, s.opts.FFmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	s.logger.Debug("exec", zap.String("cmd", s.opts.FFmpegPath), zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	scanProgress(stdout, total, onProgress)

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg error: %w, stderr: %s", err, lastLines(stderr.String(), 5))
	}
	return nil
}

// scanProgress reads ffmpeg's key=value progress stream until EOF
func scanProgress(r io.Reader, total float64, onProgress func(float64)) {
	scanner := bufio.NewScanner(r)
	last := -1.0
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok || key != "out_time_us" || onProgress == nil || !(total > 0) {
			continue
		}
		us, err := strconv.ParseFloat(value, 64)
		if err != nil || us < 0 {
			continue
		}
		fraction := min(us/1e6/total, 1)
		if fraction > last {
			last = fraction
			onProgress(fraction)
		}
	}
	// drain whatever is left so ffmpeg never blocks on a full pipe
	io.Copy(io.Discard, r)
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
