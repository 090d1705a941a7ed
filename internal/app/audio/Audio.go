// Package audio wraps the ffmpeg and ffprobe binaries.
package audio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"videotextcut/internal/app/common"
	"videotextcut/internal/app/model"
)

// waitDelay bounds how long a killed tool may keep its output pipes open
const waitDelay = 2 * time.Second

// Tools runs ffmpeg/ffprobe. Zero value paths fall back to the binaries on PATH.
type Tools struct {
	FFmpegPath  string
	FFprobePath string
	logger      *zap.Logger
}

// Silence is a silent stretch reported by ffmpeg's silencedetect filter
type Silence struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func NewTools(ffmpegPath, ffprobePath string, logger *zap.Logger) *Tools {
	return &Tools{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		logger:      common.OrNop(logger),
	}
}

func (t *Tools) ffmpeg() string {
	if t.FFmpegPath == "" {
		return "ffmpeg"
	}
	return t.FFmpegPath
}

func (t *Tools) ffprobe() string {
	if t.FFprobePath == "" {
		return "ffprobe"
	}
	return t.FFprobePath
}

func (t *Tools) log() *zap.Logger {
	return common.OrNop(t.logger)
}

// Probe runs ffprobe on filePath and decodes its JSON report
func (t *Tools) Probe(ctx context.Context, filePath string) (*model.FFProbeOutput, error) {
	out, _, err := t.run(ctx, t.ffprobe(), "-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", filePath)
	if err != nil {
		return nil, err
	}

	var probe model.FFProbeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output for %s: %w", filePath, err)
	}
	return &probe, nil
}

// GetMediaDuration returns the container duration in seconds
func (t *Tools) GetMediaDuration(ctx context.Context, filePath string) (float64, error) {
	probe, err := t.Probe(ctx, filePath)
	if err != nil {
		return 0, err
	}
	d, ok := probe.DurationSeconds()
	if !ok {
		return 0, fmt.Errorf("ffprobe reported no duration for %s (%q)", filePath, probe.Format.Duration)
	}
	return d, nil
}

// HasAudioStream reports whether filePath carries at least one audio stream
func (t *Tools) HasAudioStream(ctx context.Context, filePath string) (bool, error) {
	probe, err := t.Probe(ctx, filePath)
	if err != nil {
		return false, err
	}
	return probe.HasStream("audio"), nil
}

// Is16kHzMonoWav reports whether filePath is already in the format whisper.cpp expects
func (t *Tools) Is16kHzMonoWav(ctx context.Context, filePath string) (bool, error) {
	probe, err := t.Probe(ctx, filePath)
	if err != nil {
		return false, err
	}

	for _, stream := range probe.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 && stream.Channels == 1 {
			return true, nil
		}
	}
	return false, nil
}

// ExtractWav16k writes a 16 kHz mono PCM WAV of inputPath's audio into outDir
// and returns its path. The caller removes the file.
func (t *Tools) ExtractWav16k(ctx context.Context, inputPath, outDir string) (string, error) {
	if outDir == "" {
		outDir = os.TempDir()
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(outDir, fmt.Sprintf("%s_%s_16khz.wav", base, uuid.NewString()[:8]))

	t.log().Debug("extracting 16kHz wav", zap.String("input", inputPath), zap.String("output", outputPath))
	_, _, err := t.run(ctx, t.ffmpeg(), "-y", "-nostdin", "-i", inputPath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputPath)
	if err != nil {
		os.Remove(outputPath)
		return "", err
	}
	return outputPath, nil
}

var (
	silenceStartRe = regexp.MustCompile(`silence_start:\s*(-?[\d.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end:\s*(-?[\d.]+)`)
)

// DetectSilence runs the silencedetect filter. noise is an amplitude ratio
// (0.01 is about -40 dB) and minDuration the shortest silence reported.
func (t *Tools) DetectSilence(ctx context.Context, filePath string, noise, minDuration float64) ([]Silence, error) {
	filter := fmt.Sprintf("silencedetect=noise=%s:d=%s",
		strconv.FormatFloat(noise, 'f', -1, 64), strconv.FormatFloat(minDuration, 'f', -1, 64))
	_, stderr, err := t.run(ctx, t.ffmpeg(), "-nostdin", "-i", filePath, "-af", filter, "-f", "null", "-")
	if err != nil {
		return nil, err
	}
	return parseSilences(stderr), nil
}

func parseSilences(stderr []byte) []Silence {
	var silences []Silence
	open := -1.0
	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	for scanner.Scan() {
		line := scanner.Text()
		if m := silenceStartRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				open = max(v, 0)
			}
			continue
		}
		if m := silenceEndRe.FindStringSubmatch(line); m != nil && open >= 0 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > open {
				silences = append(silences, Silence{Start: open, End: v})
			}
			open = -1
		}
	}
	return silences
}

// ToolVersion returns the first line of `<binary> -version`
func (t *Tools) ToolVersion(ctx context.Context, binary string) (string, error) {
	out, _, err := t.run(ctx, binary, "-version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line), nil
}

// FFmpeg returns the ffmpeg binary in use
func (t *Tools) FFmpeg() string { return t.ffmpeg() }

// FFprobe returns the ffprobe binary in use
func (t *Tools) FFprobe() string { return t.ffprobe() }

func (t *Tools) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	t.log().Debug("exec", zap.String("cmd", name), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, fmt.Errorf("%s interrupted: %w", filepath.Base(name), ctxErr)
		}
		return nil, nil, fmt.Errorf("%s error: %w, stderr: %s", filepath.Base(name), err, lastLines(stderr.String(), 5))
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// lastLines keeps the tail of noisy ffmpeg stderr for error messages
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
