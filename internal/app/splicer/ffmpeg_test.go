package splicer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/model"
	"videotextcut/internal/app/testutil/fakebin"
)

// writeOutput is a fake ffmpeg body: report progress and write the last argument
const writeOutput = `for last in "$@"; do :; done
echo "frame=1"
echo "out_time_us=1000000"
echo "progress=continue"
echo "out_time_us=3000000"
echo "progress=end"
printf 'spliced' > "$last"`

type stubProber struct {
	audio bool
	err   error
}

func (p stubProber) HasAudioStream(context.Context, string) (bool, error) {
	return p.audio, p.err
}

var testFormats = []string{".mp4", ".mkv", ".webm"}

func newSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.mp4")
	require.NoError(t, os.WriteFile(path, []byte("source"), 0644))
	return path
}

func readArgs(t *testing.T, logFile string) []string {
	t.Helper()
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".vtc-"), "leftover temp file %s", e.Name())
	}
}

func TestSplice_WritesOutputAndReportsProgress(t *testing.T) {
	ffmpeg, logFile := fakebin.ArgsLog(t, "ffmpeg", writeOutput)
	s := NewFFmpegSplicer(Options{
		FFmpegPath:       ffmpeg,
		VideoCodec:       "libx264",
		AudioCodec:       "aac",
		Preset:           "fast",
		CRF:              20,
		AudioBitrate:     "96k",
		SupportedFormats: testFormats,
	}, stubProber{audio: true}, nil)

	source := newSource(t)
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	intervals := []model.CutInterval{{Start: 0, End: 2}, {Start: 3, End: 6}}

	var progress []float64
	got, err := s.Splice(context.Background(), source, intervals, filepath.Join(outDir, "cut.mp4"), "mp4", func(f float64) {
		progress = append(progress, f)
	})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "cut.mp4"), got)
	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "spliced", string(data))
	assertNoTempFiles(t, outDir)

	require.NotEmpty(t, progress)
	assert.InDelta(t, 0.2, progress[0], 1e-9)
	assert.Equal(t, 1.0, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}

	args := readArgs(t, logFile)
	assert.Contains(t, args, "-filter_complex")
	assert.Contains(t, args, FilterGraph(intervals, true))
	assert.Contains(t, args, "[outa]")
	assert.Contains(t, args, "libx264")
	assert.Contains(t, args, "fast")
	assert.Contains(t, args, "20")
	assert.Contains(t, args, "96k")
	assert.Contains(t, args, "+faststart")
	assert.Contains(t, args, "pipe:1")
}

func TestSplice_VideoOnlySource(t *testing.T) {
	ffmpeg, logFile := fakebin.ArgsLog(t, "ffmpeg", writeOutput)
	s := NewFFmpegSplicer(Options{FFmpegPath: ffmpeg, SupportedFormats: testFormats}, stubProber{audio: false}, nil)

	_, err := s.Splice(context.Background(), newSource(t), []model.CutInterval{{Start: 1, End: 2}}, filepath.Join(t.TempDir(), "out.mkv"), "mkv", nil)

	require.NoError(t, err)
	args := readArgs(t, logFile)
	assert.NotContains(t, args, "[outa]")
	assert.NotContains(t, args, "-c:a")
	assert.NotContains(t, args, "+faststart")
}

func TestSplice_WebmUsesVPx(t *testing.T) {
	ffmpeg, logFile := fakebin.ArgsLog(t, "ffmpeg", writeOutput)
	s := NewFFmpegSplicer(Options{FFmpegPath: ffmpeg, VideoCodec: "libx264", AudioCodec: "aac", SupportedFormats: testFormats}, stubProber{audio: true}, nil)

	got, err := s.Splice(context.Background(), newSource(t), []model.CutInterval{{Start: 0, End: 1}}, filepath.Join(t.TempDir(), "out"), "webm", nil)

	require.NoError(t, err)
	assert.Equal(t, ".webm", filepath.Ext(got))
	args := readArgs(t, logFile)
	assert.Contains(t, args, "libvpx-vp9")
	assert.Contains(t, args, "libopus")
}

func TestSplice_LargeGraphUsesScript(t *testing.T) {
	ffmpeg, logFile := fakebin.ArgsLog(t, "ffmpeg", writeOutput)
	tempDir := t.TempDir()
	s := NewFFmpegSplicer(Options{FFmpegPath: ffmpeg, SupportedFormats: testFormats, TempDir: tempDir}, stubProber{audio: true}, nil)

	intervals := make([]model.CutInterval, 1000)
	for i := range intervals {
		intervals[i] = model.CutInterval{Start: float64(i), End: float64(i) + 0.5}
	}
	require.Greater(t, len(FilterGraph(intervals, true)), maxInlineFilter)

	_, err := s.Splice(context.Background(), newSource(t), intervals, filepath.Join(t.TempDir(), "out.mp4"), "mp4", nil)

	require.NoError(t, err)
	args := readArgs(t, logFile)
	assert.Contains(t, args, "-filter_complex_script")
	assert.NotContains(t, args, "-filter_complex")

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "filter script removed")
}

func TestSplice_Failures(t *testing.T) {
	ok := fakebin.Write(t, "ffmpeg", writeOutput)

	t.Run("empty_intervals", func(t *testing.T) {
		s := NewFFmpegSplicer(Options{FFmpegPath: ok, SupportedFormats: testFormats}, nil, nil)
		_, err := s.Splice(context.Background(), newSource(t), nil, "", "mp4", nil)
		assert.ErrorIs(t, err, apperrors.ErrSpliceFailed)
	})

	t.Run("zero_length_interval", func(t *testing.T) {
		s := NewFFmpegSplicer(Options{FFmpegPath: ok, SupportedFormats: testFormats}, nil, nil)
		_, err := s.Splice(context.Background(), newSource(t), []model.CutInterval{{Start: 1, End: 1}}, "", "mp4", nil)
		assert.ErrorIs(t, err, apperrors.ErrSpliceFailed)
	})

	t.Run("unsupported_format", func(t *testing.T) {
		s := NewFFmpegSplicer(Options{FFmpegPath: ok, SupportedFormats: testFormats}, nil, nil)
		_, err := s.Splice(context.Background(), newSource(t), []model.CutInterval{{Start: 0, End: 1}}, filepath.Join(t.TempDir(), "out.mp3"), "mp3", nil)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	})

	t.Run("missing_source", func(t *testing.T) {
		s := NewFFmpegSplicer(Options{FFmpegPath: ok, SupportedFormats: testFormats}, nil, nil)
		_, err := s.Splice(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"), []model.CutInterval{{Start: 0, End: 1}}, "", "mp4", nil)
		assert.ErrorIs(t, err, apperrors.ErrSpliceFailed)
		assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	})

	t.Run("would_overwrite_source", func(t *testing.T) {
		source := newSource(t)
		s := NewFFmpegSplicer(Options{FFmpegPath: ok, SupportedFormats: testFormats}, nil, nil)
		_, err := s.Splice(context.Background(), source, []model.CutInterval{{Start: 0, End: 1}}, source, "mp4", nil)
		assert.ErrorIs(t, err, apperrors.ErrSpliceFailed)
	})

	t.Run("probe_fails", func(t *testing.T) {
		s := NewFFmpegSplicer(Options{FFmpegPath: ok, SupportedFormats: testFormats}, stubProber{err: errors.New("no ffprobe")}, nil)
		_, err := s.Splice(context.Background(), newSource(t), []model.CutInterval{{Start: 0, End: 1}}, "", "mp4", nil)
		assert.ErrorIs(t, err, apperrors.ErrSpliceFailed)
	})

	t.Run("ffmpeg_exits_nonzero", func(t *testing.T) {
		broken := fakebin.Write(t, "ffmpeg", `for last in "$@"; do :; done
printf 'half' > "$last"
echo "Error while filtering" >&2
exit 1`)
		s := NewFFmpegSplicer(Options{FFmpegPath: broken, SupportedFormats: testFormats}, nil, nil)
		outDir := t.TempDir()
		out := filepath.Join(outDir, "out.mp4")

		_, err := s.Splice(context.Background(), newSource(t), []model.CutInterval{{Start: 0, End: 1}}, out, "mp4", nil)

		require.ErrorIs(t, err, apperrors.ErrSpliceFailed)
		assert.Contains(t, err.Error(), "Error while filtering")
		assert.NoFileExists(t, out)
		assertNoTempFiles(t, outDir)
	})

	t.Run("cancelled", func(t *testing.T) {
		slow := fakebin.Write(t, "ffmpeg", "exec sleep 5")
		s := NewFFmpegSplicer(Options{FFmpegPath: slow, SupportedFormats: testFormats}, nil, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := s.Splice(ctx, newSource(t), []model.CutInterval{{Start: 0, End: 1}}, filepath.Join(t.TempDir(), "out.mp4"), "mp4", nil)

		assert.ErrorIs(t, err, apperrors.ErrSpliceFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSplice_DefaultOutputPath(t *testing.T) {
	ffmpeg := fakebin.Write(t, "ffmpeg", writeOutput)
	s := NewFFmpegSplicer(Options{FFmpegPath: ffmpeg, SupportedFormats: testFormats}, nil, nil)
	source := newSource(t)

	got, err := s.Splice(context.Background(), source, []model.CutInterval{{Start: 0, End: 1}}, "", "mp4", nil)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(source), "talk_trimmed.mp4"), got)
}

func TestFilterGraph(t *testing.T) {
	intervals := []model.CutInterval{{Start: 0, End: 2}, {Start: 3.25, End: 6}}

	assert.Equal(t,
		"[0:v]trim=start=0.000000:end=2.000000,setpts=PTS-STARTPTS[v0];"+
			"[0:a]atrim=start=0.000000:end=2.000000,asetpts=PTS-STARTPTS[a0];"+
			"[0:v]trim=start=3.250000:end=6.000000,setpts=PTS-STARTPTS[v1];"+
			"[0:a]atrim=start=3.250000:end=6.000000,asetpts=PTS-STARTPTS[a1];"+
			"[v0][a0][v1][a1]concat=n=2:v=1:a=1[outv][outa]",
		FilterGraph(intervals, true))

	assert.Equal(t,
		"[0:v]trim=start=0.000000:end=2.000000,setpts=PTS-STARTPTS[v0];[v0]concat=n=1:v=1:a=0[outv]",
		FilterGraph(intervals[:1], false))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("videos", "talk_trimmed.mp4"), OutputPath(filepath.Join("videos", "talk.mp4"), ""))
	assert.Equal(t, "talk_cut.mov", OutputPath("talk.mov", "_cut"))
	assert.Equal(t, "noext_trimmed", OutputPath("noext", ""))
}

func TestWithFormat(t *testing.T) {
	assert.Equal(t, "out.mp4", withFormat("out.avi", "mp4"))
	assert.Equal(t, "out.MP4", withFormat("out.MP4", "mp4"))
	assert.Equal(t, "out.mkv", withFormat("out", ".mkv"))
	assert.Equal(t, "out.avi", withFormat("out.avi", ""))
}

func TestScanProgress(t *testing.T) {
	input := "out_time_us=N/A\nout_time_us=500000\nout_time_us=250000\nout_time_us=9000000\nprogress=end\n"
	var got []float64
	scanProgress(strings.NewReader(input), 2, func(f float64) { got = append(got, f) })

	assert.Equal(t, []float64{0.25, 1}, got)
}
