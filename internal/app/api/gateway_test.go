package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"videotextcut/internal/app/api/provider"
	apperrors "videotextcut/internal/app/errors"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) TranscriptWithOptions(ctx context.Context, req *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*provider.TranscriptionResponse)
	return resp, args.Error(1)
}

func (m *mockProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{Name: "mock", DisplayName: "Mock", Type: provider.ProviderTypeLocal}
}

func (m *mockProvider) ValidateConfiguration() error { return nil }

type fixedProber struct {
	duration float64
	err      error
}

func (p fixedProber) GetMediaDuration(context.Context, string) (float64, error) {
	return p.duration, p.err
}

func writeMedia(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0644))
	return path
}

var testOpts = GatewayOptions{SupportedFormats: []string{".mp4", ".MOV"}, Language: "en"}

func TestGateway_NormalizesSegments(t *testing.T) {
	media := writeMedia(t, "talk.mp4")
	p := &mockProvider{}
	p.On("TranscriptWithOptions", mock.Anything, mock.MatchedBy(func(req *provider.TranscriptionRequest) bool {
		return req.InputFilePath == media && req.Language == "en"
	})).Return(&provider.TranscriptionResponse{
		Segments: []provider.TranscriptionSegment{
			{Text: "  hello there ", Start: -0.2, End: 1.5, Confidence: 0.9},
			{Text: "   ", Start: 1.5, End: 2.0},
			{Text: "um", Start: 1.4, End: 2.2, Confidence: 1.7},
			{Text: "gone", Start: 2.2, End: 2.1},
			{Text: "world", Start: 2.5, End: 4.0, Words: []provider.TranscriptionWord{{Word: "world", Start: 2.5, End: 4.0, Probability: 0.8}}},
		},
	}, nil)

	g := NewGateway(p, fixedProber{duration: 5}, testOpts, nil)
	tr, err := g.Transcribe(context.Background(), media, nil)

	require.NoError(t, err)
	require.Len(t, tr.Segments, 3)
	assert.Equal(t, 5.0, tr.Duration)
	assert.Equal(t, media, tr.SourcePath)

	first, second, third := tr.Segments[0], tr.Segments[1], tr.Segments[2]
	assert.Equal(t, 0, first.ID)
	assert.Equal(t, "hello there", first.Text)
	assert.Equal(t, 0.0, first.StartTime)

	assert.Equal(t, 1, second.ID)
	assert.Equal(t, 1.5, second.StartTime, "overlap clamped to previous end")
	assert.Equal(t, 1.0, second.Confidence)

	assert.Equal(t, 2, third.ID)
	require.Len(t, third.Words, 1)
	assert.Equal(t, 0.8, third.Words[0].Confidence)
	p.AssertExpectations(t)
}

func TestGateway_DurationCoversLastSegment(t *testing.T) {
	media := writeMedia(t, "talk.mp4")
	p := &mockProvider{}
	p.On("TranscriptWithOptions", mock.Anything, mock.Anything).Return(&provider.TranscriptionResponse{
		Duration: 3,
		Segments: []provider.TranscriptionSegment{{Text: "a", Start: 0, End: 6}},
	}, nil)

	tests := []struct {
		name   string
		prober DurationProber
		want   float64
	}{
		{name: "probe_shorter_than_segments", prober: fixedProber{duration: 5.5}, want: 6},
		{name: "probe_fails", prober: fixedProber{err: errors.New("ffprobe missing")}, want: 6},
		{name: "no_prober", prober: nil, want: 6},
		{name: "probe_longer", prober: fixedProber{duration: 9}, want: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewGateway(p, tt.prober, testOpts, nil).Transcribe(context.Background(), media, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Duration)
		})
	}
}

func TestGateway_EmptyTranscriptUsesProbedDuration(t *testing.T) {
	media := writeMedia(t, "silent.mov")
	p := &mockProvider{}
	p.On("TranscriptWithOptions", mock.Anything, mock.Anything).Return(&provider.TranscriptionResponse{}, nil)

	tr, err := NewGateway(p, fixedProber{duration: 12}, testOpts, nil).Transcribe(context.Background(), media, nil)

	require.NoError(t, err)
	assert.Empty(t, tr.Segments)
	assert.Equal(t, 12.0, tr.Duration)
}

func TestGateway_Errors(t *testing.T) {
	t.Run("unsupported_extension", func(t *testing.T) {
		p := &mockProvider{}
		_, err := NewGateway(p, nil, testOpts, nil).Transcribe(context.Background(), writeMedia(t, "song.mp3"), nil)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
		p.AssertNotCalled(t, "TranscriptWithOptions", mock.Anything, mock.Anything)
	})

	t.Run("missing_file", func(t *testing.T) {
		p := &mockProvider{}
		_, err := NewGateway(p, nil, testOpts, nil).Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), nil)
		assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
		assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
	})

	t.Run("engine_failure", func(t *testing.T) {
		engineErr := &provider.TranscriptionError{Code: "boom", Message: "engine crashed", Provider: "mock"}
		p := &mockProvider{}
		p.On("TranscriptWithOptions", mock.Anything, mock.Anything).Return(nil, engineErr)

		_, err := NewGateway(p, nil, testOpts, nil).Transcribe(context.Background(), writeMedia(t, "a.mp4"), nil)

		assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
		var te *provider.TranscriptionError
		assert.ErrorAs(t, err, &te)
	})

	t.Run("unknown_duration", func(t *testing.T) {
		p := &mockProvider{}
		p.On("TranscriptWithOptions", mock.Anything, mock.Anything).Return(&provider.TranscriptionResponse{}, nil)

		_, err := NewGateway(p, fixedProber{err: errors.New("no probe")}, testOpts, nil).Transcribe(context.Background(), writeMedia(t, "a.mp4"), nil)
		assert.ErrorIs(t, err, apperrors.ErrTranscriptionFailed)
	})
}

func TestGateway_ForwardsProgress(t *testing.T) {
	media := writeMedia(t, "talk.mp4")
	p := &mockProvider{}
	p.On("TranscriptWithOptions", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(*provider.TranscriptionRequest)
			req.ReportProgress(0.5)
			req.ReportProgress(2)
		}).
		Return(&provider.TranscriptionResponse{Segments: []provider.TranscriptionSegment{{Text: "a", Start: 0, End: 1}}}, nil)

	var seen []float64
	_, err := NewGateway(p, nil, testOpts, nil).Transcribe(context.Background(), media, func(f float64) {
		seen = append(seen, f)
	})

	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1}, seen)
}

func TestGateway_ExtensionCaseInsensitive(t *testing.T) {
	p := &mockProvider{}
	p.On("TranscriptWithOptions", mock.Anything, mock.Anything).Return(&provider.TranscriptionResponse{}, nil)

	_, err := NewGateway(p, fixedProber{duration: 1}, testOpts, nil).Transcribe(context.Background(), writeMedia(t, "clip.mov"), nil)
	assert.NoError(t, err)
}
