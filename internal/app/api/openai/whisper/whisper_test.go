package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"videotextcut/internal/app/api/provider"
	"videotextcut/internal/app/config"
	openaiclient "videotextcut/internal/app/api/openai"
)

const verboseJSON = `{
  "task": "transcribe",
  "language": "english",
  "duration": 6.5,
  "text": " Hello. Um. World.",
  "segments": [
    {"id": 0, "start": 0.0, "end": 2.0, "text": " Hello.", "avg_logprob": -0.1},
    {"id": 1, "start": 2.0, "end": 3.0, "text": " Um.", "avg_logprob": -0.7},
    {"id": 2, "start": 3.0, "end": 6.0, "text": " World.", "avg_logprob": 0.2}
  ],
  "words": [
    {"word": "Hello", "start": 0.1, "end": 0.9},
    {"word": "Um", "start": 2.1, "end": 2.6},
    {"word": "World", "start": 3.2, "end": 4.0}
  ]
}`

type fakeExtractor struct {
	calls int
	dir   string
}

func (f *fakeExtractor) ExtractWav16k(ctx context.Context, inputPath, outDir string) (string, error) {
	f.calls++
	f.dir = outDir
	path := filepath.Join(outDir, "audio_16khz.wav")
	return path, os.WriteFile(path, []byte("RIFF"), 0644)
}

type capturedRequest struct {
	path string
	form url.Values
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		captured.path = r.URL.Path
		captured.form = r.MultipartForm.Value
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func mediaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video"), 0644))
	return path
}

func TestRemoteTranscriber_TranscriptWithOptions(t *testing.T) {
	server, captured := newServer(t, http.StatusOK, verboseJSON)
	client := openaiclient.NewClient("sk-test-1234567890abcdef", server.URL+"/v1")
	extractor := &fakeExtractor{}
	tempDir := t.TempDir()
	rt := NewRemoteTranscriber(client, OpenAIProviderConfig{Language: "en", TempDir: tempDir}, extractor, zap.NewNop())

	var progress []float64
	resp, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: mediaFile(t),
		OnProgress:    func(f float64) { progress = append(progress, f) },
	})

	require.NoError(t, err)
	assert.Equal(t, "/v1/audio/transcriptions", captured.path)
	assert.Equal(t, []string{"verbose_json"}, captured.form["response_format"])
	assert.Equal(t, []string{"whisper-1"}, captured.form["model"])
	assert.Equal(t, []string{"en"}, captured.form["language"])

	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, tempDir, extractor.dir)
	assert.NoFileExists(t, filepath.Join(tempDir, "audio_16khz.wav"), "extracted audio is removed")

	assert.Equal(t, "Hello. Um. World.", resp.Text)
	assert.InDelta(t, 6.5, resp.Duration, 1e-9)
	require.Len(t, resp.Segments, 3)
	assert.Equal(t, "Um.", resp.Segments[1].Text)
	assert.InDelta(t, 0.9048, resp.Segments[0].Confidence, 1e-4)
	assert.Equal(t, 1.0, resp.Segments[2].Confidence, "clamped")
	require.Len(t, resp.Segments[1].Words, 1)
	assert.Equal(t, "Um", resp.Segments[1].Words[0].Word)
	assert.Equal(t, []float64{0.1, 1}, progress)
}

func TestRemoteTranscriber_APIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: "authentication_failed"},
		{name: "rate_limited", status: http.StatusTooManyRequests, wantCode: "rate_limit_exceeded"},
		{name: "bad_request", status: http.StatusBadRequest, wantCode: "invalid_file"},
		{name: "server_error", status: http.StatusInternalServerError, wantCode: "api_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newServer(t, tt.status, `{"error": {"message": "nope", "type": "invalid_request_error"}}`)
			rt := NewRemoteTranscriber(openaiclient.NewClient("sk-test-1234567890abcdef", server.URL+"/v1"), OpenAIProviderConfig{}, nil, nil)

			_, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: mediaFile(t)})

			var terr *provider.TranscriptionError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.wantCode, terr.Code)
		})
	}
}

func TestRemoteTranscriber_MissingFile(t *testing.T) {
	rt := NewRemoteTranscriber(openaiclient.NewClient("sk-x", "http://127.0.0.1:1"), OpenAIProviderConfig{}, nil, nil)

	_, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: "/nope/video.mp4"})

	var terr *provider.TranscriptionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "file_not_found", terr.Code)
}

func TestConvertResponse_WordsOutsideSegments(t *testing.T) {
	rt := NewRemoteTranscriber(nil, OpenAIProviderConfig{}, nil, nil)
	assert.Error(t, rt.ValidateConfiguration())

	server, _ := newServer(t, http.StatusOK, `{
	  "text": "a b",
	  "segments": [{"start": 1, "end": 2, "text": "a"}, {"start": 5, "end": 6, "text": "b"}],
	  "words": [{"word": "x", "start": 0.2, "end": 0.4}, {"word": "a", "start": 1.1, "end": 1.5},
	            {"word": "y", "start": 3, "end": 3.5}, {"word": "b", "start": 5.2, "end": 5.8},
	            {"word": "z", "start": 7, "end": 7.5}]
	}`)
	rt = NewRemoteTranscriber(openaiclient.NewClient("sk-test-1234567890abcdef", server.URL+"/v1"), OpenAIProviderConfig{}, nil, nil)

	resp, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: mediaFile(t)})

	require.NoError(t, err)
	require.Len(t, resp.Segments, 2)
	require.Len(t, resp.Segments[0].Words, 1)
	assert.Equal(t, "a", resp.Segments[0].Words[0].Word)
	require.Len(t, resp.Segments[1].Words, 1)
	assert.Equal(t, "b", resp.Segments[1].Words[0].Word)
}

func TestGetLanguage(t *testing.T) {
	rt := NewRemoteTranscriber(nil, OpenAIProviderConfig{Language: "auto"}, nil, nil)
	assert.Equal(t, "", rt.getLanguage(&provider.TranscriptionRequest{}))
	assert.Equal(t, "fr", rt.getLanguage(&provider.TranscriptionRequest{Language: "fr"}))
}

func TestCreateOpenAIProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = providerName

	cfg.OpenAI.APIKey = ""
	_, err := provider.New(cfg, nil)
	assert.Error(t, err, "api key is required")

	cfg.OpenAI.APIKey = "sk-test-1234567890abcdef"
	cfg.OpenAI.BaseURL = "ftp://nope"
	_, err = provider.New(cfg, nil)
	assert.Error(t, err)

	cfg.OpenAI.BaseURL = ""
	p, err := provider.New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, provider.ProviderTypeRemote, p.GetProviderInfo().Type)
	assert.NoError(t, p.ValidateConfiguration())
}
