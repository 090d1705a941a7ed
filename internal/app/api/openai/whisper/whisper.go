package whisper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"videotextcut/internal/app/api/provider"
	"videotextcut/internal/app/common"
)

const (
	providerName  = "openai"
	maxFileSizeMB = 25
)

// AudioExtractor produces an upload-sized audio file from a video
type AudioExtractor interface {
	ExtractWav16k(ctx context.Context, inputPath, outDir string) (string, error)
}

// OpenAIProviderConfig represents configuration specific to OpenAI Whisper provider
type OpenAIProviderConfig struct {
	Model    string
	Language string
	Prompt   string
	TempDir  string
}

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client    *openai.Client
	config    OpenAIProviderConfig
	extractor AudioExtractor
	logger    *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, config OpenAIProviderConfig, extractor AudioExtractor, logger *zap.Logger) *RemoteTranscriber {
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	return &RemoteTranscriber{
		client:    client,
		config:    config,
		extractor: extractor,
		logger:    common.OrNop(logger),
	}
}

// TranscriptWithOptions uploads the audio track and requests verbose JSON
// with segment and word timestamps.
func (rt *RemoteTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{Code: "invalid_input", Message: "input file path is required", Provider: providerName}
	}
	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, &provider.TranscriptionError{Code: "file_not_found", Message: "input file not found: " + request.InputFilePath, Provider: providerName, Cause: err}
	}

	uploadPath := request.InputFilePath
	if rt.extractor != nil {
		tempDir := rt.config.TempDir
		if request.TempDir != "" {
			tempDir = request.TempDir
		}
		wav, err := rt.extractor.ExtractWav16k(ctx, request.InputFilePath, tempDir)
		if err != nil {
			return nil, &provider.TranscriptionError{Code: "audio_conversion_error", Message: "error extracting audio", Provider: providerName, Cause: err}
		}
		defer os.Remove(wav)
		uploadPath = wav
	}
	request.ReportProgress(0.1)

	if info, err := os.Stat(uploadPath); err == nil && info.Size() > maxFileSizeMB*1024*1024 {
		return nil, &provider.TranscriptionError{
			Code:        "file_too_large",
			Message:     fmt.Sprintf("audio is %d MB, the API accepts at most %d MB", info.Size()/(1024*1024), maxFileSizeMB),
			Provider:    providerName,
			Suggestions: []string{"Use the whisper_cpp provider for long recordings"},
		}
	}

	audioRequest := openai.AudioRequest{
		Model:    rt.getModel(request),
		FilePath: uploadPath,
		Prompt:   rt.getPrompt(request),
		Language: rt.getLanguage(request),
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
			openai.TranscriptionTimestampGranularityWord,
		},
	}

	rt.logger.Info("uploading audio to OpenAI", zap.String("file", uploadPath), zap.String("model", audioRequest.Model))
	resp, err := rt.client.CreateTranscription(ctx, audioRequest)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &provider.TranscriptionError{Code: "cancelled", Message: "transcription interrupted", Provider: providerName, Cause: ctxErr}
		}
		return nil, handleAPIError(err)
	}
	request.ReportProgress(1)

	response := convertResponse(resp)
	response.ProcessingTime = time.Since(startTime)
	response.ModelUsed = audioRequest.Model
	return response, nil
}

func convertResponse(resp openai.AudioResponse) *provider.TranscriptionResponse {
	out := &provider.TranscriptionResponse{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: resp.Duration,
	}

	for _, s := range resp.Segments {
		out.Segments = append(out.Segments, provider.TranscriptionSegment{
			Text:       strings.TrimSpace(s.Text),
			Start:      s.Start,
			End:        s.End,
			Confidence: confidence(s.AvgLogprob),
		})
	}

	// words come back as one flat list; hand each to the segment it starts in
	si := 0
	for _, w := range resp.Words {
		for si < len(out.Segments) && w.Start >= out.Segments[si].End {
			si++
		}
		if si == len(out.Segments) {
			break
		}
		if w.Start < out.Segments[si].Start {
			continue
		}
		out.Segments[si].Words = append(out.Segments[si].Words, provider.TranscriptionWord{
			Word:  strings.TrimSpace(w.Word),
			Start: w.Start,
			End:   w.End,
		})
	}
	return out
}

// confidence maps an average token log-probability to [0, 1]
func confidence(avgLogprob float64) float64 {
	c := math.Exp(avgLogprob)
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

func (rt *RemoteTranscriber) getModel(request *provider.TranscriptionRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return rt.config.Model
}

func (rt *RemoteTranscriber) getLanguage(request *provider.TranscriptionRequest) string {
	language := rt.config.Language
	if request.Language != "" {
		language = request.Language
	}
	if language == "auto" {
		return ""
	}
	return language
}

func (rt *RemoteTranscriber) getPrompt(request *provider.TranscriptionRequest) string {
	if request.Prompt != "" {
		return request.Prompt
	}
	return rt.config.Prompt
}

// handleAPIError converts OpenAI API errors to TranscriptionError
func handleAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return &provider.TranscriptionError{
				Code:        "authentication_failed",
				Message:     "OpenAI API key is invalid or missing",
				Provider:    providerName,
				Suggestions: []string{"Check your OPENAI_API_KEY environment variable"},
				Cause:       err,
			}
		case http.StatusTooManyRequests:
			return &provider.TranscriptionError{
				Code:        "rate_limit_exceeded",
				Message:     "OpenAI API rate limit exceeded",
				Provider:    providerName,
				Suggestions: []string{"Wait a moment and try again"},
				Cause:       err,
			}
		case http.StatusRequestEntityTooLarge:
			return &provider.TranscriptionError{Code: "file_too_large", Message: "Audio file is too large for OpenAI API", Provider: providerName, Cause: err}
		case http.StatusBadRequest:
			return &provider.TranscriptionError{Code: "invalid_file", Message: "Invalid audio file format or corrupted file", Provider: providerName, Cause: err}
		default:
			return &provider.TranscriptionError{Code: "api_error", Message: "OpenAI API error", Provider: providerName, Cause: err}
		}
	}

	return &provider.TranscriptionError{Code: "unknown_error", Message: "transcription request failed", Provider: providerName, Cause: err}
}

// GetProviderInfo returns metadata about the OpenAI provider
func (rt *RemoteTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:               providerName,
		DisplayName:        "OpenAI Whisper API",
		Type:               provider.ProviderTypeRemote,
		MaxFileSizeMB:      maxFileSizeMB,
		SupportsWordLevel:  true,
		SupportsConfidence: true,
		RequiresInternet:   true,
		RequiresAPIKey:     true,
		DefaultModel:       openai.Whisper1,
	}
}

// ValidateConfiguration validates the provider configuration
func (rt *RemoteTranscriber) ValidateConfiguration() error {
	if rt.client == nil {
		return fmt.Errorf("OpenAI client is not configured")
	}
	return nil
}
