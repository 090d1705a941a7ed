package whisper_cpp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"videotextcut/internal/app/api/provider"
	"videotextcut/internal/app/audio"
	"videotextcut/internal/app/common"
)

const providerName = "whisper_cpp"

var progressRe = regexp.MustCompile(`progress\s*=\s*(\d+)%`)

// LocalProviderConfig represents configuration specific to the local whisper.cpp provider
type LocalProviderConfig struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Prompt     string
	Threads    int
	TempDir    string
}

// LocalTranscriber runs a whisper.cpp binary and reads its full JSON output.
type LocalTranscriber struct {
	config LocalProviderConfig
	tools  *audio.Tools
	logger *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(config LocalProviderConfig, tools *audio.Tools, logger *zap.Logger) *LocalTranscriber {
	if config.Language == "" {
		config.Language = "auto"
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if tools == nil {
		tools = audio.NewTools("", "", logger)
	}
	return &LocalTranscriber{
		config: config,
		tools:  tools,
		logger: common.OrNop(logger),
	}
}

// TranscriptWithOptions extracts 16 kHz mono audio when needed, runs
// whisper.cpp with JSON output and maps its segments.
func (lt *LocalTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{Code: "invalid_input", Message: "input file path is required", Provider: providerName}
	}
	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, &provider.TranscriptionError{Code: "file_not_found", Message: "input file not found: " + request.InputFilePath, Provider: providerName, Cause: err}
	}

	tempRoot := lt.config.TempDir
	if request.TempDir != "" {
		tempRoot = request.TempDir
	}
	if err := os.MkdirAll(tempRoot, 0755); err != nil {
		return nil, &provider.TranscriptionError{Code: "temp_dir_error", Message: "failed to create temp directory", Provider: providerName, Cause: err}
	}
	workDir, err := os.MkdirTemp(tempRoot, "vtc-whisper-*")
	if err != nil {
		return nil, &provider.TranscriptionError{Code: "temp_dir_error", Message: "failed to create work directory", Provider: providerName, Cause: err}
	}
	defer os.RemoveAll(workDir)

	wavPath := request.InputFilePath
	is16k, err := lt.tools.Is16kHzMonoWav(ctx, request.InputFilePath)
	if err != nil {
		return nil, &provider.TranscriptionError{Code: "audio_check_error", Message: "error checking input file", Provider: providerName, Cause: err}
	}
	if !is16k {
		lt.logger.Info("extracting audio for whisper.cpp", zap.String("input", request.InputFilePath))
		wavPath, err = lt.tools.ExtractWav16k(ctx, request.InputFilePath, workDir)
		if err != nil {
			return nil, &provider.TranscriptionError{Code: "audio_conversion_error", Message: "error converting input file", Provider: providerName, Cause: err}
		}
	}

	language := lt.config.Language
	if request.Language != "" {
		language = request.Language
	}
	prompt := lt.config.Prompt
	if request.Prompt != "" {
		prompt = request.Prompt
	}

	outputBase := filepath.Join(workDir, "transcript")
	args := []string{
		"-m", lt.config.ModelPath,
		"-l", language,
		"-ojf",
		"-of", outputBase,
		"-pp",
		"-f", wavPath,
	}
	if prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	if lt.config.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.config.Threads))
	}

	if err := lt.run(ctx, args, request); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outputBase + ".json")
	if err != nil {
		return nil, &provider.TranscriptionError{Code: "output_missing", Message: "failed to read whisper.cpp output", Provider: providerName, Cause: err}
	}
	out, err := parseOutput(data)
	if err != nil {
		return nil, &provider.TranscriptionError{Code: "output_invalid", Message: "failed to parse whisper.cpp output", Provider: providerName, Cause: err}
	}

	request.ReportProgress(1)
	response := out.toResponse()
	response.ProcessingTime = time.Since(startTime)
	response.ModelUsed = lt.config.ModelPath
	if response.Language == "" {
		response.Language = language
	}

	lt.logger.Info("whisper.cpp transcription finished",
		zap.String("input", request.InputFilePath),
		zap.Int("segments", len(response.Segments)),
		zap.Duration("elapsed", response.ProcessingTime))
	return response, nil
}

// run executes whisper.cpp, forwarding "progress = N%" lines from stderr
func (lt *LocalTranscriber) run(ctx context.Context, args []string, request *provider.TranscriptionRequest) error {
	cmd := exec.CommandContext(ctx, lt.config.BinaryPath, args...)
	cmd.Stdout = io.Discard
	cmd.WaitDelay = 2 * time.Second
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &provider.TranscriptionError{Code: "exec_error", Message: "failed to attach to whisper.cpp", Provider: providerName, Cause: err}
	}

	lt.logger.Debug("running whisper.cpp", zap.String("binary", lt.config.BinaryPath), zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		return &provider.TranscriptionError{
			Code:        "binary_not_found",
			Message:     "failed to start whisper.cpp",
			Provider:    providerName,
			Suggestions: []string{"Set whisper_cpp.binary_path or WHISPER_CPP_BINARY"},
			Cause:       err,
		}
	}

	tail := scanProgress(stderr, request.ReportProgress)

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &provider.TranscriptionError{Code: "cancelled", Message: "transcription interrupted", Provider: providerName, Cause: ctxErr}
		}
		return &provider.TranscriptionError{
			Code:     "transcription_failed",
			Message:  fmt.Sprintf("whisper.cpp exited with error, stderr: %s", strings.Join(tail, "\n")),
			Provider: providerName,
			Cause:    err,
		}
	}
	return nil
}

// scanProgress reads r to EOF, reporting progress lines and returning the last few lines
func scanProgress(r io.Reader, report func(float64)) []string {
	const keep = 5
	var tail []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := progressRe.FindStringSubmatch(line); m != nil {
			if pct, err := strconv.Atoi(m[1]); err == nil {
				report(float64(pct) / 100)
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		tail = append(tail, line)
		if len(tail) > keep {
			tail = tail[1:]
		}
	}
	return tail
}

// GetProviderInfo returns metadata about the whisper.cpp provider
func (lt *LocalTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:               providerName,
		DisplayName:        "Whisper.cpp (Local)",
		Type:               provider.ProviderTypeLocal,
		SupportsWordLevel:  true,
		SupportsConfidence: true,
		RequiresBinary:     true,
		DefaultModel:       "ggml-base.bin",
	}
}

// ValidateConfiguration validates the provider configuration
func (lt *LocalTranscriber) ValidateConfiguration() error {
	if _, err := exec.LookPath(lt.config.BinaryPath); err != nil {
		return fmt.Errorf("whisper.cpp binary not found at %s: %w", lt.config.BinaryPath, err)
	}
	if _, err := os.Stat(lt.config.ModelPath); err != nil {
		return fmt.Errorf("whisper model not found at %s: %w", lt.config.ModelPath, err)
	}
	return nil
}

// output mirrors the file written by `whisper-cli -ojf`
type output struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets offsets `json:"offsets"`
		Text    string  `json:"text"`
		Tokens  []struct {
			Text    string  `json:"text"`
			Offsets offsets `json:"offsets"`
			P       float64 `json:"p"`
		} `json:"tokens"`
	} `json:"transcription"`
}

// offsets are milliseconds from the start of the audio
type offsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func parseOutput(data []byte) (*output, error) {
	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *output) toResponse() *provider.TranscriptionResponse {
	resp := &provider.TranscriptionResponse{Language: o.Result.Language}
	texts := make([]string, 0, len(o.Transcription))

	for _, tr := range o.Transcription {
		seg := provider.TranscriptionSegment{
			Text:  strings.TrimSpace(tr.Text),
			Start: float64(tr.Offsets.From) / 1000,
			End:   float64(tr.Offsets.To) / 1000,
		}

		var pSum float64
		var pCount int
		var current *provider.TranscriptionWord
		for _, tok := range tr.Tokens {
			// special tokens look like [_BEG_] or [_TT_123]
			if strings.HasPrefix(tok.Text, "[_") {
				continue
			}
			pSum += tok.P
			pCount++

			start := float64(tok.Offsets.From) / 1000
			end := float64(tok.Offsets.To) / 1000
			if current == nil || strings.HasPrefix(tok.Text, " ") {
				seg.Words = append(seg.Words, provider.TranscriptionWord{
					Word: strings.TrimSpace(tok.Text), Start: start, End: end, Probability: tok.P,
				})
				current = &seg.Words[len(seg.Words)-1]
				continue
			}
			current.Word += tok.Text
			current.End = end
			current.Probability = min(current.Probability, tok.P)
		}
		if pCount > 0 {
			seg.Confidence = pSum / float64(pCount)
		}

		resp.Segments = append(resp.Segments, seg)
		if seg.Text != "" {
			texts = append(texts, seg.Text)
		}
	}

	resp.Text = strings.Join(texts, " ")
	if n := len(resp.Segments); n > 0 {
		resp.Duration = resp.Segments[n-1].End
	}
	return resp
}
