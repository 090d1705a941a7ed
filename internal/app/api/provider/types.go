package provider

import (
	"time"
)

// ProviderType defines the type of transcription provider
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// TranscriptionRequest represents a transcription request
type TranscriptionRequest struct {
	InputFilePath string `json:"input_file_path"`

	Language string `json:"language,omitempty"` // "en", "auto", etc.
	Model    string `json:"model,omitempty"`    // provider-specific model id
	Prompt   string `json:"prompt,omitempty"`

	// TempDir receives intermediate files; "" means the provider default
	TempDir string `json:"-"`

	// OnProgress, when set, receives the completed fraction in [0, 1]
	OnProgress func(fraction float64) `json:"-"`
}

// ReportProgress calls OnProgress when it is set
func (r *TranscriptionRequest) ReportProgress(fraction float64) {
	if r.OnProgress == nil {
		return
	}
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	r.OnProgress(fraction)
}

// TranscriptionResponse represents the response from a transcription provider
type TranscriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"` // seconds, 0 when the engine doesn't report it

	Segments []TranscriptionSegment `json:"segments,omitempty"`

	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
}

// TranscriptionSegment represents a time-segmented piece of transcription
type TranscriptionSegment struct {
	Text       string              `json:"text"`
	Start      float64             `json:"start"` // seconds
	End        float64             `json:"end"`   // seconds
	Confidence float64             `json:"confidence"`
	Words      []TranscriptionWord `json:"words,omitempty"`
}

// TranscriptionWord represents a single word with timing information
type TranscriptionWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability,omitempty"`
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Type        ProviderType `json:"type"`

	MaxFileSizeMB int `json:"max_file_size_mb,omitempty"` // 0 means no limit

	SupportsWordLevel  bool `json:"supports_word_level"`
	SupportsConfidence bool `json:"supports_confidence"`

	RequiresInternet bool `json:"requires_internet"`
	RequiresAPIKey   bool `json:"requires_api_key"`
	RequiresBinary   bool `json:"requires_binary"`

	DefaultModel string `json:"default_model,omitempty"`
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Provider    string   `json:"provider"`
	Suggestions []string `json:"suggestions,omitempty"`
	Cause       error    `json:"-"`
}

func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}
