package model

import "time"

type RunKind string

const (
	RunKindTranscribe RunKind = "transcribe"
	RunKindSplice     RunKind = "splice"
)

// Run is one recorded transcription or splice job
type Run struct {
	ID             string    `json:"id"`
	Kind           RunKind   `json:"kind"`
	SourcePath     string    `json:"source_path"`
	SourceHash     string    `json:"source_hash,omitempty"`
	SourceSize     int64     `json:"source_size,omitempty"` // bytes
	OutputPath     string    `json:"output_path,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	SegmentCount   int       `json:"segment_count"`
	FillerCount    int       `json:"filler_count"`
	SourceDuration float64   `json:"source_duration"`
	KeptDuration   float64   `json:"kept_duration"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	HasError       int       `json:"has_error"` // 0 or 1
	ErrorMessage   string    `json:"error_message"`
}
