package api

import (
	"context"

	"videotextcut/internal/app/model"
)

// ProgressFunc receives the completed fraction of a long-running call, in [0, 1]
type ProgressFunc func(fraction float64)

// Transcriber turns a media file into a validated transcript with stable
// segment ids. Implementations block until done or ctx is cancelled.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string, onProgress ProgressFunc) (*model.TranscriptData, error)
}
