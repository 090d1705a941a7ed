package provider

import (
	"context"
)

// TranscriptionProvider is one speech engine. Implementations return raw
// engine segments; normalization into a transcript happens in the gateway.
type TranscriptionProvider interface {
	// TranscriptWithOptions transcribes request.InputFilePath. It must honor
	// ctx cancellation.
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// GetProviderInfo returns static metadata
	GetProviderInfo() ProviderInfo

	// ValidateConfiguration checks binaries, models or credentials without transcribing
	ValidateConfiguration() error
}
