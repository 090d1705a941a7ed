package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"videotextcut/internal/app/api"
	"videotextcut/internal/app/model"
)

// MockTranscriber implements api.Transcriber
type MockTranscriber struct {
	mock.Mock
	Name string
}

var _ api.Transcriber = (*MockTranscriber)(nil)

func (m *MockTranscriber) Transcribe(ctx context.Context, mediaPath string, onProgress api.ProgressFunc) (*model.TranscriptData, error) {
	args := m.Called(ctx, mediaPath, onProgress)
	if onProgress != nil {
		onProgress(1)
	}
	t, _ := args.Get(0).(*model.TranscriptData)
	if t != nil {
		// hand out a copy so callers can't edit the fixture
		t = t.Clone()
	}
	return t, args.Error(1)
}

// ProviderName reports Name, "mock" when empty
func (m *MockTranscriber) ProviderName() string {
	if m.Name == "" {
		return "mock"
	}
	return m.Name
}
