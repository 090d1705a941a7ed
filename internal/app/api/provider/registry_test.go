package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"videotextcut/internal/app/config"
	apperrors "videotextcut/internal/app/errors"
)

type stubProvider struct {
	name string
}

func (s *stubProvider) TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error) {
	return &TranscriptionResponse{Text: "stub"}, nil
}

func (s *stubProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{Name: s.name, Type: ProviderTypeLocal}
}

func (s *stubProvider) ValidateConfiguration() error { return nil }

func TestRegistry(t *testing.T) {
	RegisterProvider("stub_b", func(cfg config.AppConfig, logger *zap.Logger) (TranscriptionProvider, error) {
		return &stubProvider{name: "stub_b"}, nil
	})
	RegisterProvider("stub_a", func(cfg config.AppConfig, logger *zap.Logger) (TranscriptionProvider, error) {
		return &stubProvider{name: cfg.ModelIdentifier}, nil
	})

	names := ListRegisteredProviders()
	assert.Subset(t, names, []string{"stub_a", "stub_b"})
	assert.IsIncreasing(t, names)

	cfg := config.Default()
	cfg.Provider = "stub_a"
	cfg.ModelIdentifier = "tiny"
	p, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "tiny", p.GetProviderInfo().Name)
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := GetProviderCreator("does_not_exist")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderNotFound)
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestReportProgress(t *testing.T) {
	var got []float64
	req := &TranscriptionRequest{OnProgress: func(f float64) { got = append(got, f) }}

	req.ReportProgress(-1)
	req.ReportProgress(0.5)
	req.ReportProgress(3)
	(&TranscriptionRequest{}).ReportProgress(0.5)

	assert.Equal(t, []float64{0, 0.5, 1}, got)
}

func TestTranscriptionError(t *testing.T) {
	cause := context.Canceled
	err := &TranscriptionError{Code: "timeout", Message: "engine stopped", Provider: "whisper_cpp", Cause: cause}

	assert.Equal(t, "whisper_cpp: engine stopped: context canceled", err.Error())
	assert.ErrorIs(t, err, context.Canceled)
}
