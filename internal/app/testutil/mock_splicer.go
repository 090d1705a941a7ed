package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"videotextcut/internal/app/model"
	"videotextcut/internal/app/splicer"
)

// MockSplicer implements splicer.Splicer. Block, when set, is waited on
// before returning so tests can observe an in-flight splice.
type MockSplicer struct {
	mock.Mock
	Block chan struct{}
}

var _ splicer.Splicer = (*MockSplicer)(nil)

func (m *MockSplicer) Splice(ctx context.Context, source string, intervals []model.CutInterval, outputPath, outputFormat string, onProgress func(float64)) (string, error) {
	args := m.Called(ctx, source, intervals, outputPath, outputFormat)
	if onProgress != nil {
		onProgress(0.5)
	}
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return args.String(0), args.Error(1)
}
