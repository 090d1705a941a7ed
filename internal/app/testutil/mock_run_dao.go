package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"videotextcut/internal/app/model"
	"videotextcut/internal/app/repository"
)

// MockRunDAO implements repository.RunDAO and keeps every recorded run
type MockRunDAO struct {
	mock.Mock
	mu   sync.Mutex
	Runs []model.Run
}

var _ repository.RunDAO = (*MockRunDAO)(nil)

// NewMockRunDAO accepts any RecordRun and Close call
func NewMockRunDAO() *MockRunDAO {
	m := &MockRunDAO{}
	m.On("RecordRun", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Close").Return(nil).Maybe()
	return m
}

func (m *MockRunDAO) RecordRun(ctx context.Context, run model.Run) error {
	m.mu.Lock()
	m.Runs = append(m.Runs, run)
	m.mu.Unlock()
	return m.Called(ctx, run).Error(0)
}

func (m *MockRunDAO) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]model.Run)
	return runs, args.Error(1)
}

func (m *MockRunDAO) Close() error {
	return m.Called().Error(0)
}

// Recorded returns a copy of the runs seen so far
func (m *MockRunDAO) Recorded() []model.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Run(nil), m.Runs...)
}
