package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, development := range []bool{true, false} {
		logger, err := NewLogger(development, "debug")
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	}

	logger, err := NewLogger(false, "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(false, "chatty")
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	logger := MustNewLogger(true, "warn")
	assert.Same(t, logger, OrNop(logger))
}
