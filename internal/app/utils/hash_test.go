package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0644))

	h, err := CalculateFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", h)

	short, err := ShortHash(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01", short)

	size, err := GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}

func TestCalculateFileHash_Missing(t *testing.T) {
	_, err := CalculateFileHash(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
