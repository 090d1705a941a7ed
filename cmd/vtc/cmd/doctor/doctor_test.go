package doctor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"videotextcut/internal/app/audio"
	appconfig "videotextcut/internal/app/config"
)

func names(list []check) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.name)
	}
	return out
}

func TestChecks_PerProvider(t *testing.T) {
	tools := audio.NewTools("ffmpeg", "ffprobe", zap.NewNop())

	cfg := appconfig.Default()
	cfg.Database.Driver = "none"
	assert.Equal(t, []string{"ffmpeg", "ffprobe", "whisper.cpp", "whisper model"}, names(checks(cfg, tools)))

	cfg.Provider = "openai"
	cfg.Database.Driver = "sqlite"
	assert.Equal(t, []string{"ffmpeg", "ffprobe", "openai api key", "history database"}, names(checks(cfg, tools)))
}

func TestChecks_OpenAIKey(t *testing.T) {
	cfg := appconfig.Default()
	cfg.Provider = "openai"
	cfg.Database.Driver = "none"
	cfg.OpenAI.APIKey = "bogus"

	list := checks(cfg, audio.NewTools("ffmpeg", "ffprobe", zap.NewNop()))
	require.Len(t, list, 3)

	_, err := list[2].run(nil)
	assert.Error(t, err)

	cfg.OpenAI.APIKey = "sk-0123456789abcdefghij"
	list = checks(cfg, audio.NewTools("ffmpeg", "ffprobe", zap.NewNop()))
	detail, err := list[2].run(nil)
	require.NoError(t, err)
	assert.Equal(t, "set", detail)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, report(&buf, "ffmpeg", "/usr/bin/ffmpeg", nil))
	assert.False(t, report(&buf, "ffprobe", "", errors.New("not found")))

	assert.Contains(t, buf.String(), "✓ ffmpeg")
	assert.Contains(t, buf.String(), "✗ ffprobe")
	assert.Contains(t, buf.String(), "not found")
}
