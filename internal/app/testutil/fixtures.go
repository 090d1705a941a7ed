package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"videotextcut/internal/app/model"
)

// SampleTranscript is a 10 second talk with two filler segments and a gap
// between 6.0 and 6.5
func SampleTranscript(sourcePath string) *model.TranscriptData {
	return &model.TranscriptData{
		SourcePath: sourcePath,
		Duration:   10,
		Segments: []*model.Segment{
			{ID: 0, StartTime: 0, EndTime: 2, Text: "Welcome to the show", Confidence: 0.95},
			{ID: 1, StartTime: 2, EndTime: 3, Text: "um", Confidence: 0.6},
			{ID: 2, StartTime: 3, EndTime: 6, Text: "today we talk about editing", Confidence: 0.9},
			{ID: 3, StartTime: 6.5, EndTime: 7.5, Text: "you know", Confidence: 0.7},
			{ID: 4, StartTime: 7.5, EndTime: 10, Text: "thanks for watching", Confidence: 0.93},
		},
	}
}

// SampleFillers are the filler words that flag segments 1 and 3 of SampleTranscript
var SampleFillers = []string{"um", "uh", "you know"}

// TouchMedia creates an empty file named name in a temp dir
func TouchMedia(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media"), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	return path
}
