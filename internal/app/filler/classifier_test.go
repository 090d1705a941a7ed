package filler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videotextcut/internal/app/model"
)

var defaultWords = []string{"uh", "um", "uhm", "er", "ah", "like", "you know", "so", "well", "actually"}

func TestNewFillerSet(t *testing.T) {
	set := NewFillerSet([]string{"  Um ", "you   KNOW", "", "um", "\t"})

	assert.Equal(t, []string{"um", "you know"}, set.Phrases())
	assert.Equal(t, 2, set.Len())
}

func TestClassify(t *testing.T) {
	words := NewFillerSet(defaultWords)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "exact", text: "um", want: true},
		{name: "case_insensitive_with_punctuation", text: "Um, I think so.", want: true},
		{name: "embedded_in_longer_word", text: "umm hello", want: false},
		{name: "substring_of_word", text: "summer drum", want: false},
		{name: "multi_word_phrase", text: "it was, You Know, fine", want: true},
		{name: "partial_phrase", text: "you never know", want: false},
		{name: "empty", text: "", want: false},
		{name: "whitespace_only", text: "   ", want: false},
		{name: "content", text: "the quick brown fox", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := &model.Segment{ID: 7, StartTime: 1, EndTime: 2, Text: tt.text}
			assert.Equal(t, tt.want, Classify(seg, words))
			assert.Equal(t, tt.want, seg.IsFiller)
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	words := NewFillerSet([]string{"um"})
	seg := &model.Segment{ID: 3, StartTime: 4.5, EndTime: 5.25, Text: "um so", IsDeleted: true, Confidence: 0.7}

	first := Classify(seg, words)
	second := Classify(seg, words)

	assert.Equal(t, first, second)
	assert.True(t, seg.IsFiller)
	assert.Equal(t, 3, seg.ID)
	assert.Equal(t, 4.5, seg.StartTime)
	assert.Equal(t, 5.25, seg.EndTime)
	assert.Equal(t, "um so", seg.Text)
	assert.True(t, seg.IsDeleted, "deleted flag is user owned")
	assert.Equal(t, 0.7, seg.Confidence)
}

func TestClassify_ClearsStaleFlag(t *testing.T) {
	seg := &model.Segment{Text: "hello there", IsFiller: true}
	assert.False(t, Classify(seg, NewFillerSet([]string{"um"})))
	assert.False(t, seg.IsFiller)
}

func TestClassify_EmptySet(t *testing.T) {
	seg := &model.Segment{Text: "um"}
	assert.False(t, Classify(seg, NewFillerSet(nil)))
}

func TestClassifyAll(t *testing.T) {
	tr := &model.TranscriptData{
		Segments: []*model.Segment{
			{ID: 0, StartTime: 0, EndTime: 2, Text: "hello"},
			{ID: 1, StartTime: 2, EndTime: 3, Text: "um"},
			{ID: 2, StartTime: 3, EndTime: 6, Text: "world"},
			{ID: 3, StartTime: 6, EndTime: 7, Text: "uh, you know"},
		},
		Duration: 7,
	}

	count := ClassifyAll(tr, NewFillerSet(defaultWords))

	require.Equal(t, 2, count)
	assert.False(t, tr.Segments[0].IsFiller)
	assert.True(t, tr.Segments[1].IsFiller)
	assert.False(t, tr.Segments[2].IsFiller)
	assert.True(t, tr.Segments[3].IsFiller)
}

func TestMatchPhrases(t *testing.T) {
	words := NewFillerSet(defaultWords)

	assert.Equal(t, []string{"uh", "you know"}, MatchPhrases("Uh... you know?", words))
	assert.Nil(t, MatchPhrases("", words))
	assert.Empty(t, MatchPhrases("don't stop", words))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don't", "stop", "it's", "2024"}, tokenize("Don't STOP -- 'it's' 2024!"))
	assert.Empty(t, tokenize("..."))
}
