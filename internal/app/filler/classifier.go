// Package filler flags transcript segments that contain configured filler
// words or phrases ("um", "you know", ...).
package filler

import (
	"strings"
	"unicode"

	"videotextcut/internal/app/model"
)

// FillerSet is a normalized, read-only set of filler phrases. Each phrase is
// stored as its lowercase word tokens so multi-word entries match as a whole.
type FillerSet struct {
	phrases [][]string
}

// NewFillerSet normalizes words: lowercase, whitespace collapsed, empties and duplicates dropped
func NewFillerSet(words []string) FillerSet {
	seen := make(map[string]struct{}, len(words))
	set := FillerSet{phrases: make([][]string, 0, len(words))}
	for _, w := range words {
		tokens := tokenize(w)
		if len(tokens) == 0 {
			continue
		}
		key := strings.Join(tokens, " ")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		set.phrases = append(set.phrases, tokens)
	}
	return set
}

// Phrases returns the normalized phrases in insertion order
func (s FillerSet) Phrases() []string {
	out := make([]string, len(s.phrases))
	for i, p := range s.phrases {
		out[i] = strings.Join(p, " ")
	}
	return out
}

func (s FillerSet) Len() int {
	return len(s.phrases)
}

// Classify sets seg.IsFiller to whether any phrase of words occurs in the
// segment text as a whole word (or whole phrase). It touches no other field
// and is idempotent.
func Classify(seg *model.Segment, words FillerSet) bool {
	seg.IsFiller = len(MatchPhrases(seg.Text, words)) > 0
	return seg.IsFiller
}

// ClassifyAll classifies every segment of t and returns how many are filler
func ClassifyAll(t *model.TranscriptData, words FillerSet) int {
	count := 0
	for _, seg := range t.Segments {
		if Classify(seg, words) {
			count++
		}
	}
	return count
}

// MatchPhrases returns the phrases of words found in text, in set order
func MatchPhrases(text string, words FillerSet) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	var matched []string
	for _, phrase := range words.phrases {
		if containsRun(tokens, phrase) {
			matched = append(matched, strings.Join(phrase, " "))
		}
	}
	return matched
}

// containsRun reports whether phrase appears as a contiguous run of tokens
func containsRun(tokens, phrase []string) bool {
	if len(phrase) > len(tokens) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		for j, p := range phrase {
			if tokens[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}

// tokenize lowercases s and splits it into words. Letters, digits and inner
// apostrophes belong to a word; everything else separates words.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’')
	})
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'’")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
