package filler

import (
	"fmt"

	"github.com/samber/lo"
	"videotextcut/internal/app/model"
)

// Gap is a stretch of the timeline not covered by any segment
type Gap struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (g Gap) Duration() float64 {
	return g.End - g.Start
}

// Statistics summarizes filler usage across a transcript
type Statistics struct {
	TotalSegments        int            `json:"total_segments"`
	FillerSegments       int            `json:"filler_segments"`
	FillerPercentage     float64        `json:"filler_percentage"`
	TotalDuration        float64        `json:"total_duration"`
	FillerDuration       float64        `json:"filler_duration"`
	FillerTimePercentage float64        `json:"filler_time_percentage"`
	FillerTypes          map[string]int `json:"filler_types"`
	EmptySpots           []Gap          `json:"empty_spots"`

	phraseOrder []string
}

// DetectEmptySpots returns the gaps of at least threshold seconds before the
// first segment, between adjacent segments and after the last one.
func DetectEmptySpots(t *model.TranscriptData, threshold float64) []Gap {
	var gaps []Gap
	cursor := 0.0
	for _, seg := range t.Segments {
		if seg.StartTime-cursor >= threshold && seg.StartTime > cursor {
			gaps = append(gaps, Gap{Start: cursor, End: seg.StartTime})
		}
		if seg.EndTime > cursor {
			cursor = seg.EndTime
		}
	}
	if t.Duration-cursor >= threshold && t.Duration > cursor {
		gaps = append(gaps, Gap{Start: cursor, End: t.Duration})
	}
	return gaps
}

// Analyze computes filler statistics from the current IsFiller flags. Phrase
// counts are taken from segments already flagged as filler.
func Analyze(t *model.TranscriptData, words FillerSet, emptySpotThreshold float64) Statistics {
	fillers := lo.Filter(t.Segments, func(seg *model.Segment, _ int) bool {
		return seg.IsFiller
	})

	stats := Statistics{
		TotalSegments:  len(t.Segments),
		FillerSegments: len(fillers),
		TotalDuration:  t.Duration,
		FillerDuration: lo.SumBy(fillers, func(seg *model.Segment) float64 { return seg.Duration() }),
		FillerTypes:    make(map[string]int),
		EmptySpots:     DetectEmptySpots(t, emptySpotThreshold),
		phraseOrder:    words.Phrases(),
	}
	if stats.TotalSegments > 0 {
		stats.FillerPercentage = float64(stats.FillerSegments) / float64(stats.TotalSegments) * 100
	}
	if stats.TotalDuration > 0 {
		stats.FillerTimePercentage = stats.FillerDuration / stats.TotalDuration * 100
	}
	for _, seg := range fillers {
		for _, phrase := range MatchPhrases(seg.Text, words) {
			stats.FillerTypes[phrase]++
		}
	}
	return stats
}

// MostCommon returns the most frequent filler phrase; ties go to the phrase configured first
func (s Statistics) MostCommon() (string, int, bool) {
	best, bestCount := "", 0
	for _, phrase := range s.phraseOrder {
		if c := s.FillerTypes[phrase]; c > bestCount {
			best, bestCount = phrase, c
		}
	}
	return best, bestCount, bestCount > 0
}

// Suggestions turns statistics into short hints for the user
func Suggestions(s Statistics) []string {
	var out []string
	if s.FillerPercentage > 30 {
		out = append(out, "High filler word usage detected. Consider practicing speech without fillers.")
	}
	if s.FillerTimePercentage > 20 {
		out = append(out, "Filler words take up significant time. Removing them will greatly shorten the video.")
	}
	if len(s.EmptySpots) > 5 {
		out = append(out, "Multiple silent gaps detected. Consider removing long pauses.")
	}
	if phrase, count, ok := s.MostCommon(); ok {
		out = append(out, fmt.Sprintf("Most common filler: %q (%d occurrences)", phrase, count))
	}
	return out
}
