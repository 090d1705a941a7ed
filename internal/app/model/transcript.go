package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
	apperrors "videotextcut/internal/app/errors"
)

// timestampTolerance is how far a timestamp header in edited text may drift
// from a segment start and still select that segment.
const timestampTolerance = 0.1

// TranscriptData owns the ordered segments of one transcribed media file.
// It is mutated only through the edit operations below.
type TranscriptData struct {
	Segments   []*Segment `json:"segments"`
	Duration   float64    `json:"duration"`
	SourcePath string     `json:"source_path"`
}

// ValidateSegments checks the ordering invariant shared by every transcript:
// each segment ends after it starts and no segment starts before the previous one ends.
func ValidateSegments(segments []*Segment) error {
	for i, seg := range segments {
		if seg == nil {
			return apperrors.InvalidTranscript("segment at index %d is nil", i)
		}
		if seg.StartTime < 0 {
			return apperrors.InvalidTranscript("segment %d starts before zero (%.3f)", seg.ID, seg.StartTime)
		}
		if !(seg.EndTime > seg.StartTime) {
			return apperrors.InvalidTranscript("segment %d ends at %.3f, not after its start %.3f", seg.ID, seg.EndTime, seg.StartTime)
		}
		if i > 0 && seg.StartTime < segments[i-1].EndTime {
			return apperrors.InvalidTranscript("segment %d starts at %.3f, before segment %d ends at %.3f",
				seg.ID, seg.StartTime, segments[i-1].ID, segments[i-1].EndTime)
		}
	}
	return nil
}

// Validate checks ordering, id uniqueness and that Duration covers every segment
func (t *TranscriptData) Validate() error {
	if err := ValidateSegments(t.Segments); err != nil {
		return err
	}
	if !(t.Duration > 0) {
		return apperrors.InvalidTranscript("duration must be positive, got %v", t.Duration)
	}
	seen := make(map[int]struct{}, len(t.Segments))
	for _, seg := range t.Segments {
		if _, dup := seen[seg.ID]; dup {
			return apperrors.InvalidTranscript("duplicate segment id %d", seg.ID)
		}
		seen[seg.ID] = struct{}{}
	}
	if n := len(t.Segments); n > 0 && t.Segments[n-1].EndTime > t.Duration {
		return apperrors.InvalidTranscript("last segment ends at %.3f, after duration %.3f", t.Segments[n-1].EndTime, t.Duration)
	}
	return nil
}

// Segment looks a segment up by id
func (t *TranscriptData) Segment(id int) (*Segment, error) {
	for _, seg := range t.Segments {
		if seg.ID == id {
			return seg, nil
		}
	}
	return nil, apperrors.SegmentNotFound(id)
}

func (t *TranscriptData) Delete(id int) error {
	seg, err := t.Segment(id)
	if err != nil {
		return err
	}
	seg.IsDeleted = true
	return nil
}

func (t *TranscriptData) Restore(id int) error {
	seg, err := t.Segment(id)
	if err != nil {
		return err
	}
	seg.IsDeleted = false
	return nil
}

// SetText replaces the text of a segment. Filler classification is not re-run.
func (t *TranscriptData) SetText(id int, text string) error {
	seg, err := t.Segment(id)
	if err != nil {
		return err
	}
	seg.Text = text
	return nil
}

func (t *TranscriptData) MarkFiller(id int, filler bool) error {
	seg, err := t.Segment(id)
	if err != nil {
		return err
	}
	seg.IsFiller = filler
	return nil
}

// ActiveSegments returns the non-deleted segments in original order
func (t *TranscriptData) ActiveSegments() []*Segment {
	return lo.Filter(t.Segments, func(seg *Segment, _ int) bool {
		return !seg.IsDeleted
	})
}

// TotalActiveDuration sums the durations of non-deleted segments
func (t *TranscriptData) TotalActiveDuration() float64 {
	return lo.SumBy(t.ActiveSegments(), func(seg *Segment) float64 {
		return seg.Duration()
	})
}

// RemoveFillerSegments marks every filler segment as deleted
func (t *TranscriptData) RemoveFillerSegments() int {
	removed := 0
	for _, seg := range t.Segments {
		if seg.IsFiller && !seg.IsDeleted {
			seg.IsDeleted = true
			removed++
		}
	}
	return removed
}

// TextContent renders the active segments, one "[start - end] text" line each
// when withTimestamps is set, otherwise as a single space-joined string.
func (t *TranscriptData) TextContent(withTimestamps bool) string {
	active := t.ActiveSegments()
	if !withTimestamps {
		return strings.Join(lo.Map(active, func(seg *Segment, _ int) string {
			return seg.Text
		}), " ")
	}

	var b strings.Builder
	for i, seg := range active {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s", FormatTimestampHeader(seg.StartTime, seg.EndTime), seg.Text)
	}
	return b.String()
}

// FormatTimestampHeader renders the header used by TextContent and UpdateFromText
func FormatTimestampHeader(start, end float64) string {
	return fmt.Sprintf("[%.2fs - %.2fs]", start, end)
}

// UpdateFromText applies an edited copy of TextContent(true) back onto the
// segments. A header selects the unclaimed segment starting nearest to it,
// within 0.1s, and the text that follows (same line or later lines) becomes
// its text. A header with no text, or a segment whose header was removed, is
// marked deleted. Restored headers undelete their segment. Returns the number
// of segments matched.
func (t *TranscriptData) UpdateFromText(edited string) int {
	mentioned := make(map[int]bool)
	var current *Segment
	var parts []string

	flush := func() {
		if current == nil {
			return
		}
		text := strings.Join(parts, " ")
		if text == "" {
			current.IsDeleted = true
		} else {
			current.Text = text
			current.IsDeleted = false
		}
		mentioned[current.ID] = true
		current, parts = nil, nil
	}

	for _, raw := range strings.Split(edited, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if start, rest, ok := parseTimestampHeader(line); ok {
			flush()
			current = t.segmentStartingNear(start, mentioned)
			if current != nil && rest != "" {
				parts = append(parts, rest)
			}
			continue
		}
		if current != nil {
			parts = append(parts, line)
		}
	}
	flush()

	for _, seg := range t.Segments {
		if !mentioned[seg.ID] {
			seg.IsDeleted = true
		}
	}
	return len(mentioned)
}

// segmentStartingNear returns the segment closest to start within
// timestampTolerance, skipping ids already claimed by an earlier header
func (t *TranscriptData) segmentStartingNear(start float64, claimed map[int]bool) *Segment {
	var best *Segment
	bestDiff := timestampTolerance
	for _, seg := range t.Segments {
		if claimed[seg.ID] {
			continue
		}
		diff := math.Abs(seg.StartTime - start)
		if diff < bestDiff {
			best, bestDiff = seg, diff
		}
	}
	return best
}

// parseTimestampHeader splits "[1.00s - 2.00s] rest" into the start time and the trailing text
func parseTimestampHeader(line string) (float64, string, bool) {
	if !strings.HasPrefix(line, "[") {
		return 0, "", false
	}
	closing := strings.Index(line, "]")
	if closing < 0 {
		return 0, "", false
	}
	header := line[1:closing]
	startPart, _, found := strings.Cut(header, "s -")
	if !found {
		return 0, "", false
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(startPart), 64)
	if err != nil {
		return 0, "", false
	}
	return start, strings.TrimSpace(line[closing+1:]), true
}

// Clone returns a deep copy, used as a backup before destructive edits
func (t *TranscriptData) Clone() *TranscriptData {
	return &TranscriptData{
		Segments: lo.Map(t.Segments, func(seg *Segment, _ int) *Segment {
			return seg.clone()
		}),
		Duration:   t.Duration,
		SourcePath: t.SourcePath,
	}
}
