package editor

import (
	"fmt"
	"io"
	"strings"

	"videotextcut/internal/app/cutlist"
	"videotextcut/internal/app/filler"
	"videotextcut/internal/app/model"
)

func flagsOf(seg *model.Segment) string {
	var flags []string
	if seg.IsFiller {
		flags = append(flags, "filler")
	}
	if seg.IsDeleted {
		flags = append(flags, "deleted")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}

// WriteSegments lists every segment, deleted ones included
func WriteSegments(w io.Writer, t *model.TranscriptData) {
	if len(t.Segments) == 0 {
		fmt.Fprintln(w, "no speech found")
		return
	}
	for _, seg := range t.Segments {
		fmt.Fprintf(w, "%3d %s %s%s\n", seg.ID, model.FormatTimestampHeader(seg.StartTime, seg.EndTime), seg.Text, flagsOf(seg))
	}
}

// WriteSegment prints one segment with its word timings
func WriteSegment(w io.Writer, seg *model.Segment) {
	fmt.Fprintf(w, "segment %d %s%s\n", seg.ID, model.FormatTimestampHeader(seg.StartTime, seg.EndTime), flagsOf(seg))
	fmt.Fprintf(w, "  text:       %s\n", seg.Text)
	fmt.Fprintf(w, "  duration:   %.2fs\n", seg.Duration())
	fmt.Fprintf(w, "  confidence: %.2f\n", seg.Confidence)
	for _, word := range seg.Words {
		fmt.Fprintf(w, "    %7.2fs %s\n", word.StartTime, word.Word)
	}
}

// WriteStats prints the filler analysis and the suggestions derived from it
func WriteStats(w io.Writer, s filler.Statistics) {
	fmt.Fprintf(w, "segments:        %d\n", s.TotalSegments)
	fmt.Fprintf(w, "filler segments: %d (%.1f%%)\n", s.FillerSegments, s.FillerPercentage)
	fmt.Fprintf(w, "filler time:     %.2fs of %.2fs (%.1f%%)\n", s.FillerDuration, s.TotalDuration, s.FillerTimePercentage)
	if phrase, count, ok := s.MostCommon(); ok {
		fmt.Fprintf(w, "most common:     %q x%d\n", phrase, count)
	}
	fmt.Fprintf(w, "empty spots:     %d\n", len(s.EmptySpots))
	for _, gap := range s.EmptySpots {
		fmt.Fprintf(w, "  %.2fs - %.2fs (%.2fs)\n", gap.Start, gap.End, gap.Duration())
	}
	for _, hint := range filler.Suggestions(s) {
		fmt.Fprintf(w, "* %s\n", hint)
	}
}

// WritePreview prints the keep/remove verdict of every segment
func WritePreview(w io.Writer, verdicts []cutlist.Verdict) {
	for _, v := range verdicts {
		mark := "keep"
		if !v.Keep {
			mark = "cut (" + v.Reason + ")"
		}
		fmt.Fprintf(w, "%3d %s %-20s %s\n", v.SegmentID, model.FormatTimestampHeader(v.Start, v.End), mark, v.Text)
	}
}

// WriteCutList prints the intervals and the resulting length
func WriteCutList(w io.Writer, intervals []model.CutInterval, duration float64) {
	if len(intervals) == 0 {
		fmt.Fprintln(w, "nothing left to keep")
		return
	}
	for i, iv := range intervals {
		fmt.Fprintf(w, "%3d %s (%.2fs)\n", i, iv, iv.Duration())
	}
	kept := cutlist.KeptDuration(intervals)
	fmt.Fprintf(w, "kept %.2fs of %.2fs (%.1f%%), removing %.2fs\n",
		kept, duration, 100*cutlist.CompressionRatio(intervals, duration), duration-kept)
}
