// Package cutlist turns an edited transcript into the time ranges of the
// source media that survive into the output.
package cutlist

import (
	apperrors "videotextcut/internal/app/errors"
	"videotextcut/internal/app/model"
)

// mergeEpsilon is the largest gap between two kept intervals that still
// counts as back-to-back.
const mergeEpsilon = 1e-6

// Options tunes Build
type Options struct {
	// MinSegmentDuration drops kept intervals shorter than this many seconds
	MinSegmentDuration float64
}

// Build returns the ordered, non-overlapping intervals of [0, duration) not
// covered by a deleted or filler segment. Segments must satisfy the transcript
// ordering invariant. An empty result means everything was removed.
func Build(segments []*model.Segment, duration float64, opts Options) ([]model.CutInterval, error) {
	if !(duration > 0) {
		return nil, apperrors.InvalidTranscript("duration must be positive, got %v", duration)
	}
	if err := model.ValidateSegments(segments); err != nil {
		return nil, err
	}

	raw := sweep(segments, duration)
	return merge(dropShort(raw, opts.MinSegmentDuration)), nil
}

// sweep walks the segments once with a cursor over the timeline, emitting the
// stretch before each removed segment
func sweep(segments []*model.Segment, duration float64) []model.CutInterval {
	var out []model.CutInterval
	emit := func(start, end float64) {
		if end > duration {
			end = duration
		}
		if end > start {
			out = append(out, model.CutInterval{Start: start, End: end})
		}
	}

	cursor := 0.0
	for _, seg := range segments {
		if !seg.Removed() {
			continue
		}
		if seg.StartTime > cursor {
			emit(cursor, seg.StartTime)
		}
		if seg.EndTime > cursor {
			cursor = seg.EndTime
		}
	}
	if duration > cursor {
		emit(cursor, duration)
	}
	return out
}

func dropShort(intervals []model.CutInterval, minDuration float64) []model.CutInterval {
	out := intervals[:0]
	for _, iv := range intervals {
		if iv.Duration() <= 0 || iv.Duration() < minDuration {
			continue
		}
		out = append(out, iv)
	}
	return out
}

func merge(intervals []model.CutInterval) []model.CutInterval {
	if len(intervals) == 0 {
		return []model.CutInterval{}
	}
	out := []model.CutInterval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &out[len(out)-1]
		if iv.Start-last.End < mergeEpsilon {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}
