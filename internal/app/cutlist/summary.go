package cutlist

import (
	"github.com/samber/lo"
	"videotextcut/internal/app/model"
)

// Verdict explains what happens to one segment in the output
type Verdict struct {
	SegmentID int     `json:"segment_id"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
	Keep      bool    `json:"keep"`
	Reason    string  `json:"reason,omitempty"` // deleted, filler or deleted+filler
}

// KeptDuration is the total length of the intervals
func KeptDuration(intervals []model.CutInterval) float64 {
	return lo.SumBy(intervals, func(iv model.CutInterval) float64 {
		return iv.Duration()
	})
}

// RemovedDuration sums the durations of deleted or filler segments
func RemovedDuration(segments []*model.Segment) float64 {
	removed := lo.Filter(segments, func(seg *model.Segment, _ int) bool {
		return seg.Removed()
	})
	return lo.SumBy(removed, func(seg *model.Segment) float64 {
		return seg.Duration()
	})
}

// CompressionRatio is the share of duration that survives, in [0, 1]
func CompressionRatio(intervals []model.CutInterval, duration float64) float64 {
	if !(duration > 0) {
		return 0
	}
	ratio := KeptDuration(intervals) / duration
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	}
	return ratio
}

// Preview lists every segment with its keep/remove verdict
func Preview(segments []*model.Segment) []Verdict {
	return lo.Map(segments, func(seg *model.Segment, _ int) Verdict {
		v := Verdict{
			SegmentID: seg.ID,
			Start:     seg.StartTime,
			End:       seg.EndTime,
			Text:      seg.Text,
			Keep:      !seg.Removed(),
		}
		switch {
		case seg.IsDeleted && seg.IsFiller:
			v.Reason = "deleted+filler"
		case seg.IsDeleted:
			v.Reason = "deleted"
		case seg.IsFiller:
			v.Reason = "filler"
		}
		return v
	})
}
