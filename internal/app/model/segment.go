package model

// WordTiming is the timing of a single recognized word inside a segment
type WordTiming struct {
	Word       string  `json:"word"`
	StartTime  float64 `json:"start"`
	EndTime    float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Segment is one contiguous span of transcribed speech.
//
// IsFiller and IsDeleted are independent: the classifier owns IsFiller, the
// user owns IsDeleted, and any combination is valid.
type Segment struct {
	ID         int          `json:"id"`
	StartTime  float64      `json:"start"` // seconds
	EndTime    float64      `json:"end"`   // seconds
	Text       string       `json:"text"`
	IsFiller   bool         `json:"is_filler"`
	IsDeleted  bool         `json:"is_deleted"`
	Confidence float64      `json:"confidence"` // 0..1
	Words      []WordTiming `json:"words,omitempty"`
}

// Duration returns the length of the segment in seconds
func (s *Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Removed reports whether the segment is excluded from the output video
func (s *Segment) Removed() bool {
	return s.IsDeleted || s.IsFiller
}

func (s *Segment) clone() *Segment {
	c := *s
	if s.Words != nil {
		c.Words = append([]WordTiming(nil), s.Words...)
	}
	return &c
}
