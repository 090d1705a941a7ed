package model

import "strconv"

// FFProbeOutput is the subset of `ffprobe -print_format json -show_format -show_streams` we read
type FFProbeOutput struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

type ProbeFormat struct {
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

type ProbeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate int    `json:"sample_rate,string"`
	Channels   int    `json:"channels"`
}

// DurationSeconds parses the container duration; ffprobe reports "N/A" for some streams
func (o *FFProbeOutput) DurationSeconds() (float64, bool) {
	d, err := strconv.ParseFloat(o.Format.Duration, 64)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// HasStream reports whether a stream of codecType ("audio", "video") exists
func (o *FFProbeOutput) HasStream(codecType string) bool {
	for _, s := range o.Streams {
		if s.CodecType == codecType {
			return true
		}
	}
	return false
}
