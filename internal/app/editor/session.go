package editor

import (
	"videotextcut/internal/app/config"
	"videotextcut/internal/app/cutlist"
	"videotextcut/internal/app/filler"
	"videotextcut/internal/app/model"
)

// Session is one loaded video being edited. It is not safe for concurrent
// use; background cuts work from a Plan instead.
type Session struct {
	cfg        config.AppConfig
	fillers    filler.FillerSet
	transcript *model.TranscriptData
	original   *model.TranscriptData
}

func newSession(cfg config.AppConfig, t *model.TranscriptData) *Session {
	return &Session{
		cfg:        cfg,
		fillers:    filler.NewFillerSet(cfg.FillerWords),
		transcript: t,
		original:   t.Clone(),
	}
}

// NewSession starts a session over an existing transcript without transcribing
func NewSession(cfg config.AppConfig, t *model.TranscriptData) *Session {
	return newSession(cfg.Clone(), t)
}

func (s *Session) Transcript() *model.TranscriptData { return s.transcript }

// Config is the snapshot taken when the session was loaded
func (s *Session) Config() config.AppConfig { return s.cfg.Clone() }

func (s *Session) Delete(id int) error { return s.transcript.Delete(id) }

func (s *Session) Restore(id int) error { return s.transcript.Restore(id) }

func (s *Session) SetText(id int, text string) error { return s.transcript.SetText(id, text) }

func (s *Session) MarkFiller(id int, on bool) error { return s.transcript.MarkFiller(id, on) }

// Classify re-runs filler detection over every segment
func (s *Session) Classify() int {
	return filler.ClassifyAll(s.transcript, s.fillers)
}

// StripFillers marks every filler segment deleted
func (s *Session) StripFillers() int {
	return s.transcript.RemoveFillerSegments()
}

// ApplyEditedText applies an edited timestamped text over the transcript
func (s *Session) ApplyEditedText(edited string) int {
	return s.transcript.UpdateFromText(edited)
}

// Reset discards every edit and goes back to the transcript as loaded
func (s *Session) Reset() {
	s.transcript = s.original.Clone()
}

func (s *Session) FillerCount() int {
	n := 0
	for _, seg := range s.transcript.Segments {
		if seg.IsFiller {
			n++
		}
	}
	return n
}

func (s *Session) Stats() filler.Statistics {
	return filler.Analyze(s.transcript, s.fillers, s.cfg.EmptySpotGap)
}

func (s *Session) Preview() []cutlist.Verdict {
	return cutlist.Preview(s.transcript.Segments)
}

func (s *Session) CutList() ([]model.CutInterval, error) {
	return cutlist.Build(s.transcript.Segments, s.transcript.Duration, cutlist.Options{
		MinSegmentDuration: s.cfg.MinSegmentDuration,
	})
}
