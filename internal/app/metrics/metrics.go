// Package metrics counts transcriptions and splices. A CLI process is short
// lived, so the registry is written to a node_exporter textfile on exit.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder owns a private registry so tests and multiple editors don't collide
type Recorder struct {
	registry       *prometheus.Registry
	transcriptions *prometheus.CounterVec
	splices        *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	removedSeconds prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vtc_transcriptions_total",
			Help: "Transcriptions attempted, by provider and outcome.",
		}, []string{"provider", "status"}),
		splices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vtc_splices_total",
			Help: "Splices attempted, by outcome.",
		}, []string{"status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vtc_stage_duration_seconds",
			Help:    "Wall time of each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"stage"}),
		removedSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vtc_removed_seconds",
			Help: "Seconds of source media cut by the last splice.",
		}),
	}
	r.registry.MustRegister(r.transcriptions, r.splices, r.stageDuration, r.removedSeconds)
	return r
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// ObserveTranscription counts one transcription and times the stage
func (r *Recorder) ObserveTranscription(provider string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.transcriptions.WithLabelValues(provider, status(err)).Inc()
	r.stageDuration.WithLabelValues("transcribe").Observe(elapsed.Seconds())
}

// ObserveSplice counts one splice; removed is only recorded on success
func (r *Recorder) ObserveSplice(elapsed time.Duration, removed float64, err error) {
	if r == nil {
		return
	}
	r.splices.WithLabelValues(status(err)).Inc()
	r.stageDuration.WithLabelValues("splice").Observe(elapsed.Seconds())
	if err == nil {
		r.removedSeconds.Set(removed)
	}
}

// ObserveStage times an in-process stage such as "classify" or "cutlist"
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for gathering
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format; "" is a no-op
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
