// Package metrics exposes Prometheus counters for capture activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for the capture session.
type Metrics struct {
	registry *prometheus.Registry

	photosStarted       prometheus.Counter
	photosCompleted     prometheus.Counter
	photosFailed        prometheus.Counter
	recordingsStarted   prometheus.Counter
	recordingsCompleted prometheus.Counter
	recordingsFailed    prometheus.Counter
	orientationChanges  prometheus.Counter
	sessionStarts       prometheus.Counter
}

// New creates and registers the capture metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	photosStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_photos_started_total",
		Help: "Total number of photo captures triggered",
	})
	photosCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_photos_completed_total",
		Help: "Total number of photo captures delivered to the consumer",
	})
	photosFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_photos_failed_total",
		Help: "Total number of photo captures that failed",
	})
	recordingsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_recordings_started_total",
		Help: "Total number of movie recordings started",
	})
	recordingsCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_recordings_completed_total",
		Help: "Total number of movie recordings finalized",
	})
	recordingsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_recordings_failed_total",
		Help: "Total number of movie recordings that genuinely failed",
	})
	orientationChanges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_orientation_changes_total",
		Help: "Total number of applied capture orientation changes",
	})
	sessionStarts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "capture_session_starts_total",
		Help: "Total number of successful session starts",
	})

	registry.MustRegister(
		photosStarted,
		photosCompleted,
		photosFailed,
		recordingsStarted,
		recordingsCompleted,
		recordingsFailed,
		orientationChanges,
		sessionStarts,
	)

	return &Metrics{
		registry:            registry,
		photosStarted:       photosStarted,
		photosCompleted:     photosCompleted,
		photosFailed:        photosFailed,
		recordingsStarted:   recordingsStarted,
		recordingsCompleted: recordingsCompleted,
		recordingsFailed:    recordingsFailed,
		orientationChanges:  orientationChanges,
		sessionStarts:       sessionStarts,
	}
}

// IncPhotosStarted increments the photos started counter.
func (m *Metrics) IncPhotosStarted() { m.photosStarted.Inc() }

// IncPhotosCompleted increments the photos completed counter.
func (m *Metrics) IncPhotosCompleted() { m.photosCompleted.Inc() }

// IncPhotosFailed increments the photos failed counter.
func (m *Metrics) IncPhotosFailed() { m.photosFailed.Inc() }

// IncRecordingsStarted increments the recordings started counter.
func (m *Metrics) IncRecordingsStarted() { m.recordingsStarted.Inc() }

// IncRecordingsCompleted increments the recordings completed counter.
func (m *Metrics) IncRecordingsCompleted() { m.recordingsCompleted.Inc() }

// IncRecordingsFailed increments the recordings failed counter.
func (m *Metrics) IncRecordingsFailed() { m.recordingsFailed.Inc() }

// IncOrientationChanges increments the orientation changes counter.
func (m *Metrics) IncOrientationChanges() { m.orientationChanges.Inc() }

// IncSessionStarts increments the session starts counter.
func (m *Metrics) IncSessionStarts() { m.sessionStarts.Inc() }

// Handler returns an http.Handler serving the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
