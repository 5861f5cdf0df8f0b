// Package platform defines the primitives of the underlying capture stack:
// the session, devices, outputs, the audio policy layer and the orientation
// source. The session coordinator drives these interfaces and never touches
// the platform APIs directly. A simulated implementation lives in
// platform/sim.
package platform

import (
	capture "github.com/Istiakmorsalin/Signal-iOS"
)

// Session is the live capture pipeline binding inputs to outputs. All
// mutation happens inside a BeginConfiguration/CommitConfiguration bracket
// executed on the coordination queue. A session holds at most one video
// input and at most one audio input at a time.
type Session interface {
	BeginConfiguration()
	CommitConfiguration()

	AddVideoInput(VideoDevice) error
	RemoveVideoInput(VideoDevice)
	AddAudioInput(AudioDevice) error
	RemoveAudioInput(AudioDevice)

	AddOutput(Output) error

	Start()
	Stop()
	Running() bool
}

// VideoDevice is a camera attached to the session. Focus, exposure and zoom
// changes require the exclusive device-configuration lock.
type VideoDevice interface {
	Info() capture.Device

	// Lock acquires the exclusive device-configuration lock. A failure is
	// reported, not fatal; the sub-operation is skipped.
	Lock() error
	Unlock()

	FocusPointSupported() bool
	SetFocus(mode capture.FocusMode, point capture.Point)
	ExposurePointSupported() bool
	SetExposure(mode capture.ExposureMode, point capture.Point)
	SetSubjectAreaMonitoring(enabled bool)

	SetZoom(factor float64)
	Zoom() float64

	// SubscribeSubjectAreaChange registers fn to run when the subject area
	// changes while monitoring is enabled. The returned cancel function
	// removes the subscription.
	SubscribeSubjectAreaChange(fn func()) (cancel func())
}

// AudioDevice is a microphone attached to the session.
type AudioDevice interface {
	ID() string
}

// Output is a capture output attachable to a session.
type Output interface {
	// Kind returns a stable output name for logs.
	Kind() string
}

// PhotoSettings are the per-shot settings built on the coordination queue
// for the modern photo output.
type PhotoSettings struct {
	Flash          capture.FlashMode
	HighResolution bool
	Stabilization  bool
	Orientation    capture.Orientation
}

// PhotoOutput is the modern photo capture output with per-shot settings.
// CapturePhoto triggers an asynchronous capture; done is invoked exactly
// once on an arbitrary goroutine with the encoded image bytes or an error.
type PhotoOutput interface {
	Output
	SupportsHighResolution() bool
	SupportsStabilization() bool
	CapturePhoto(settings PhotoSettings, done func(data []byte, err error))
}

// StillImageOutput is the legacy photo capture output. Flash mode is set on
// the output ahead of capture rather than per shot.
type StillImageOutput interface {
	Output
	SetFlashMode(capture.FlashMode)
	CaptureStillImage(orientation capture.Orientation, done func(data []byte, err error))
}

// RecordingResult reports the outcome of a movie recording.
type RecordingResult struct {
	// Path of the recorded movie file.
	Path string

	// Err is the error reported by the capture stack, if any.
	Err error

	// FinalizedDespiteError reports that the file was written out
	// completely even though Err is set. Some capture stacks report an
	// error on stop while the recording in fact succeeded; such results
	// are successes and the error must be suppressed.
	FinalizedDespiteError bool
}

// MovieOutput records video to a file path. StartRecording begins an
// asynchronous recording; done is invoked exactly once on an arbitrary
// goroutine when the file is finalized or recording fails.
type MovieOutput interface {
	Output
	Recording() bool
	SetOrientation(capture.Orientation)
	SetStabilization(enabled bool)

	// SetPreferredCodec constrains the movie encoding to a
	// broadly-compatible codec, e.g. "h264".
	SetPreferredCodec(codec string)

	StartRecording(path string, done func(RecordingResult))
	StopRecording()
}

// AudioActivity grants the exclusive audio-activity token shared with the
// global audio policy subsystem. Begin must always be paired with End:
// acquire before attaching the audio input, release after detaching it.
type AudioActivity interface {
	// Begin acquires the token. Returns capture.ErrAudioActivityDenied
	// (possibly wrapped) when the token is unavailable.
	Begin() error
	End()
}

// OrientationSource reports physical device orientation. The coordinator
// subscribes at session start and cancels at stop.
type OrientationSource interface {
	Current() capture.DeviceOrientation
	Subscribe(fn func(capture.DeviceOrientation)) (cancel func())
}

// Provider gives access to the capture stack's sessions, devices and
// outputs. Exactly one of the photo output variants is used per session,
// selected once at construction from the capability probe.
type Provider interface {
	NewSession() Session

	// VideoDevice returns the device at the given position, or
	// capture.ErrNoMatchingDevice (possibly wrapped) if none exists.
	VideoDevice(pos capture.Position) (VideoDevice, error)
	AudioDevice() (AudioDevice, error)
	ListDevices() []capture.Device

	// NewPhotoOutput returns the modern photo output, or ok false when the
	// stack only supports the legacy still-image output.
	NewPhotoOutput() (PhotoOutput, bool)
	NewStillImageOutput() StillImageOutput

	// NewMovieOutput returns a movie output, or ok false when video
	// capture is unavailable on this stack.
	NewMovieOutput() (MovieOutput, bool)

	AudioActivity() AudioActivity
	Orientation() OrientationSource
}
