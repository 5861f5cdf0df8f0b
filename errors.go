package capture

import "errors"

// Initialization failures. These are fatal to the start sequence; the
// consumer should treat capture as unavailable.
var (
	// ErrNoMatchingDevice indicates no capture device exists at the
	// requested position.
	ErrNoMatchingDevice = errors.New("no capture device at requested position")

	// ErrPhotoOutputUnavailable indicates the mandatory photo output could
	// not be attached to the session.
	ErrPhotoOutputUnavailable = errors.New("photo output cannot be attached")
)

// Resource acquisition failures. These are reported but non-fatal; the
// specific sub-operation is skipped and capture continues degraded.
var (
	// ErrAudioActivityDenied indicates the exclusive audio-activity token
	// could not be acquired from the audio policy layer.
	ErrAudioActivityDenied = errors.New("audio activity token denied")

	// ErrDeviceLock indicates the exclusive device-configuration lock could
	// not be acquired.
	ErrDeviceLock = errors.New("device configuration lock failed")
)

// Operation ordering errors.
var (
	// ErrNotRunning indicates a capture command arrived while the session
	// was stopped.
	ErrNotRunning = errors.New("capture session not running")

	// ErrMovieOutputUnavailable indicates video capture is unavailable
	// because the movie output could not be attached at start.
	ErrMovieOutputUnavailable = errors.New("movie output unavailable")

	// ErrRecordingActive indicates a recording was started while another
	// recording was still in progress.
	ErrRecordingActive = errors.New("recording already in progress")
)

// ErrVideoCancelUnsupported indicates a video cancellation was requested.
// No hardware cancellation primitive exists and no user-facing path
// triggers one; reaching it is a programming defect, not a user action.
var ErrVideoCancelUnsupported = errors.New("video capture cancellation is not supported")
