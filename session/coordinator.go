// Package session implements the capture session coordinator: the single
// authority for all capture-session mutation, executed on one serialized
// FIFO coordination queue. Commands arrive from the UI, results flow back
// through the event router, and the capture backend adapter performs the
// actual photo and movie operations.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/backend"
	"github.com/Istiakmorsalin/Signal-iOS/config"
	"github.com/Istiakmorsalin/Signal-iOS/dispatch"
	"github.com/Istiakmorsalin/Signal-iOS/events"
	"github.com/Istiakmorsalin/Signal-iOS/metrics"
	"github.com/Istiakmorsalin/Signal-iOS/platform"
)

// recordingState tracks the at-most-one active video recording.
type recordingState int

const (
	recIdle recordingState = iota
	recAudioStarting
	recRecording
	recFinishing
)

// buttonAnimationDuration is the capture button affordance duration passed
// to the consumer around recordings.
const buttonAnimationDuration = 200 * time.Millisecond

// Coordinator owns the capture session. All session and device state below
// the queue marker is owned by the coordination queue; reading or writing
// it anywhere else is a programming error the dispatch queue asserts
// against.
type Coordinator struct {
	queue    *dispatch.Queue
	router   *events.Router
	provider platform.Provider
	adapter  backend.Adapter
	log      *slog.Logger
	met      *metrics.Metrics

	zoomRange   capture.ZoomRange
	audioPolicy config.AudioPolicy
	codec       string

	// desiredPosition persists across session restarts and is toggled on
	// the calling context by SwitchCamera.
	desiredPosition atomic.Int32

	// Owned by the coordination queue.
	session           platform.Session
	running           bool
	outputsAttached   bool
	movieAttached     bool
	videoDevice       platform.VideoDevice
	audioDevice       platform.AudioDevice
	audioHeld         bool
	orientation       capture.Orientation
	zoomCommitted     float64
	recState          recordingState
	recCanceled       bool
	cancelOrientation func()
	cancelSubjectArea func()
}

// New builds a coordinator over the given capture stack. The backend
// adapter variant is selected here, once; the session is created once and
// outputs are attached lazily on first start. met may be nil, in which
// case a private registry is created.
func New(p platform.Provider, router *events.Router, cfg config.Config, log *slog.Logger, met *metrics.Metrics) *Coordinator {
	if met == nil {
		met = metrics.New()
	}
	q := dispatch.New("capture.session")
	c := &Coordinator{
		queue:       q,
		router:      router,
		provider:    p,
		adapter:     backend.New(p, q, log),
		log:         log,
		met:         met,
		zoomRange:   cfg.ZoomRange(),
		audioPolicy: cfg.AudioPolicy,
		codec:       cfg.PreferredCodec,
		session:     p.NewSession(),
	}
	c.zoomCommitted = c.zoomRange.Min
	c.desiredPosition.Store(int32(cfg.Position()))
	return c
}

// Queue returns the coordination queue.
func (c *Coordinator) Queue() *dispatch.Queue {
	return c.queue
}

// DesiredPosition returns the camera position the next start or switch
// targets.
func (c *Coordinator) DesiredPosition() capture.Position {
	return capture.Position(c.desiredPosition.Load())
}

// Start brings the session up: registers for orientation changes, attaches
// inputs and outputs inside one configuration bracket and starts the
// platform session. Start is idempotent. The work runs on the coordination
// queue; Start blocks the caller, never the queue, until it settles or ctx
// is done.
func (c *Coordinator) Start(ctx context.Context) error {
	// Initial orientation is computed on the calling context, before the
	// hop.
	initial, _ := capture.ResolveOrientation(c.provider.Orientation().Current())
	errc := make(chan error, 1)
	c.queue.Async(func() {
		errc <- c.startLocked(initial)
	})
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) startLocked(initial capture.Orientation) error {
	if c.running {
		return nil
	}
	c.orientation = initial

	if c.cancelOrientation == nil {
		c.cancelOrientation = c.provider.Orientation().Subscribe(c.deviceOrientationChanged)
	}
	defer func() {
		if !c.running && c.cancelOrientation != nil {
			c.cancelOrientation()
			c.cancelOrientation = nil
		}
	}()

	c.session.BeginConfiguration()
	committed := false
	commit := func() {
		if !committed {
			committed = true
			c.session.CommitConfiguration()
		}
	}
	defer commit()

	if err := c.updateCurrentInput(c.DesiredPosition()); err != nil {
		return err
	}

	if !c.outputsAttached {
		if err := c.session.AddOutput(c.adapter.PhotoOutput()); err != nil {
			return fmt.Errorf("attaching photo output: %w", capture.ErrPhotoOutputUnavailable)
		}
		if movie, ok := c.adapter.MovieOutput(); ok {
			if err := c.session.AddOutput(movie); err != nil {
				// Tolerated: photo capture proceeds, video capture is
				// unavailable.
				c.log.Warn("attaching movie output failed, video capture unavailable", "error", err)
			} else {
				movie.SetOrientation(c.orientation)
				movie.SetStabilization(true)
				movie.SetPreferredCodec(c.codec)
				c.movieAttached = true
			}
		} else {
			c.log.Warn("movie output unavailable on this capture stack")
		}
		c.outputsAttached = true
	}

	commit()
	c.session.Start()
	c.running = true
	c.met.IncSessionStarts()
	c.log.Info("capture session started",
		"position", c.DesiredPosition().String(),
		"orientation", c.orientation.String(),
		"video", c.movieAttached,
	)
	c.resetFocusAndExposureLocked()
	return nil
}

// Stop stops the session and deregisters orientation observation. Stop is
// idempotent and safe to call before Start.
func (c *Coordinator) Stop() {
	c.queue.Async(func() { c.stopLocked() })
}

func (c *Coordinator) stopLocked() {
	if !c.running {
		return
	}
	if c.cancelOrientation != nil {
		c.cancelOrientation()
		c.cancelOrientation = nil
	}
	// An active recording is driven to completion, never abandoned: the
	// consumer still receives its result and the recorder returns to idle.
	if c.recState == recRecording {
		c.recState = recFinishing
		c.adapter.CompleteVideo()
	}
	c.stopAudioCaptureLocked()
	c.session.Stop()
	c.running = false
	c.log.Info("capture session stopped")
}

// Close stops the session and shuts down the coordination queue. The
// coordinator cannot be restarted afterwards.
func (c *Coordinator) Close() {
	_ = c.queue.Sync(func() { c.stopLocked() })
	c.queue.Close()
}

// SwitchCamera toggles the desired position on the calling context, then
// swaps the active video input inside one configuration bracket and resets
// focus and exposure to continuous auto.
func (c *Coordinator) SwitchCamera(ctx context.Context) error {
	var pos capture.Position
	for {
		old := c.desiredPosition.Load()
		pos = capture.Position(old).Toggled()
		if c.desiredPosition.CompareAndSwap(old, int32(pos)) {
			break
		}
	}
	errc := make(chan error, 1)
	c.queue.Async(func() {
		errc <- c.switchCameraLocked(pos)
	})
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) switchCameraLocked(pos capture.Position) error {
	if !c.running {
		// Nothing attached to swap; the desired position applies on next
		// start.
		return nil
	}
	c.session.BeginConfiguration()
	err := c.updateCurrentInput(pos)
	c.session.CommitConfiguration()
	if err != nil {
		return err
	}
	c.resetFocusAndExposureLocked()
	c.log.Info("switched camera", "position", pos.String())
	return nil
}

// updateCurrentInput swaps the active video input for a device at pos. It
// must run inside an active configuration bracket on the coordination
// queue; the old input is removed before the new one is added so the
// session never holds two video inputs past the bracket.
func (c *Coordinator) updateCurrentInput(pos capture.Position) error {
	c.queue.MustBeOn()
	if c.videoDevice != nil {
		if c.cancelSubjectArea != nil {
			c.cancelSubjectArea()
			c.cancelSubjectArea = nil
		}
		c.session.RemoveVideoInput(c.videoDevice)
		c.videoDevice = nil
	}
	dev, err := c.provider.VideoDevice(pos)
	if err != nil {
		return fmt.Errorf("selecting video device: %w", err)
	}
	if err := c.session.AddVideoInput(dev); err != nil {
		return fmt.Errorf("attaching video input: %w", err)
	}
	c.videoDevice = dev
	c.cancelSubjectArea = dev.SubscribeSubjectAreaChange(func() {
		// Arbitrary goroutine; hop before touching device state.
		c.ResetFocusAndExposure()
	})
	return nil
}

// StartAudioCapture attaches the microphone ahead of a recording:
// audio-activity token first, then the audio input inside its own
// configuration bracket. BeginVideo does this implicitly; calling it ahead
// of time shortens the recording start.
func (c *Coordinator) StartAudioCapture(ctx context.Context) error {
	errc := make(chan error, 1)
	c.queue.Async(func() {
		errc <- c.startAudioCaptureLocked()
	})
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StopAudioCapture detaches the audio input and releases the
// audio-activity token. Safe to call with no audio attached.
func (c *Coordinator) StopAudioCapture() {
	c.queue.Async(func() { c.stopAudioCaptureLocked() })
}

// startAudioCaptureLocked acquires the audio-activity token and attaches
// the audio input. A denied token or missing microphone is a reported,
// non-fatal error; the attach attempt is aborted and the token released.
func (c *Coordinator) startAudioCaptureLocked() error {
	if c.audioDevice != nil {
		return nil
	}
	if err := c.provider.AudioActivity().Begin(); err != nil {
		return fmt.Errorf("acquiring audio activity: %w", err)
	}
	c.audioHeld = true
	dev, err := c.provider.AudioDevice()
	if err != nil {
		c.releaseAudioActivityLocked()
		return fmt.Errorf("selecting audio device: %w", err)
	}
	c.session.BeginConfiguration()
	attachErr := c.session.AddAudioInput(dev)
	c.session.CommitConfiguration()
	if attachErr != nil {
		c.releaseAudioActivityLocked()
		return fmt.Errorf("attaching audio input: %w", attachErr)
	}
	c.audioDevice = dev
	return nil
}

func (c *Coordinator) stopAudioCaptureLocked() {
	if c.audioDevice != nil {
		c.session.BeginConfiguration()
		c.session.RemoveAudioInput(c.audioDevice)
		c.session.CommitConfiguration()
		c.audioDevice = nil
	}
	c.releaseAudioActivityLocked()
}

func (c *Coordinator) releaseAudioActivityLocked() {
	if c.audioHeld {
		c.provider.AudioActivity().End()
		c.audioHeld = false
	}
}

// deviceOrientationChanged runs on the orientation source's context. It
// resolves the raw orientation, hops to the coordination queue, applies
// the change and only then announces it.
func (c *Coordinator) deviceOrientationChanged(raw capture.DeviceOrientation) {
	o, ok := capture.ResolveOrientation(raw)
	if !ok {
		return
	}
	c.queue.Async(func() {
		if o == c.orientation {
			return
		}
		c.orientation = o
		if c.movieAttached {
			if movie, ok := c.adapter.MovieOutput(); ok {
				movie.SetOrientation(o)
			}
		}
		c.met.IncOrientationChanges()
		c.log.Debug("capture orientation changed", "orientation", o.String())
		c.router.OrientationDidChange(o)
	})
}

// CurrentOrientation returns the applied capture orientation. It runs a
// synchronous round-trip through the coordination queue.
func (c *Coordinator) CurrentOrientation() capture.Orientation {
	var o capture.Orientation
	_ = c.queue.Sync(func() { o = c.orientation })
	return o
}

// TakePhoto captures one still photo. The consumer's capacity check runs
// first; a refused capture fires the overflow notification instead. Each
// concurrent request is tracked independently and completes with its own
// result.
func (c *Coordinator) TakePhoto() {
	if !c.router.CapacityAllowed() {
		c.router.CaptureLimitReached()
		return
	}
	c.router.CaptureDidStart()
	c.queue.Async(func() {
		if !c.running {
			c.router.PhotoFailed(capture.ErrNotRunning)
			return
		}
		c.met.IncPhotosStarted()
		c.adapter.TakePhoto(c.orientation, func(res backend.PhotoResult) {
			// Arbitrary goroutine; route only, never touch session state.
			if res.Err != nil {
				c.met.IncPhotosFailed()
				c.router.PhotoFailed(res.Err)
				return
			}
			c.met.IncPhotosCompleted()
			c.router.PhotoCaptured(capture.Attachment{
				Kind:        capture.AttachmentPhoto,
				Data:        res.Data,
				Orientation: res.Orientation,
			})
		})
	})
}

// BeginVideo starts a movie recording to a fresh temporary file. Audio is
// attached first under the audio policy; with AudioOptional a denied token
// is reported and the recording proceeds silent, with AudioRequired it
// fails the flow.
func (c *Coordinator) BeginVideo(ctx context.Context) error {
	if !c.router.CapacityAllowed() {
		c.router.CaptureLimitReached()
		return nil
	}
	errc := make(chan error, 1)
	c.queue.Async(func() {
		errc <- c.beginVideoLocked()
	})
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) beginVideoLocked() error {
	if !c.running {
		return capture.ErrNotRunning
	}
	if !c.movieAttached || !c.adapter.VideoAvailable() {
		return capture.ErrMovieOutputUnavailable
	}
	if c.recState != recIdle {
		return capture.ErrRecordingActive
	}

	c.recState = recAudioStarting
	c.recCanceled = false
	if err := c.startAudioCaptureLocked(); err != nil {
		if c.audioPolicy == config.AudioRequired {
			c.recState = recIdle
			return err
		}
		c.log.Warn("audio capture unavailable, recording without audio", "error", err)
	}

	err := c.adapter.BeginVideo(c.orientation, func(res backend.VideoResult) {
		// Arbitrary goroutine; finish state on the coordination queue.
		c.queue.Async(func() { c.finishRecordingLocked(res) })
	})
	if err != nil {
		c.stopAudioCaptureLocked()
		c.recState = recIdle
		return err
	}
	c.recState = recRecording
	c.met.IncRecordingsStarted()
	c.router.BeginButtonAnimation(buttonAnimationDuration)
	c.router.VideoDidStart()
	c.log.Info("recording started", "orientation", c.orientation.String())
	return nil
}

// CompleteVideo ends the active recording. The file finalizes
// asynchronously; the consumer receives the attachment when it does.
func (c *Coordinator) CompleteVideo() {
	c.queue.Async(func() {
		if c.recState != recRecording {
			return
		}
		c.recState = recFinishing
		c.adapter.CompleteVideo()
	})
}

// CancelVideo is an invariant-violation path: no user action reaches it
// and no hardware cancellation primitive exists. The recording is
// completed best-effort, its file discarded, and the consumer receives a
// cancellation acknowledgment instead of an attachment.
func (c *Coordinator) CancelVideo() {
	c.queue.Async(func() {
		if c.recState != recRecording {
			return
		}
		if err := c.adapter.CancelVideo(); err != nil {
			c.log.Error("video cancellation requested", "error", err)
		}
		c.recCanceled = true
		c.recState = recFinishing
		c.adapter.CompleteVideo()
		c.router.VideoCanceled()
	})
}

func (c *Coordinator) finishRecordingLocked(res backend.VideoResult) {
	c.queue.MustBeOn()
	c.stopAudioCaptureLocked()
	canceled := c.recCanceled
	c.recState = recIdle
	c.recCanceled = false
	c.router.EndButtonAnimation(buttonAnimationDuration)

	if canceled {
		if res.Path != "" {
			// Each recording gets its own temp directory.
			if err := os.RemoveAll(filepath.Dir(res.Path)); err != nil {
				c.log.Debug("removing canceled recording", "error", err)
			}
		}
		return
	}
	if res.Err != nil {
		c.met.IncRecordingsFailed()
		c.router.VideoFailed(res.Err)
		return
	}
	c.met.IncRecordingsCompleted()
	c.log.Info("recording finalized", "path", res.Path)
	c.router.VideoCaptured(capture.Attachment{
		Kind:        capture.AttachmentMovie,
		Path:        res.Path,
		Orientation: c.orientation,
	})
}
