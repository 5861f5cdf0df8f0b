// Package backend adapts the platform's photo and movie outputs behind one
// capture interface. Exactly two photo variants exist, selected once at
// construction from the capability probe: the modern photo output with
// per-shot settings, and the legacy still-image output. Callers never
// branch on which variant is active.
package backend

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/dispatch"
	"github.com/Istiakmorsalin/Signal-iOS/platform"
)

// PhotoResult is the completion of one still-photo request.
type PhotoResult struct {
	// ID of the in-flight request this result belongs to.
	ID uuid.UUID

	// Data holds the encoded image bytes. Nil when Err is set.
	Data []byte

	// Orientation the shot was configured with.
	Orientation capture.Orientation

	Err error
}

// VideoResult is the completion of one movie recording.
type VideoResult struct {
	// Path of the finalized temporary movie file.
	Path string

	Err error
}

// Adapter is the capture surface the session coordinator drives. TakePhoto,
// the flash operations and the video operations must be called on the
// coordination queue; completion callbacks run on arbitrary goroutines and
// must not touch session state.
type Adapter interface {
	// TakePhoto builds per-shot settings, registers an in-flight request
	// and triggers an asynchronous capture. Concurrent calls before a
	// prior request completes are allowed and tracked independently.
	TakePhoto(orientation capture.Orientation, done func(PhotoResult))

	// FlashMode returns the current flash mode.
	FlashMode() capture.FlashMode

	// CycleFlashMode rotates auto, on, off, auto and returns the new mode.
	CycleFlashMode() capture.FlashMode

	// PhotoOutput returns the output to attach to the session.
	PhotoOutput() platform.Output

	// MovieOutput returns the movie output to attach, or ok false when
	// video capture is unavailable on this stack.
	MovieOutput() (platform.MovieOutput, bool)

	// VideoAvailable reports whether movie recording can be used.
	VideoAvailable() bool

	// BeginVideo starts recording to a fresh temporary file.
	BeginVideo(orientation capture.Orientation, done func(VideoResult)) error

	// CompleteVideo stops the active recording; the file finalizes
	// asynchronously and the BeginVideo callback fires.
	CompleteVideo()

	// CancelVideo has no hardware cancellation primitive. It always
	// returns capture.ErrVideoCancelUnsupported; reaching it is a defect.
	CancelVideo() error

	// InFlight returns the number of photo requests not yet completed.
	InFlight() int
}

// New probes the platform capability once and returns the matching adapter
// variant.
func New(p platform.Provider, q *dispatch.Queue, log *slog.Logger) Adapter {
	c := &core{q: q, log: log}
	c.movie, c.movieOK = p.NewMovieOutput()
	if out, ok := p.NewPhotoOutput(); ok {
		log.Debug("using modern photo output")
		return &modernAdapter{core: c, out: out}
	}
	log.Debug("modern photo output unavailable, using legacy still-image output")
	legacy := &legacyAdapter{core: c, out: p.NewStillImageOutput()}
	legacy.out.SetFlashMode(c.flash)
	c.still = legacy.out
	return legacy
}

// core holds the state shared by both adapter variants: flash mode, the
// in-flight request registry and the movie recording machinery.
type core struct {
	q   *dispatch.Queue
	log *slog.Logger

	// flash is owned by the adapter and mutated only on the coordination
	// queue.
	flash capture.FlashMode

	// still is set for the legacy variant so flash changes reach the
	// output.
	still platform.StillImageOutput

	movie   platform.MovieOutput
	movieOK bool

	mu          sync.Mutex
	inflight    map[uuid.UUID]struct{}
	videoActive bool
}

// FlashMode returns the current flash mode.
func (c *core) FlashMode() capture.FlashMode {
	c.q.MustBeOn()
	return c.flash
}

// CycleFlashMode rotates the flash mode and returns the new value.
func (c *core) CycleFlashMode() capture.FlashMode {
	c.q.MustBeOn()
	c.flash = c.flash.Next()
	if c.still != nil {
		c.still.SetFlashMode(c.flash)
	}
	return c.flash
}

// MovieOutput returns the movie output for session attachment.
func (c *core) MovieOutput() (platform.MovieOutput, bool) {
	return c.movie, c.movieOK
}

// VideoAvailable reports whether movie recording can be used.
func (c *core) VideoAvailable() bool {
	return c.movieOK
}

// track registers an in-flight photo request.
func (c *core) track(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == nil {
		c.inflight = map[uuid.UUID]struct{}{}
	}
	c.inflight[id] = struct{}{}
}

// release removes a completed photo request.
func (c *core) release(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
}

// InFlight returns the number of pending photo requests.
func (c *core) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

// completePhoto validates and normalizes a raw capture completion, then
// hands it to done and releases the in-flight entry. Runs on an arbitrary
// goroutine.
func (c *core) completePhoto(id uuid.UUID, o capture.Orientation, data []byte, err error, done func(PhotoResult)) {
	defer c.release(id)
	res := PhotoResult{ID: id, Orientation: o}
	switch {
	case err != nil:
		res.Err = fmt.Errorf("capturing photo: %w", err)
	case len(data) == 0:
		res.Err = fmt.Errorf("capture returned no photo data")
	default:
		res.Data = normalizeOrientation(data, o, c.log)
	}
	done(res)
}

// modernAdapter drives the modern photo output with per-shot settings.
type modernAdapter struct {
	*core
	out platform.PhotoOutput
}

var _ Adapter = (*modernAdapter)(nil)

// PhotoOutput returns the modern photo output for session attachment.
func (a *modernAdapter) PhotoOutput() platform.Output {
	return a.out
}

// TakePhoto builds per-shot settings from the current flash mode and
// output capabilities, then triggers an asynchronous capture.
func (a *modernAdapter) TakePhoto(o capture.Orientation, done func(PhotoResult)) {
	a.q.MustBeOn()
	settings := platform.PhotoSettings{
		Flash:          a.flash,
		HighResolution: a.out.SupportsHighResolution(),
		Stabilization:  a.out.SupportsStabilization(),
		Orientation:    o,
	}
	id := uuid.New()
	a.track(id)
	a.out.CapturePhoto(settings, func(data []byte, err error) {
		a.completePhoto(id, o, data, err, done)
	})
}

// legacyAdapter drives the legacy still-image output. Flash mode is pushed
// to the output when it changes rather than carried per shot.
type legacyAdapter struct {
	*core
	out platform.StillImageOutput
}

var _ Adapter = (*legacyAdapter)(nil)

// PhotoOutput returns the legacy still-image output for session attachment.
func (a *legacyAdapter) PhotoOutput() platform.Output {
	return a.out
}

// TakePhoto triggers an asynchronous still-image capture.
func (a *legacyAdapter) TakePhoto(o capture.Orientation, done func(PhotoResult)) {
	a.q.MustBeOn()
	id := uuid.New()
	a.track(id)
	a.out.CaptureStillImage(o, func(data []byte, err error) {
		a.completePhoto(id, o, data, err, done)
	})
}
