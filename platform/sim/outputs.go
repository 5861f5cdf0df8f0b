package sim

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"sync"
	"time"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/platform"
)

// simFrame encodes a small sensor-native landscape JPEG frame.
func simFrame() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(4 * x), G: uint8(5 * y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		// Encoding an in-memory RGBA image cannot fail.
		panic(err)
	}
	return buf.Bytes()
}

// PhotoOutput is the simulated modern photo output.
type PhotoOutput struct {
	err   error
	delay time.Duration

	mu       sync.Mutex
	captures []platform.PhotoSettings
}

var _ platform.PhotoOutput = (*PhotoOutput)(nil)

// Kind returns "photo".
func (o *PhotoOutput) Kind() string { return "photo" }

// SupportsHighResolution reports per-shot high-resolution support.
func (o *PhotoOutput) SupportsHighResolution() bool { return true }

// SupportsStabilization reports per-shot stabilization support.
func (o *PhotoOutput) SupportsStabilization() bool { return true }

// CapturePhoto records the per-shot settings and completes asynchronously
// with a simulated frame.
func (o *PhotoOutput) CapturePhoto(settings platform.PhotoSettings, done func(data []byte, err error)) {
	o.mu.Lock()
	o.captures = append(o.captures, settings)
	o.mu.Unlock()
	go func() {
		if o.delay > 0 {
			time.Sleep(o.delay)
		}
		if o.err != nil {
			done(nil, o.err)
			return
		}
		done(simFrame(), nil)
	}()
}

// Captures returns the per-shot settings seen so far, for test inspection.
func (o *PhotoOutput) Captures() []platform.PhotoSettings {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]platform.PhotoSettings, len(o.captures))
	copy(out, o.captures)
	return out
}

// StillImageOutput is the simulated legacy photo output.
type StillImageOutput struct {
	err   error
	delay time.Duration

	mu    sync.Mutex
	flash capture.FlashMode
}

var _ platform.StillImageOutput = (*StillImageOutput)(nil)

// Kind returns "stillImage".
func (o *StillImageOutput) Kind() string { return "stillImage" }

// SetFlashMode sets the output-wide flash mode.
func (o *StillImageOutput) SetFlashMode(m capture.FlashMode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.flash = m
}

// FlashMode returns the output-wide flash mode, for test inspection.
func (o *StillImageOutput) FlashMode() capture.FlashMode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flash
}

// CaptureStillImage completes asynchronously with a simulated frame.
func (o *StillImageOutput) CaptureStillImage(orientation capture.Orientation, done func(data []byte, err error)) {
	go func() {
		if o.delay > 0 {
			time.Sleep(o.delay)
		}
		if o.err != nil {
			done(nil, o.err)
			return
		}
		done(simFrame(), nil)
	}()
}

// MovieOutput is the simulated movie output. StartRecording holds the
// recording open until StopRecording, which finalizes the file and invokes
// the completion callback on a fresh goroutine.
type MovieOutput struct {
	recordErr error
	spurious  bool

	mu            sync.Mutex
	recording     bool
	path          string
	done          func(platform.RecordingResult)
	orientation   capture.Orientation
	codec         string
	stabilization bool
}

var _ platform.MovieOutput = (*MovieOutput)(nil)

// Kind returns "movie".
func (o *MovieOutput) Kind() string { return "movie" }

// Recording reports whether a recording is open.
func (o *MovieOutput) Recording() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recording
}

// SetOrientation sets the connection orientation for the next recording.
func (o *MovieOutput) SetOrientation(orientation capture.Orientation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.orientation = orientation
}

// Orientation returns the connection orientation, for test inspection.
func (o *MovieOutput) Orientation() capture.Orientation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.orientation
}

// SetStabilization enables video stabilization on the connection.
func (o *MovieOutput) SetStabilization(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stabilization = enabled
}

// Stabilization returns the connection stabilization flag, for test
// inspection.
func (o *MovieOutput) Stabilization() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stabilization
}

// SetPreferredCodec constrains the movie encoding.
func (o *MovieOutput) SetPreferredCodec(codec string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codec = codec
}

// Codec returns the constrained codec, for test inspection.
func (o *MovieOutput) Codec() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codec
}

// StartRecording opens a recording to path. A configured genuine recording
// error completes immediately without finalizing the file.
func (o *MovieOutput) StartRecording(path string, done func(platform.RecordingResult)) {
	o.mu.Lock()
	if o.recording {
		o.mu.Unlock()
		go done(platform.RecordingResult{Path: path, Err: fmt.Errorf("recording already in progress")})
		return
	}
	o.recording = true
	o.path = path
	o.done = done
	o.mu.Unlock()

	if o.recordErr != nil {
		o.mu.Lock()
		o.recording = false
		o.done = nil
		o.mu.Unlock()
		go done(platform.RecordingResult{Path: path, Err: o.recordErr})
	}
}

// StopRecording finalizes the file and delivers the completion callback.
func (o *MovieOutput) StopRecording() {
	o.mu.Lock()
	if !o.recording {
		o.mu.Unlock()
		return
	}
	o.recording = false
	path := o.path
	done := o.done
	o.done = nil
	o.mu.Unlock()

	go func() {
		res := platform.RecordingResult{Path: path}
		if err := os.WriteFile(path, []byte("simulated mp4 payload"), 0o644); err != nil {
			res.Err = fmt.Errorf("finalizing recording: %w", err)
			done(res)
			return
		}
		if o.spurious {
			res.Err = fmt.Errorf("capture stack reported stop error")
			res.FinalizedDespiteError = true
		}
		done(res)
	}()
}
