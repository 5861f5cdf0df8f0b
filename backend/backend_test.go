package backend_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/backend"
	"github.com/Istiakmorsalin/Signal-iOS/dispatch"
	"github.com/Istiakmorsalin/Signal-iOS/platform/sim"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAdapter(t *testing.T, opts sim.Opts) (backend.Adapter, *dispatch.Queue) {
	t.Helper()
	q := dispatch.New("test")
	t.Cleanup(q.Close)
	return backend.New(sim.NewProvider(opts), q, testLogger()), q
}

func TestVariantSelection(t *testing.T) {
	modern, _ := newTestAdapter(t, sim.Opts{})
	if kind := modern.PhotoOutput().Kind(); kind != "photo" {
		t.Fatalf("modern stack selected %q output", kind)
	}
	legacy, _ := newTestAdapter(t, sim.Opts{LegacyPhoto: true})
	if kind := legacy.PhotoOutput().Kind(); kind != "stillImage" {
		t.Fatalf("legacy stack selected %q output", kind)
	}
}

func TestTakePhoto(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		a, q := newTestAdapter(t, sim.Opts{LegacyPhoto: legacy})
		results := make(chan backend.PhotoResult, 1)
		if err := q.Sync(func() {
			a.TakePhoto(capture.OrientationPortrait, func(res backend.PhotoResult) {
				results <- res
			})
		}); err != nil {
			t.Fatalf("legacy=%v: sync: %v", legacy, err)
		}
		res := <-results
		if res.Err != nil {
			t.Fatalf("legacy=%v: photo: %v", legacy, res.Err)
		}
		if len(res.Data) == 0 {
			t.Fatalf("legacy=%v: photo completed without data", legacy)
		}
		if res.Orientation != capture.OrientationPortrait {
			t.Fatalf("legacy=%v: orientation %v, expected portrait", legacy, res.Orientation)
		}
	}
}

func TestConcurrentPhotosTrackedIndependently(t *testing.T) {
	a, q := newTestAdapter(t, sim.Opts{PhotoDelay: 30 * time.Millisecond})
	const n = 5
	results := make(chan backend.PhotoResult, n)

	if err := q.Sync(func() {
		for i := 0; i < n; i++ {
			a.TakePhoto(capture.OrientationPortrait, func(res backend.PhotoResult) {
				results <- res
			})
		}
		if got := a.InFlight(); got != n {
			t.Errorf("in-flight count %d, expected %d", got, n)
		}
	}); err != nil {
		t.Fatalf("sync: %v", err)
	}

	ids := map[uuid.UUID]bool{}
	for i := 0; i < n; i++ {
		res := <-results
		if res.Err != nil {
			t.Fatalf("photo %d: %v", i, res.Err)
		}
		if ids[res.ID] {
			t.Fatalf("duplicate request id %s", res.ID)
		}
		ids[res.ID] = true
	}

	deadline := time.Now().Add(time.Second)
	for a.InFlight() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("in-flight requests never drained: %d", a.InFlight())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPhotoError(t *testing.T) {
	boom := errors.New("sensor failure")
	a, q := newTestAdapter(t, sim.Opts{PhotoErr: boom})
	results := make(chan backend.PhotoResult, 1)
	_ = q.Sync(func() {
		a.TakePhoto(capture.OrientationPortrait, func(res backend.PhotoResult) {
			results <- res
		})
	})
	res := <-results
	if !errors.Is(res.Err, boom) {
		t.Fatalf("photo error: got %v, expected wrapped sensor failure", res.Err)
	}
	if res.Data != nil {
		t.Fatalf("failed photo carried data")
	}
}

func TestFlashCycleReachesLegacyOutput(t *testing.T) {
	p := sim.NewProvider(sim.Opts{LegacyPhoto: true})
	q := dispatch.New("test")
	defer q.Close()
	a := backend.New(p, q, testLogger())

	still := a.PhotoOutput().(*sim.StillImageOutput)
	if got := still.FlashMode(); got != capture.FlashModeAuto {
		t.Fatalf("initial flash on output: %v, expected auto", got)
	}
	var mode capture.FlashMode
	_ = q.Sync(func() { mode = a.CycleFlashMode() })
	if mode != capture.FlashModeOn {
		t.Fatalf("cycled mode: %v, expected on", mode)
	}
	if got := still.FlashMode(); got != capture.FlashModeOn {
		t.Fatalf("flash change did not reach legacy output: %v", got)
	}
}

func TestVideoRecording(t *testing.T) {
	a, q := newTestAdapter(t, sim.Opts{})
	results := make(chan backend.VideoResult, 1)

	var beginErr error
	_ = q.Sync(func() {
		beginErr = a.BeginVideo(capture.OrientationLandscapeRight, func(res backend.VideoResult) {
			results <- res
		})
	})
	if beginErr != nil {
		t.Fatalf("begin video: %v", beginErr)
	}

	var dupErr error
	_ = q.Sync(func() {
		dupErr = a.BeginVideo(capture.OrientationLandscapeRight, func(backend.VideoResult) {})
	})
	if !errors.Is(dupErr, capture.ErrRecordingActive) {
		t.Fatalf("second begin: got %v, expected ErrRecordingActive", dupErr)
	}

	_ = q.Sync(func() { a.CompleteVideo() })
	res := <-results
	if res.Err != nil {
		t.Fatalf("recording: %v", res.Err)
	}
	fi, err := os.Stat(res.Path)
	if err != nil || fi.Size() == 0 {
		t.Fatalf("recording file missing or empty: %v", err)
	}
	os.RemoveAll(filepath.Dir(res.Path))
}

func TestSpuriousRecordingErrorSuppressed(t *testing.T) {
	a, q := newTestAdapter(t, sim.Opts{SpuriousRecordErr: true})
	results := make(chan backend.VideoResult, 1)

	_ = q.Sync(func() {
		if err := a.BeginVideo(capture.OrientationPortrait, func(res backend.VideoResult) {
			results <- res
		}); err != nil {
			t.Errorf("begin video: %v", err)
		}
	})
	_ = q.Sync(func() { a.CompleteVideo() })

	res := <-results
	if res.Err != nil {
		t.Fatalf("spurious stop error not suppressed: %v", res.Err)
	}
	if fi, err := os.Stat(res.Path); err != nil || fi.Size() == 0 {
		t.Fatalf("recording file missing despite finalization: %v", err)
	}
	os.RemoveAll(filepath.Dir(res.Path))
}

func TestGenuineRecordingError(t *testing.T) {
	boom := errors.New("disk full")
	a, q := newTestAdapter(t, sim.Opts{RecordErr: boom})
	results := make(chan backend.VideoResult, 1)

	_ = q.Sync(func() {
		if err := a.BeginVideo(capture.OrientationPortrait, func(res backend.VideoResult) {
			results <- res
		}); err != nil {
			t.Errorf("begin video: %v", err)
		}
	})

	res := <-results
	if !errors.Is(res.Err, boom) {
		t.Fatalf("recording error: got %v, expected wrapped disk full", res.Err)
	}
}

func TestVideoUnavailable(t *testing.T) {
	a, q := newTestAdapter(t, sim.Opts{NoMovie: true})
	if a.VideoAvailable() {
		t.Fatalf("video available on movie-less stack")
	}
	var err error
	_ = q.Sync(func() {
		err = a.BeginVideo(capture.OrientationPortrait, func(backend.VideoResult) {})
	})
	if !errors.Is(err, capture.ErrMovieOutputUnavailable) {
		t.Fatalf("begin video: got %v, expected ErrMovieOutputUnavailable", err)
	}
}

func TestCancelVideoUnsupported(t *testing.T) {
	a, q := newTestAdapter(t, sim.Opts{})
	var err error
	_ = q.Sync(func() { err = a.CancelVideo() })
	if !errors.Is(err, capture.ErrVideoCancelUnsupported) {
		t.Fatalf("cancel video: got %v, expected ErrVideoCancelUnsupported", err)
	}
}
