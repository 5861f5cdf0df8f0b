package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/platform/sim"
)

func TestFocusAtAndSubjectAreaReset(t *testing.T) {
	f := newFixture(t, sim.Opts{}, nil)
	require.NoError(t, f.coord.Start(ctx(t)))
	dev := f.provider.Device(capture.PositionBack)

	// Startup reset leaves continuous auto at center with monitoring off.
	focus, fp, expo, ep, monitoring := dev.FocusState()
	require.Equal(t, capture.FocusModeContinuousAuto, focus)
	require.Equal(t, capture.CenterPoint, fp)
	require.Equal(t, capture.ExposureModeContinuousAuto, expo)
	require.Equal(t, capture.CenterPoint, ep)
	require.False(t, monitoring)

	tap := capture.Point{X: 0.25, Y: 0.75}
	f.coord.FocusAt(tap)
	f.settle(t)

	focus, fp, expo, ep, monitoring = dev.FocusState()
	require.Equal(t, capture.FocusModeAuto, focus)
	require.Equal(t, tap, fp)
	require.Equal(t, capture.ExposureModeAuto, expo)
	require.Equal(t, tap, ep)
	require.True(t, monitoring)

	// A subject-area change snaps back to continuous auto at center.
	dev.TriggerSubjectAreaChange()
	f.settle(t)
	focus, fp, _, _, monitoring = dev.FocusState()
	require.Equal(t, capture.FocusModeContinuousAuto, focus)
	require.Equal(t, capture.CenterPoint, fp)
	require.False(t, monitoring)
}

func TestFocusSkippedWhenLockFails(t *testing.T) {
	f := newFixture(t, sim.Opts{FailDeviceLock: true}, nil)
	require.NoError(t, f.coord.Start(ctx(t)))
	dev := f.provider.Device(capture.PositionBack)

	calls := dev.FocusCalls()
	f.coord.FocusAt(capture.Point{X: 0.1, Y: 0.1})
	f.settle(t)
	require.Equal(t, calls, dev.FocusCalls(), "focus applied despite lock failure")
}

func TestSetZoom(t *testing.T) {
	f := newFixture(t, sim.Opts{}, nil)
	require.NoError(t, f.coord.Start(ctx(t)))
	dev := f.provider.Device(capture.PositionBack)

	f.coord.SetZoom(0.5)
	f.settle(t)
	require.InDelta(t, 2.0, dev.Zoom(), 1e-9)

	f.coord.SetZoom(1.0)
	f.settle(t)
	require.InDelta(t, 3.0, dev.Zoom(), 1e-9)
}

func TestZoomClampedToDevice(t *testing.T) {
	// The front camera caps at 2x, below the configured 3x maximum.
	f := newFixture(t, sim.Opts{}, nil)
	require.NoError(t, f.coord.Start(ctx(t)))
	require.NoError(t, f.coord.SwitchCamera(ctx(t)))
	dev := f.provider.Device(capture.PositionFront)

	f.coord.SetZoom(1.0)
	f.settle(t)
	require.InDelta(t, 2.0, dev.Zoom(), 1e-9)
}

func TestPinchZoomBaseline(t *testing.T) {
	f := newFixture(t, sim.Opts{}, nil)
	require.NoError(t, f.coord.Start(ctx(t)))
	dev := f.provider.Device(capture.PositionBack)

	// Transient updates scale from the committed baseline, not from each
	// other.
	f.coord.UpdateZoom(1.5)
	f.settle(t)
	require.InDelta(t, 1.5, dev.Zoom(), 1e-9)

	f.coord.UpdateZoom(2.0)
	f.settle(t)
	require.InDelta(t, 2.0, dev.Zoom(), 1e-9)

	// Completion commits; the next gesture scales from there.
	f.coord.CompleteZoom(2.0)
	f.settle(t)
	require.InDelta(t, 2.0, dev.Zoom(), 1e-9)

	f.coord.UpdateZoom(1.25)
	f.settle(t)
	require.InDelta(t, 2.5, dev.Zoom(), 1e-9)

	// Overshoot clamps to the configured maximum.
	f.coord.CompleteZoom(10)
	f.settle(t)
	require.InDelta(t, 3.0, dev.Zoom(), 1e-9)
}

func TestZoomAlphaForGesture(t *testing.T) {
	f := newFixture(t, sim.Opts{}, nil)
	f.rec.height = 400
	f.router.SetConsumer(f.rec.consumer())

	require.InDelta(t, 0.5, f.coord.ZoomAlphaForGesture(200), 1e-9)
	require.InDelta(t, 1.0, f.coord.ZoomAlphaForGesture(800), 1e-9)
	require.InDelta(t, 0.0, f.coord.ZoomAlphaForGesture(-50), 1e-9)

	// No reference height means no zoom from gestures.
	f.rec.height = 0
	f.router.SetConsumer(f.rec.consumer())
	require.Zero(t, f.coord.ZoomAlphaForGesture(200))
}

func TestCycleFlash(t *testing.T) {
	f := newFixture(t, sim.Opts{}, nil)
	require.NoError(t, f.coord.Start(ctx(t)))

	require.Equal(t, capture.FlashModeAuto, f.coord.FlashMode())
	require.Equal(t, capture.FlashModeOn, f.coord.CycleFlash())
	require.Equal(t, capture.FlashModeOff, f.coord.CycleFlash())
	require.Equal(t, capture.FlashModeAuto, f.coord.CycleFlash())
}
