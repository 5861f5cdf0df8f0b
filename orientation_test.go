package capture_test

import (
	"testing"

	capture "github.com/Istiakmorsalin/Signal-iOS"
)

func TestResolveOrientation(t *testing.T) {
	cases := []struct {
		raw  capture.DeviceOrientation
		want capture.Orientation
		ok   bool
	}{
		{capture.DeviceOrientationPortrait, capture.OrientationPortrait, true},
		{capture.DeviceOrientationPortraitUpsideDown, capture.OrientationPortraitUpsideDown, true},
		{capture.DeviceOrientationLandscapeLeft, capture.OrientationLandscapeLeft, true},
		{capture.DeviceOrientationLandscapeRight, capture.OrientationLandscapeRight, true},
		{capture.DeviceOrientationFaceUp, 0, false},
		{capture.DeviceOrientationFaceDown, 0, false},
		{capture.DeviceOrientationUnknown, 0, false},
	}
	for _, c := range cases {
		got, ok := capture.ResolveOrientation(c.raw)
		if ok != c.ok {
			t.Errorf("ResolveOrientation(%v): ok %v, expected %v", c.raw, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ResolveOrientation(%v): got %v, expected %v", c.raw, got, c.want)
		}
	}
}

func TestFlashModeCycle(t *testing.T) {
	mode := capture.FlashModeAuto
	want := []capture.FlashMode{capture.FlashModeOn, capture.FlashModeOff, capture.FlashModeAuto, capture.FlashModeOn}
	for i, w := range want {
		mode = mode.Next()
		if mode != w {
			t.Fatalf("cycle step %d: got %v, expected %v", i, mode, w)
		}
	}

	if got := capture.FlashMode(42).Next(); got != capture.FlashModeAuto {
		t.Errorf("Next on unknown mode: got %v, expected auto", got)
	}
}

func TestPositionToggled(t *testing.T) {
	if capture.PositionBack.Toggled() != capture.PositionFront {
		t.Errorf("back did not toggle to front")
	}
	if capture.PositionFront.Toggled() != capture.PositionBack {
		t.Errorf("front did not toggle to back")
	}
}
