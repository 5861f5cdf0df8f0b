// Package capture coordinates a device camera's capture session: selecting
// inputs (camera, microphone), configuring outputs (still photo, movie),
// sequencing live state transitions (focus, exposure, zoom, flash,
// orientation) and routing capture results to a consumer.
package capture

// DeviceOrientation is the raw physical orientation reported by the device.
type DeviceOrientation int

// Raw device orientations. Flat and unknown orientations carry no usable
// capture orientation.
const (
	DeviceOrientationUnknown DeviceOrientation = iota
	DeviceOrientationPortrait
	DeviceOrientationPortraitUpsideDown
	DeviceOrientationLandscapeLeft
	DeviceOrientationLandscapeRight
	DeviceOrientationFaceUp
	DeviceOrientationFaceDown
)

// String returns the raw orientation name.
func (d DeviceOrientation) String() string {
	switch d {
	case DeviceOrientationPortrait:
		return "portrait"
	case DeviceOrientationPortraitUpsideDown:
		return "portraitUpsideDown"
	case DeviceOrientationLandscapeLeft:
		return "landscapeLeft"
	case DeviceOrientationLandscapeRight:
		return "landscapeRight"
	case DeviceOrientationFaceUp:
		return "faceUp"
	case DeviceOrientationFaceDown:
		return "faceDown"
	}
	return "unknown"
}

// Orientation is the orientation tag attached to capture connections,
// independent of raw device orientation.
type Orientation int

// Capture orientations.
const (
	OrientationPortrait Orientation = iota
	OrientationPortraitUpsideDown
	OrientationLandscapeLeft
	OrientationLandscapeRight
)

// String returns the capture orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientationPortraitUpsideDown:
		return "portraitUpsideDown"
	case OrientationLandscapeLeft:
		return "landscapeLeft"
	case OrientationLandscapeRight:
		return "landscapeRight"
	}
	return "portrait"
}

// ResolveOrientation maps a raw device orientation to a capture orientation.
// Face-up, face-down and unknown orientations resolve to no change: ok is
// false and the previously recorded capture orientation must be kept.
func ResolveOrientation(raw DeviceOrientation) (o Orientation, ok bool) {
	switch raw {
	case DeviceOrientationPortrait:
		return OrientationPortrait, true
	case DeviceOrientationPortraitUpsideDown:
		return OrientationPortraitUpsideDown, true
	case DeviceOrientationLandscapeLeft:
		return OrientationLandscapeLeft, true
	case DeviceOrientationLandscapeRight:
		return OrientationLandscapeRight, true
	}
	return 0, false
}
