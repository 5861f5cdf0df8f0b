package capture

// Position selects which physical camera a session captures from.
type Position int

// Camera positions.
const (
	PositionBack Position = iota
	PositionFront
)

// Toggled returns the opposite camera position.
func (p Position) Toggled() Position {
	if p == PositionBack {
		return PositionFront
	}
	return PositionBack
}

// String returns the position name.
func (p Position) String() string {
	if p == PositionFront {
		return "front"
	}
	return "back"
}

// Device describes a capture device available to a session.
type Device struct {
	ID       string
	Name     string
	Position Position

	// MaxZoom is the largest zoom factor the device supports. Zero means
	// the device reports no limit of its own.
	MaxZoom float64
}

// FocusMode selects how a device focuses.
type FocusMode int

// Focus modes.
const (
	FocusModeAuto FocusMode = iota
	FocusModeContinuousAuto
)

// ExposureMode selects how a device meters exposure.
type ExposureMode int

// Exposure modes.
const (
	ExposureModeAuto ExposureMode = iota
	ExposureModeContinuousAuto
)

// Point is a normalized point of interest on the capture frame, with both
// coordinates in [0, 1].
type Point struct {
	X float64
	Y float64
}

// CenterPoint is the center of the capture frame, used when resetting focus
// and exposure.
var CenterPoint = Point{X: 0.5, Y: 0.5}
