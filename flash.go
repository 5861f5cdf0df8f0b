package capture

// FlashMode controls whether the flash fires for a photo.
type FlashMode int

// Flash modes, in cycle order.
const (
	FlashModeAuto FlashMode = iota
	FlashModeOn
	FlashModeOff
)

// Next returns the mode following m in the auto, on, off cycle. Any
// unrecognized mode resets to auto.
func (m FlashMode) Next() FlashMode {
	switch m {
	case FlashModeAuto:
		return FlashModeOn
	case FlashModeOn:
		return FlashModeOff
	case FlashModeOff:
		return FlashModeAuto
	}
	return FlashModeAuto
}

// String returns the flash mode name.
func (m FlashMode) String() string {
	switch m {
	case FlashModeOn:
		return "on"
	case FlashModeOff:
		return "off"
	}
	return "auto"
}
