package backend

import (
	"bytes"
	"image"
	"image/jpeg"
	"log/slog"

	"github.com/disintegration/imaging"

	capture "github.com/Istiakmorsalin/Signal-iOS"
)

// normalizeOrientation bakes the capture orientation into the encoded photo
// so consumers receive an upright image. Sensor frames arrive in the
// sensor's native landscape-right orientation. Non-JPEG payloads pass
// through untouched; some capture stacks deliver other formats and the
// orientation tag still travels on the result.
func normalizeOrientation(data []byte, o capture.Orientation, log *slog.Logger) []byte {
	if o == capture.OrientationLandscapeRight {
		return data
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug("photo payload is not JPEG, skipping orientation bake", "error", err)
		return data
	}
	var rotated image.Image
	switch o {
	case capture.OrientationPortrait:
		rotated = imaging.Rotate270(img)
	case capture.OrientationPortraitUpsideDown:
		rotated = imaging.Rotate90(img)
	case capture.OrientationLandscapeLeft:
		rotated = imaging.Rotate180(img)
	default:
		return data
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rotated, nil); err != nil {
		log.Debug("re-encoding rotated photo failed, using original", "error", err)
		return data
	}
	return buf.Bytes()
}
