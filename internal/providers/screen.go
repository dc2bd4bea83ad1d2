// Package providers wraps the platform primitives the agent delegates to:
// screen capture, command execution / input injection, and system metrics.
// These are stateless shims over OS facilities; all protocol decisions live
// in the pairing and gateway packages.
package providers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/kbinani/screenshot"
)

// Screen captures the primary display and encodes it for transfer.
// Frames are fitted into a bounding box (aspect ratio preserved) and
// JPEG-compressed, then returned as a data URL the mobile app renders
// directly.
type Screen struct {
	width   int
	height  int
	quality int
}

// NewScreen creates a frame source with the given bounding box and JPEG
// quality (1-100).
func NewScreen(width, height, quality int) *Screen {
	return &Screen{width: width, height: height, quality: quality}
}

// Capture grabs one frame of the primary display.
func (s *Screen) Capture() (string, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return "", fmt.Errorf("screen capture: no active displays")
	}

	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return "", fmt.Errorf("screen capture: %w", err)
	}

	fitted := imaging.Fit(img, s.width, s.height, imaging.Linear)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fitted, &jpeg.Options{Quality: s.quality}); err != nil {
		return "", fmt.Errorf("screen capture: encode: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
