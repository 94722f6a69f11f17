// Package screen captures displays and reduces them to a single color.
package screen

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Capture grabs the whole of display n; 0 is the primary display.
func Capture(n int) (*image.RGBA, error) {
	if active := screenshot.NumActiveDisplays(); n >= active {
		return nil, fmt.Errorf("screen %d not found, %d active displays", n, active)
	}
	img, err := screenshot.CaptureDisplay(n)
	if err != nil {
		return nil, fmt.Errorf("capture screen %d: %w", n, err)
	}
	return img, nil
}
