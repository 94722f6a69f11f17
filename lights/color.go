package lights

import (
	"fmt"
	"image/color"
)

// MaxChannel is the largest value an RGB channel accepts.
const MaxChannel = 255

// Color is an RGB value as the SDK sees it. Channels above MaxChannel are
// ignored on assignment: the channel keeps its previous value and no error
// is reported. Colors compare with ==.
type Color struct {
	r, g, b uint32
}

// NewColor builds a color from zero, so out of range channels stay 0.
func NewColor(r, g, b uint32) Color {
	var c Color
	c.SetR(r)
	c.SetG(g)
	c.SetB(b)
	return c
}

// FromRGBA converts a screen sample, dropping alpha.
func FromRGBA(c color.RGBA) Color {
	return Color{r: uint32(c.R), g: uint32(c.G), b: uint32(c.B)}
}

func (c Color) R() uint32 { return c.r }
func (c Color) G() uint32 { return c.g }
func (c Color) B() uint32 { return c.b }

func (c *Color) SetR(v uint32) {
	if v <= MaxChannel {
		c.r = v
	}
}

func (c *Color) SetG(v uint32) {
	if v <= MaxChannel {
		c.g = v
	}
}

func (c *Color) SetB(v uint32) {
	if v <= MaxChannel {
		c.b = v
	}
}

// RGBA returns the opaque color.RGBA equivalent.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: uint8(c.r), G: uint8(c.g), B: uint8(c.b), A: 0xFF}
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.r, c.g, c.b)
}
