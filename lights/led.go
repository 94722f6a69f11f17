package lights

import (
	"fmt"
	"slices"
	"strings"

	"github.com/scheerer/mystic-light-controller/mlapi"
)

// LED is one addressable LED or LED area of a device.
//
// Identity, ceilings and the style set are fixed at construction. The
// mutable attributes change only through the setters, which validate
// locally, write to the driver and update the cache only when the driver
// reports success.
type LED struct {
	gw     mlapi.Gateway
	device string
	index  uint32
	name   string

	maxBrightness uint32
	maxSpeed      uint32
	styles        []string

	brightness uint32
	speed      uint32
	style      string
	color      Color
}

// newLED reads the ceilings and current state of one LED. The LED does not
// exist if any read fails.
func newLED(gw mlapi.Gateway, device string, index uint32) (*LED, error) {
	l := &LED{gw: gw, device: device, index: index}

	fail := func(what string, err error) (*LED, error) {
		return nil, fmt.Errorf("cannot initialize led %d of device %s: error while trying to get %s: %w", index, device, what, err)
	}

	maxSpeed, status := gw.GetLedMaxSpeed(device, index)
	if err := mlapi.Check(gw, "get led max speed", status); err != nil {
		return fail("max speed", err)
	}
	l.maxSpeed = maxSpeed

	maxBrightness, status := gw.GetLedMaxBrightness(device, index)
	if err := mlapi.Check(gw, "get led max brightness", status); err != nil {
		return fail("max brightness", err)
	}
	l.maxBrightness = maxBrightness

	name, styles, status := gw.GetLedInfo(device, index)
	if err := mlapi.Check(gw, "get led info", status); err != nil {
		return fail("led styles", err)
	}
	l.name = name
	l.styles = slices.Clone(styles)

	style, status := gw.GetLedStyle(device, index)
	if err := mlapi.Check(gw, "get led style", status); err != nil {
		return fail("current style", err)
	}
	if !slices.Contains(l.styles, style) {
		return fail("current style", fmt.Errorf("%w: style %q is not one of %v", mlapi.ErrMalformedResponse, style, l.styles))
	}
	l.style = style

	speed, status := gw.GetLedSpeed(device, index)
	if err := mlapi.Check(gw, "get led speed", status); err != nil {
		return fail("current speed", err)
	}
	l.speed = speed

	brightness, status := gw.GetLedBrightness(device, index)
	if err := mlapi.Check(gw, "get led brightness", status); err != nil {
		return fail("current brightness", err)
	}
	l.brightness = brightness

	r, g, b, status := gw.GetLedColor(device, index)
	if err := mlapi.Check(gw, "get led color", status); err != nil {
		return fail("current color", err)
	}
	l.color = NewColor(r, g, b)

	return l, nil
}

func (l *LED) Device() string        { return l.device }
func (l *LED) Index() uint32         { return l.index }
func (l *LED) Name() string          { return l.name }
func (l *LED) MaxBrightness() uint32 { return l.maxBrightness }
func (l *LED) MaxSpeed() uint32      { return l.maxSpeed }
func (l *LED) Brightness() uint32    { return l.brightness }
func (l *LED) Speed() uint32         { return l.speed }
func (l *LED) Style() string         { return l.style }
func (l *LED) Color() Color          { return l.color }

// Styles returns a copy of the styles the LED supports.
func (l *LED) Styles() []string {
	return slices.Clone(l.styles)
}

func (l *LED) SupportsStyle(style string) bool {
	return slices.Contains(l.styles, style)
}

func (l *LED) SetBrightness(brightness uint32) error {
	if brightness > l.maxBrightness {
		return fmt.Errorf("%w: brightness %d, max brightness is %d", ErrValidationRejected, brightness, l.maxBrightness)
	}
	status := l.gw.SetLedBrightness(l.device, l.index, brightness)
	if err := mlapi.Check(l.gw, "set led brightness", status); err != nil {
		return fmt.Errorf("cannot set new led brightness: %w", err)
	}
	l.brightness = brightness
	return nil
}

func (l *LED) SetSpeed(speed uint32) error {
	if speed > l.maxSpeed {
		return fmt.Errorf("%w: speed %d, max speed is %d", ErrValidationRejected, speed, l.maxSpeed)
	}
	status := l.gw.SetLedSpeed(l.device, l.index, speed)
	if err := mlapi.Check(l.gw, "set led speed", status); err != nil {
		return fmt.Errorf("cannot set new led speed: %w", err)
	}
	l.speed = speed
	return nil
}

func (l *LED) SetStyle(style string) error {
	if !l.SupportsStyle(style) {
		return fmt.Errorf("%w: style %q not supported, available styles are %s", ErrValidationRejected, style, strings.Join(l.styles, ", "))
	}
	status := l.gw.SetLedStyle(l.device, l.index, style)
	if err := mlapi.Check(l.gw, "set led style", status); err != nil {
		return fmt.Errorf("cannot set new led style: %w", err)
	}
	l.style = style
	return nil
}

// SetColor does not call the driver when c equals the cached color.
func (l *LED) SetColor(c Color) error {
	if c == l.color {
		return nil
	}
	status := l.gw.SetLedColor(l.device, l.index, c.R(), c.G(), c.B())
	if err := mlapi.Check(l.gw, "set led color", status); err != nil {
		return fmt.Errorf("cannot set new led color: %w", err)
	}
	l.color = c
	return nil
}

func (l *LED) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LED %d (device: %s", l.index, l.device)
	if l.name != "" {
		fmt.Fprintf(&sb, ", name: %s", l.name)
	}
	sb.WriteString("):\n")
	fmt.Fprintf(&sb, "\tCurrent color: %s\n", l.color)
	fmt.Fprintf(&sb, "\tCurrent style: %s\n", l.style)
	fmt.Fprintf(&sb, "\tCurrent speed: %d (Max: %d)\n", l.speed, l.maxSpeed)
	fmt.Fprintf(&sb, "\tCurrent brightness: %d (Max: %d)\n", l.brightness, l.maxBrightness)
	fmt.Fprintf(&sb, "\tPossible styles: %s", strings.Join(l.styles, ", "))
	return sb.String()
}
