package lights

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/scheerer/mystic-light-controller/mlapi"
)

// Controller owns the LED inventory of every device the driver reports.
type Controller struct {
	gw     mlapi.Gateway
	logger *zap.SugaredLogger

	initialized bool
	err         error

	devices []string
	leds    map[string][]*LED
}

type Option func(*Controller)

// WithLogger replaces the package logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController initializes the driver and builds the inventory. It never
// fails outright: a driver that cannot be initialized yields an inert
// controller, and construction problems are kept in Err.
func NewController(gw mlapi.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:     gw,
		logger: logger,
		leds:   make(map[string][]*LED),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := mlapi.Check(gw, "initialize", gw.Initialize()); err != nil {
		c.err = fmt.Errorf("could not initialize light api: %w", err)
		c.logger.With(zap.Error(err)).Error("Could not initialize light API")
		return c
	}
	c.initialized = true

	devices, err := mlapi.EnumerateDevices(gw)
	if err != nil {
		c.err = fmt.Errorf("could not fetch devices: %w", err)
		c.logger.With(zap.Error(err)).Error("Could not fetch devices")
		return c
	}

	for _, dev := range devices {
		if dev.LedCount == 0 {
			continue
		}
		leds, err := c.buildDevice(dev)
		if err != nil {
			c.err = multierr.Append(c.err, err)
			c.logger.With(zap.String("device", dev.Type), zap.Error(err)).Error("Skipping device")
			continue
		}
		c.devices = append(c.devices, dev.Type)
		c.leds[dev.Type] = leds
		c.logger.With(zap.String("device", dev.Type), zap.Uint32("leds", dev.LedCount)).Info("Found device")
	}
	return c
}

// buildDevice stops at the first LED that cannot be read.
func (c *Controller) buildDevice(dev mlapi.DeviceInfo) ([]*LED, error) {
	leds := make([]*LED, 0, dev.LedCount)
	for i := uint32(0); i < dev.LedCount; i++ {
		led, err := newLED(c.gw, dev.Type, i)
		if err != nil {
			return nil, err
		}
		leds = append(leds, led)
	}
	return leds, nil
}

// Initialized reports whether the driver accepted initialization. All other
// operations except Err and Devices require it.
func (c *Controller) Initialized() bool {
	return c.initialized
}

// Err returns the failures recorded while building the controller.
func (c *Controller) Err() error {
	return c.err
}

// Devices lists device types in the order the driver reported them.
func (c *Controller) Devices() []string {
	if !c.initialized {
		return []string{}
	}
	return slices.Clone(c.devices)
}

func (c *Controller) LEDs(device string) ([]*LED, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	leds, ok := c.leds[device]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDevice, device)
	}
	return slices.Clone(leds), nil
}

func (c *Controller) LED(device string, index uint32) (*LED, error) {
	leds, err := c.LEDs(device)
	if err != nil {
		return nil, err
	}
	if int(index) >= len(leds) {
		return nil, fmt.Errorf("%w: device %s has %d leds, got index %d", ErrIndexOutOfRange, device, len(leds), index)
	}
	return leds[index], nil
}

// AllLEDs returns the LEDs of every device, devices in enumeration order.
func (c *Controller) AllLEDs() ([]*LED, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	var all []*LED
	for _, dev := range c.devices {
		all = append(all, c.leds[dev]...)
	}
	return all, nil
}

func (c *Controller) LedCount(device string) (int, error) {
	leds, err := c.LEDs(device)
	if err != nil {
		return 0, err
	}
	return len(leds), nil
}

// LedStyles returns the styles supported by the first LED of device.
func (c *Controller) LedStyles(device string) ([]string, error) {
	led, err := c.LED(device, 0)
	if err != nil {
		return nil, err
	}
	return led.Styles(), nil
}

// collect reads one cached attribute of every LED of device.
func collect[T any](c *Controller, device string, get func(*LED) T) ([]T, error) {
	leds, err := c.LEDs(device)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(leds))
	for _, led := range leds {
		out = append(out, get(led))
	}
	return out, nil
}

// single reads one cached attribute of one LED.
func single[T any](c *Controller, device string, index uint32, get func(*LED) T) (T, error) {
	led, err := c.LED(device, index)
	if err != nil {
		var zero T
		return zero, err
	}
	return get(led), nil
}

// setAll applies set to every LED of device. A failing LED is logged and
// does not stop the others; the failures are returned joined.
func (c *Controller) setAll(device, attribute string, set func(*LED) error) error {
	leds, err := c.LEDs(device)
	if err != nil {
		return err
	}
	return c.apply(leds, attribute, set)
}

func (c *Controller) apply(leds []*LED, attribute string, set func(*LED) error) error {
	var errs error
	for _, led := range leds {
		if err := set(led); err != nil {
			c.logger.With(
				zap.String("device", led.Device()),
				zap.Uint32("index", led.Index()),
				zap.String("attribute", attribute),
				zap.Error(err)).
				Warn("Failed to update LED")
			errs = multierr.Append(errs, &LEDError{Device: led.Device(), Index: led.Index(), Err: err})
		}
	}
	return errs
}

func (c *Controller) AllColors(device string) ([]Color, error) {
	return collect(c, device, (*LED).Color)
}

func (c *Controller) Color(device string, index uint32) (Color, error) {
	return single(c, device, index, (*LED).Color)
}

func (c *Controller) SetAllColors(device string, color Color) error {
	return c.setAll(device, "color", func(l *LED) error { return l.SetColor(color) })
}

func (c *Controller) SetColor(device string, index uint32, color Color) error {
	led, err := c.LED(device, index)
	if err != nil {
		return err
	}
	return led.SetColor(color)
}

// SetColorEverywhere sets the color of every LED of every device.
func (c *Controller) SetColorEverywhere(color Color) error {
	leds, err := c.AllLEDs()
	if err != nil {
		return err
	}
	return c.apply(leds, "color", func(l *LED) error { return l.SetColor(color) })
}

func (c *Controller) AllStyles(device string) ([]string, error) {
	return collect(c, device, (*LED).Style)
}

func (c *Controller) Style(device string, index uint32) (string, error) {
	return single(c, device, index, (*LED).Style)
}

func (c *Controller) SetAllStyles(device, style string) error {
	return c.setAll(device, "style", func(l *LED) error { return l.SetStyle(style) })
}

func (c *Controller) SetStyle(device string, index uint32, style string) error {
	led, err := c.LED(device, index)
	if err != nil {
		return err
	}
	return led.SetStyle(style)
}

func (c *Controller) AllBrightness(device string) ([]uint32, error) {
	return collect(c, device, (*LED).Brightness)
}

func (c *Controller) Brightness(device string, index uint32) (uint32, error) {
	return single(c, device, index, (*LED).Brightness)
}

func (c *Controller) AllMaxBrightness(device string) ([]uint32, error) {
	return collect(c, device, (*LED).MaxBrightness)
}

func (c *Controller) MaxBrightness(device string, index uint32) (uint32, error) {
	return single(c, device, index, (*LED).MaxBrightness)
}

func (c *Controller) SetAllBrightness(device string, brightness uint32) error {
	return c.setAll(device, "brightness", func(l *LED) error { return l.SetBrightness(brightness) })
}

func (c *Controller) SetBrightness(device string, index uint32, brightness uint32) error {
	led, err := c.LED(device, index)
	if err != nil {
		return err
	}
	return led.SetBrightness(brightness)
}

func (c *Controller) AllSpeeds(device string) ([]uint32, error) {
	return collect(c, device, (*LED).Speed)
}

func (c *Controller) Speed(device string, index uint32) (uint32, error) {
	return single(c, device, index, (*LED).Speed)
}

func (c *Controller) AllMaxSpeeds(device string) ([]uint32, error) {
	return collect(c, device, (*LED).MaxSpeed)
}

func (c *Controller) MaxSpeed(device string, index uint32) (uint32, error) {
	return single(c, device, index, (*LED).MaxSpeed)
}

func (c *Controller) SetAllSpeeds(device string, speed uint32) error {
	return c.setAll(device, "speed", func(l *LED) error { return l.SetSpeed(speed) })
}

func (c *Controller) SetSpeed(device string, index uint32, speed uint32) error {
	led, err := c.LED(device, index)
	if err != nil {
		return err
	}
	return led.SetSpeed(speed)
}
