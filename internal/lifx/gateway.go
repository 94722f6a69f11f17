// Package lifx drives a LIFX group through the mlapi.Gateway interface.
//
// The group label is the only device type and every bulb in the group is
// one LED, ordered by bulb ID. Bulbs only know two styles: Steady (powered
// on) and Off. Brightness runs from 0 to 100 and speed from 0 to 10, where
// speed is the transition time in 100ms steps.
package lifx

import (
	"context"
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/scheerer/mystic-light-controller/internal/logging"
	"github.com/scheerer/mystic-light-controller/mlapi"
)

var logger = logging.New("lifx")

const (
	StyleSteady = "Steady"
	StyleOff    = "Off"

	MaxBrightness = 100
	MaxSpeed      = 10

	speedStep = 100 * time.Millisecond
	kelvin    = 3500
)

var styles = []string{StyleOff, StyleSteady}

// bulb is the part of common.Light the gateway uses.
type bulb interface {
	ID() uint64
	GetLabel() (string, error)
	GetPower() (bool, error)
	SetPowerDuration(state bool, duration time.Duration) error
	GetColor() (common.Color, error)
	SetColor(color common.Color, duration time.Duration) error
}

type led struct {
	bulb  bulb
	label string

	hue, saturation uint16
	// value is the HSV value of the last color set, it scales brightness.
	value      float64
	brightness uint32
	speed      uint32
}

type Config struct {
	GroupName string
	Timeout   time.Duration
}

type Gateway struct {
	group    string
	discover func() ([]bulb, error)
	closer   func() error

	initialized bool
	leds        []*led
}

var _ mlapi.Gateway = (*Gateway)(nil)

// NewGateway creates a LIFX client. Discovery only starts with Initialize.
func NewGateway(config Config) (*Gateway, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, err
	}
	client.SetDiscoveryInterval(15 * time.Second)

	g := newGateway(config.GroupName, func() ([]bulb, error) {
		return discoverGroup(client, config)
	})
	g.closer = client.Close
	return g, nil
}

func newGateway(group string, discover func() ([]bulb, error)) *Gateway {
	return &Gateway{group: group, discover: discover}
}

func discoverGroup(client *golifx.Client, config Config) ([]bulb, error) {
	logger.With(zap.String("group", config.GroupName)).Info("LIFX discovery starting...")

	type result struct {
		group common.Group
		err   error
	}
	completed := make(chan result, 1)
	go func() {
		g, err := client.GetGroupByLabel(config.GroupName)
		completed <- result{group: g, err: err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		logger.With(zap.Error(ctx.Err())).Warn("LIFX discovery timed out.")
		return nil, common.ErrTimeout
	case r := <-completed:
		if r.err != nil {
			logger.With(zap.Error(r.err)).Warn("Failed to get LIFX group by label")
			return nil, r.err
		}
		var bulbs []bulb
		for _, l := range r.group.Lights() {
			bulbs = append(bulbs, l)
		}
		logger.With(zap.String("group", r.group.GetLabel()), zap.Int("lights", len(bulbs))).Info("LIFX group found")
		return bulbs, nil
	}
}

// Close releases the LIFX client.
func (g *Gateway) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}

func statusOf(err error) mlapi.Status {
	switch {
	case err == nil:
		return mlapi.StatusOK
	case errors.Is(err, common.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return mlapi.StatusTimeout
	default:
		return mlapi.StatusError
	}
}

func (g *Gateway) Initialize() mlapi.Status {
	bulbs, err := g.discover()
	if err != nil {
		return statusOf(err)
	}
	sort.Slice(bulbs, func(i, j int) bool { return bulbs[i].ID() < bulbs[j].ID() })

	leds := make([]*led, 0, len(bulbs))
	for _, b := range bulbs {
		l := &led{bulb: b, value: 1}
		if l.label, err = b.GetLabel(); err != nil {
			return statusOf(err)
		}
		c, err := b.GetColor()
		if err != nil {
			return statusOf(err)
		}
		l.hue, l.saturation = c.Hue, c.Saturation
		l.brightness = uint32(math.Round(float64(c.Brightness) * MaxBrightness / math.MaxUint16))
		leds = append(leds, l)
	}

	g.leds = leds
	g.initialized = true
	return mlapi.StatusOK
}

func (g *Gateway) GetDeviceInfo() ([]string, []string, mlapi.Status) {
	if !g.initialized {
		return nil, nil, mlapi.StatusNotInitialized
	}
	return []string{g.group}, []string{strconv.Itoa(len(g.leds))}, mlapi.StatusOK
}

func (g *Gateway) lookup(device string, index uint32) (*led, mlapi.Status) {
	switch {
	case !g.initialized:
		return nil, mlapi.StatusNotInitialized
	case device != g.group:
		return nil, mlapi.StatusDeviceNotFound
	case index >= uint32(len(g.leds)):
		return nil, mlapi.StatusInvalidArgument
	}
	return g.leds[index], mlapi.StatusOK
}

func (l *led) transition() time.Duration {
	return time.Duration(l.speed) * speedStep
}

// push sends the cached hue, saturation and scaled brightness to the bulb.
func (l *led) push(value float64, brightness uint32) error {
	c := common.Color{
		Hue:        l.hue,
		Saturation: l.saturation,
		Brightness: uint16(math.Round(value * float64(brightness) / MaxBrightness * math.MaxUint16)),
		Kelvin:     kelvin,
	}
	return l.bulb.SetColor(c, l.transition())
}

func (g *Gateway) GetLedInfo(device string, index uint32) (string, []string, mlapi.Status) {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return "", nil, status
	}
	return l.label, append([]string(nil), styles...), mlapi.StatusOK
}

// GetLedColor reports the bulb's hue and saturation at full value.
func (g *Gateway) GetLedColor(device string, index uint32) (uint32, uint32, uint32, mlapi.Status) {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return 0, 0, 0, status
	}
	hue := float64(l.hue) / math.MaxUint16 * 360
	sat := float64(l.saturation) / math.MaxUint16
	r, gr, b := colorful.Hsv(hue, sat, l.value).RGB255()
	return uint32(r), uint32(gr), uint32(b), mlapi.StatusOK
}

func (g *Gateway) SetLedColor(device string, index uint32, r, gr, b uint32) mlapi.Status {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return status
	}
	if r > 255 || gr > 255 || b > 255 {
		return mlapi.StatusInvalidArgument
	}

	h, s, v := colorful.Color{R: float64(r) / 255, G: float64(gr) / 255, B: float64(b) / 255}.Hsv()
	prevHue, prevSat := l.hue, l.saturation
	l.hue = uint16(math.Round(h / 360 * math.MaxUint16))
	l.saturation = uint16(math.Round(s * math.MaxUint16))
	if err := l.push(v, l.brightness); err != nil {
		l.hue, l.saturation = prevHue, prevSat
		logger.With(zap.Uint64("bulb", l.bulb.ID()), zap.Error(err)).Warn("Failed to set LIFX color")
		return statusOf(err)
	}
	l.value = v
	return mlapi.StatusOK
}

func (g *Gateway) GetLedStyle(device string, index uint32) (string, mlapi.Status) {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return "", status
	}
	on, err := l.bulb.GetPower()
	if err != nil {
		return "", statusOf(err)
	}
	if on {
		return StyleSteady, mlapi.StatusOK
	}
	return StyleOff, mlapi.StatusOK
}

func (g *Gateway) SetLedStyle(device string, index uint32, style string) mlapi.Status {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return status
	}
	var on bool
	switch style {
	case StyleSteady:
		on = true
	case StyleOff:
	default:
		return mlapi.StatusNotSupported
	}
	if err := l.bulb.SetPowerDuration(on, l.transition()); err != nil {
		logger.With(zap.Uint64("bulb", l.bulb.ID()), zap.Error(err)).Warn("Failed to set LIFX power")
		return statusOf(err)
	}
	return mlapi.StatusOK
}

func (g *Gateway) GetLedBrightness(device string, index uint32) (uint32, mlapi.Status) {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return 0, status
	}
	return l.brightness, mlapi.StatusOK
}

func (g *Gateway) SetLedBrightness(device string, index uint32, level uint32) mlapi.Status {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return status
	}
	if level > MaxBrightness {
		return mlapi.StatusInvalidArgument
	}
	if err := l.push(l.value, level); err != nil {
		logger.With(zap.Uint64("bulb", l.bulb.ID()), zap.Error(err)).Warn("Failed to set LIFX brightness")
		return statusOf(err)
	}
	l.brightness = level
	return mlapi.StatusOK
}

func (g *Gateway) GetLedMaxBrightness(device string, index uint32) (uint32, mlapi.Status) {
	if _, status := g.lookup(device, index); !status.OK() {
		return 0, status
	}
	return MaxBrightness, mlapi.StatusOK
}

func (g *Gateway) GetLedSpeed(device string, index uint32) (uint32, mlapi.Status) {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return 0, status
	}
	return l.speed, mlapi.StatusOK
}

// SetLedSpeed only changes the transition used by later writes.
func (g *Gateway) SetLedSpeed(device string, index uint32, level uint32) mlapi.Status {
	l, status := g.lookup(device, index)
	if !status.OK() {
		return status
	}
	if level > MaxSpeed {
		return mlapi.StatusInvalidArgument
	}
	l.speed = level
	return mlapi.StatusOK
}

func (g *Gateway) GetLedMaxSpeed(device string, index uint32) (uint32, mlapi.Status) {
	if _, status := g.lookup(device, index); !status.OK() {
		return 0, status
	}
	return MaxSpeed, mlapi.StatusOK
}

func (g *Gateway) GetErrorMessage(code mlapi.Status) string {
	return mlapi.Message(code)
}
