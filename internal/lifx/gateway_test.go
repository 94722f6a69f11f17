package lifx

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/pdf/golifx/common"

	"github.com/scheerer/mystic-light-controller/lights"
	"github.com/scheerer/mystic-light-controller/mlapi"
)

type fakeBulb struct {
	id    uint64
	label string
	power bool
	color common.Color
	err   error

	lastDuration time.Duration
	colorWrites  int
}

func (b *fakeBulb) ID() uint64                { return b.id }
func (b *fakeBulb) GetLabel() (string, error) { return b.label, nil }
func (b *fakeBulb) GetPower() (bool, error)   { return b.power, b.err }

func (b *fakeBulb) GetColor() (common.Color, error) {
	return b.color, nil
}

func (b *fakeBulb) SetPowerDuration(state bool, d time.Duration) error {
	if b.err != nil {
		return b.err
	}
	b.power, b.lastDuration = state, d
	return nil
}

func (b *fakeBulb) SetColor(c common.Color, d time.Duration) error {
	if b.err != nil {
		return b.err
	}
	b.color, b.lastDuration = c, d
	b.colorWrites++
	return nil
}

func newTestGateway(t *testing.T, bulbs ...*fakeBulb) *Gateway {
	t.Helper()
	g := newGateway("DESK", func() ([]bulb, error) {
		out := make([]bulb, len(bulbs))
		for i, b := range bulbs {
			out[i] = b
		}
		return out, nil
	})
	if status := g.Initialize(); !status.OK() {
		t.Fatalf("Initialize() = %s", status)
	}
	return g
}

func TestInitializeOrdersBulbsByID(t *testing.T) {
	g := newTestGateway(t,
		&fakeBulb{id: 9, label: "right"},
		&fakeBulb{id: 3, label: "left", color: common.Color{Brightness: math.MaxUint16}},
	)

	types, counts, status := g.GetDeviceInfo()
	if !status.OK() || !slices.Equal(types, []string{"DESK"}) || !slices.Equal(counts, []string{"2"}) {
		t.Fatalf("GetDeviceInfo() = %v, %v, %s", types, counts, status)
	}

	name, styles, status := g.GetLedInfo("DESK", 0)
	if !status.OK() || name != "left" || !slices.Equal(styles, []string{StyleOff, StyleSteady}) {
		t.Errorf("GetLedInfo(0) = %q, %v, %s", name, styles, status)
	}
	if level, _ := g.GetLedBrightness("DESK", 0); level != MaxBrightness {
		t.Errorf("GetLedBrightness(0) = %d, want %d", level, MaxBrightness)
	}
}

func TestInitializeFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want mlapi.Status
	}{
		{"timeout", common.ErrTimeout, mlapi.StatusTimeout},
		{"other", errors.New("socket closed"), mlapi.StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway("DESK", func() ([]bulb, error) { return nil, tt.err })
			if got := g.Initialize(); got != tt.want {
				t.Errorf("Initialize() = %s, want %s", got, tt.want)
			}
			if _, _, status := g.GetDeviceInfo(); status != mlapi.StatusNotInitialized {
				t.Errorf("GetDeviceInfo() = %s, want %s", status, mlapi.StatusNotInitialized)
			}
		})
	}
}

func TestLookupStatuses(t *testing.T) {
	g := newTestGateway(t, &fakeBulb{id: 1})

	if _, status := g.GetLedStyle("KITCHEN", 0); status != mlapi.StatusDeviceNotFound {
		t.Errorf("unknown device = %s", status)
	}
	if _, status := g.GetLedStyle("DESK", 1); status != mlapi.StatusInvalidArgument {
		t.Errorf("bad index = %s", status)
	}
}

func TestColorRoundTrip(t *testing.T) {
	b := &fakeBulb{id: 1}
	g := newTestGateway(t, b)
	if status := g.SetLedBrightness("DESK", 0, 50); !status.OK() {
		t.Fatalf("SetLedBrightness() = %s", status)
	}

	if status := g.SetLedColor("DESK", 0, 255, 0, 0); !status.OK() {
		t.Fatalf("SetLedColor() = %s", status)
	}
	if b.color.Hue != 0 || b.color.Saturation != math.MaxUint16 || b.color.Kelvin != kelvin {
		t.Errorf("bulb color = %+v", b.color)
	}
	if want := uint16(math.MaxUint16 / 2); b.color.Brightness < want || b.color.Brightness > want+1 {
		t.Errorf("bulb brightness = %d, want about %d", b.color.Brightness, want)
	}

	r, gr, bl, status := g.GetLedColor("DESK", 0)
	if !status.OK() || r != 255 || gr != 0 || bl != 0 {
		t.Errorf("GetLedColor() = %d, %d, %d, %s", r, gr, bl, status)
	}

	if status := g.SetLedColor("DESK", 0, 256, 0, 0); status != mlapi.StatusInvalidArgument {
		t.Errorf("SetLedColor(256) = %s", status)
	}
}

func TestBlackTurnsBrightnessDown(t *testing.T) {
	b := &fakeBulb{id: 1, color: common.Color{Brightness: math.MaxUint16}}
	g := newTestGateway(t, b)

	g.SetLedColor("DESK", 0, 0, 0, 0)
	if b.color.Brightness != 0 {
		t.Errorf("bulb brightness = %d, want 0", b.color.Brightness)
	}
	if level, _ := g.GetLedBrightness("DESK", 0); level != MaxBrightness {
		t.Errorf("brightness level = %d, want it kept at %d", level, MaxBrightness)
	}
}

func TestStyleMapsToPower(t *testing.T) {
	b := &fakeBulb{id: 1}
	g := newTestGateway(t, b)

	if style, _ := g.GetLedStyle("DESK", 0); style != StyleOff {
		t.Errorf("GetLedStyle() = %q, want %q", style, StyleOff)
	}
	if status := g.SetLedStyle("DESK", 0, StyleSteady); !status.OK() || !b.power {
		t.Errorf("SetLedStyle(Steady) = %s, power %v", status, b.power)
	}
	if status := g.SetLedStyle("DESK", 0, "Rainbow"); status != mlapi.StatusNotSupported {
		t.Errorf("SetLedStyle(Rainbow) = %s", status)
	}
}

func TestSpeedSetsTransition(t *testing.T) {
	b := &fakeBulb{id: 1}
	g := newTestGateway(t, b)

	if status := g.SetLedSpeed("DESK", 0, MaxSpeed+1); status != mlapi.StatusInvalidArgument {
		t.Errorf("SetLedSpeed(11) = %s", status)
	}
	if status := g.SetLedSpeed("DESK", 0, 3); !status.OK() {
		t.Fatalf("SetLedSpeed(3) = %s", status)
	}
	if b.colorWrites != 0 {
		t.Errorf("SetLedSpeed wrote to the bulb")
	}
	g.SetLedStyle("DESK", 0, StyleSteady)
	if b.lastDuration != 300*time.Millisecond {
		t.Errorf("transition = %s, want 300ms", b.lastDuration)
	}
}

func TestWriteFailureKeepsState(t *testing.T) {
	b := &fakeBulb{id: 1}
	g := newTestGateway(t, b)
	b.err = common.ErrTimeout

	if status := g.SetLedBrightness("DESK", 0, 40); status != mlapi.StatusTimeout {
		t.Errorf("SetLedBrightness() = %s, want %s", status, mlapi.StatusTimeout)
	}
	if level, _ := g.GetLedBrightness("DESK", 0); level != 0 {
		t.Errorf("brightness changed to %d after a failed write", level)
	}
}

func TestControllerOverLifx(t *testing.T) {
	g := newTestGateway(t, &fakeBulb{id: 2, label: "a"}, &fakeBulb{id: 1, label: "b"})

	c := lights.NewController(g)
	if err := c.Err(); err != nil {
		t.Fatalf("controller error = %v", err)
	}
	if n, _ := c.LedCount("DESK"); n != 2 {
		t.Errorf("LedCount() = %d, want 2", n)
	}
	if err := c.SetAllColors("DESK", lights.NewColor(0, 0, 255)); err != nil {
		t.Errorf("SetAllColors() = %v", err)
	}
	if m, _ := c.MaxBrightness("DESK", 1); m != MaxBrightness {
		t.Errorf("MaxBrightness() = %d", m)
	}
}
