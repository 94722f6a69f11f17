package lights

import (
	"errors"
	"strings"
	"testing"

	"github.com/scheerer/mystic-light-controller/mlapi"
)

var testStyles = []string{"Off", "Steady", "Breathing"}

func testLED(r, g, b uint32) mlapi.SimulatedLED {
	return mlapi.SimulatedLED{
		Name:          "JRGB",
		Styles:        testStyles,
		Style:         "Steady",
		R:             r,
		G:             g,
		B:             b,
		Brightness:    5,
		MaxBrightness: 10,
		Speed:         1,
		MaxSpeed:      2,
	}
}

// newSim returns an initialized simulated driver with device X holding n LEDs.
func newSim(t *testing.T, n int) *mlapi.Simulated {
	t.Helper()
	sim := mlapi.NewSimulated()
	leds := make([]mlapi.SimulatedLED, n)
	for i := range leds {
		leds[i] = testLED(uint32(i), 0, 0)
	}
	sim.AddDevice("X", leds...)
	if status := sim.Initialize(); !status.OK() {
		t.Fatalf("Initialize() = %s", status)
	}
	return sim
}

func mustLED(t *testing.T, gw mlapi.Gateway, index uint32) *LED {
	t.Helper()
	led, err := newLED(gw, "X", index)
	if err != nil {
		t.Fatalf("newLED() error = %v", err)
	}
	return led
}

func TestNewLEDReadsState(t *testing.T) {
	sim := newSim(t, 1)
	led := mustLED(t, sim, 0)

	if led.Device() != "X" || led.Index() != 0 || led.Name() != "JRGB" {
		t.Errorf("identity = %s/%d/%s", led.Device(), led.Index(), led.Name())
	}
	if led.MaxBrightness() != 10 || led.MaxSpeed() != 2 {
		t.Errorf("ceilings = %d/%d", led.MaxBrightness(), led.MaxSpeed())
	}
	if led.Brightness() != 5 || led.Speed() != 1 || led.Style() != "Steady" {
		t.Errorf("state = %d/%d/%s", led.Brightness(), led.Speed(), led.Style())
	}
	if led.Color() != NewColor(0, 0, 0) {
		t.Errorf("color = %s", led.Color())
	}
	for _, op := range []mlapi.Op{
		mlapi.OpGetLedMaxSpeed, mlapi.OpGetLedMaxBrightness, mlapi.OpGetLedInfo,
		mlapi.OpGetLedStyle, mlapi.OpGetLedSpeed, mlapi.OpGetLedBrightness, mlapi.OpGetLedColor,
	} {
		if got := sim.Calls(op); got != 1 {
			t.Errorf("Calls(%s) = %d, want 1", op, got)
		}
	}
}

func TestNewLEDFailureNamesSubFetch(t *testing.T) {
	tests := []struct {
		op   mlapi.Op
		want string
	}{
		{mlapi.OpGetLedMaxSpeed, "max speed"},
		{mlapi.OpGetLedMaxBrightness, "max brightness"},
		{mlapi.OpGetLedInfo, "led styles"},
		{mlapi.OpGetLedStyle, "current style"},
		{mlapi.OpGetLedSpeed, "current speed"},
		{mlapi.OpGetLedBrightness, "current brightness"},
		{mlapi.OpGetLedColor, "current color"},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			sim := newSim(t, 1)
			sim.Fail(tt.op, "X", 0, mlapi.StatusTimeout)

			led, err := newLED(sim, "X", 0)
			if led != nil {
				t.Fatal("newLED() returned a partially initialized LED")
			}
			if !errors.Is(err, ErrDriverFailure) {
				t.Fatalf("newLED() error = %v, want ErrDriverFailure", err)
			}
			msg := err.Error()
			if !strings.Contains(msg, tt.want) || !strings.Contains(msg, "Request timed out") {
				t.Errorf("error %q does not name %q and the driver message", msg, tt.want)
			}
		})
	}
}

func TestNewLEDRejectsUnknownCurrentStyle(t *testing.T) {
	sim := newSim(t, 1)
	sim.LED("X", 0).Style = "Disco"

	_, err := newLED(sim, "X", 0)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("newLED() error = %v, want ErrMalformedResponse", err)
	}
}

func TestSetBrightness(t *testing.T) {
	sim := newSim(t, 1)
	led := mustLED(t, sim, 0)
	sim.ResetCalls()

	if err := led.SetBrightness(11); !errors.Is(err, ErrValidationRejected) {
		t.Fatalf("SetBrightness(11) = %v, want ErrValidationRejected", err)
	}
	if sim.TotalCalls() != 0 {
		t.Error("rejected value reached the driver")
	}
	if led.Brightness() != 5 {
		t.Errorf("Brightness() = %d after rejection", led.Brightness())
	}

	if err := led.SetBrightness(10); err != nil {
		t.Fatalf("SetBrightness(10) = %v", err)
	}
	if led.Brightness() != 10 || sim.LED("X", 0).Brightness != 10 {
		t.Errorf("Brightness() = %d, hardware = %d", led.Brightness(), sim.LED("X", 0).Brightness)
	}

	sim.Fail(mlapi.OpSetLedBrightness, "X", 0, mlapi.StatusError)
	err := led.SetBrightness(3)
	if !errors.Is(err, ErrDriverFailure) || !strings.Contains(err.Error(), "brightness") {
		t.Fatalf("SetBrightness(3) = %v", err)
	}
	if led.Brightness() != 10 {
		t.Errorf("cache changed to %d on driver failure", led.Brightness())
	}
}

func TestSetSpeed(t *testing.T) {
	sim := newSim(t, 1)
	led := mustLED(t, sim, 0)

	if err := led.SetSpeed(3); !errors.Is(err, ErrValidationRejected) {
		t.Fatalf("SetSpeed(3) = %v, want ErrValidationRejected", err)
	}
	if err := led.SetSpeed(2); err != nil || led.Speed() != 2 {
		t.Fatalf("SetSpeed(2) = %v, Speed() = %d", err, led.Speed())
	}

	sim.Fail(mlapi.OpSetLedSpeed, "X", 0, mlapi.StatusNotSupported)
	if err := led.SetSpeed(0); !errors.Is(err, ErrDriverFailure) {
		t.Fatalf("SetSpeed(0) = %v", err)
	}
	if led.Speed() != 2 {
		t.Errorf("cache changed to %d on driver failure", led.Speed())
	}
	if led.Speed() > led.MaxSpeed() {
		t.Errorf("speed %d above max %d", led.Speed(), led.MaxSpeed())
	}
}

func TestSetStyle(t *testing.T) {
	sim := newSim(t, 1)
	led := mustLED(t, sim, 0)
	sim.ResetCalls()

	err := led.SetStyle("Rainbow")
	if !errors.Is(err, ErrValidationRejected) {
		t.Fatalf("SetStyle(Rainbow) = %v, want ErrValidationRejected", err)
	}
	if led.Style() != "Steady" || sim.TotalCalls() != 0 {
		t.Errorf("rejected style changed state: %s, %d calls", led.Style(), sim.TotalCalls())
	}

	if err := led.SetStyle("Breathing"); err != nil {
		t.Fatalf("SetStyle(Breathing) = %v", err)
	}
	if led.Style() != "Breathing" || sim.LED("X", 0).Style != "Breathing" {
		t.Errorf("Style() = %s", led.Style())
	}

	sim.Fail(mlapi.OpSetLedStyle, "X", 0, mlapi.StatusDeviceNotFound)
	if err := led.SetStyle("Off"); !errors.Is(err, ErrDriverFailure) || !strings.Contains(err.Error(), "Device not found") {
		t.Fatalf("SetStyle(Off) = %v", err)
	}
	if led.Style() != "Breathing" {
		t.Errorf("cache changed to %s on driver failure", led.Style())
	}
}

func TestSetColorSkipsEqualColor(t *testing.T) {
	sim := newSim(t, 1)
	led := mustLED(t, sim, 0)
	sim.ResetCalls()

	if err := led.SetColor(NewColor(0, 0, 0)); err != nil {
		t.Fatalf("SetColor() = %v", err)
	}
	if got := sim.TotalCalls(); got != 0 {
		t.Fatalf("equal color made %d driver calls, want 0", got)
	}

	if err := led.SetColor(NewColor(10, 20, 30)); err != nil {
		t.Fatalf("SetColor() = %v", err)
	}
	if got := sim.Calls(mlapi.OpSetLedColor); got != 1 {
		t.Errorf("Calls(OpSetLedColor) = %d, want 1", got)
	}
	if led.Color() != NewColor(10, 20, 30) {
		t.Errorf("Color() = %s", led.Color())
	}

	sim.Fail(mlapi.OpSetLedColor, "X", 0, mlapi.StatusTimeout)
	if err := led.SetColor(NewColor(1, 1, 1)); !errors.Is(err, ErrDriverFailure) {
		t.Fatalf("SetColor() = %v", err)
	}
	if led.Color() != NewColor(10, 20, 30) {
		t.Errorf("cache changed to %s on driver failure", led.Color())
	}
}

func TestAccessorsDoNotCallDriver(t *testing.T) {
	sim := newSim(t, 1)
	led := mustLED(t, sim, 0)
	sim.ResetCalls()

	_ = led.Brightness()
	_ = led.Speed()
	_ = led.Style()
	_ = led.Color()
	_ = led.Styles()
	_ = led.String()

	if got := sim.TotalCalls(); got != 0 {
		t.Errorf("accessors made %d driver calls", got)
	}
}

func TestStylesReturnsCopy(t *testing.T) {
	led := mustLED(t, newSim(t, 1), 0)
	styles := led.Styles()
	styles[0] = "Changed"
	if led.Styles()[0] != "Off" {
		t.Error("Styles() exposes internal slice")
	}
}

func TestLEDString(t *testing.T) {
	led := mustLED(t, newSim(t, 1), 0)
	want := "LED 0 (device: X, name: JRGB):\n" +
		"\tCurrent color: (0, 0, 0)\n" +
		"\tCurrent style: Steady\n" +
		"\tCurrent speed: 1 (Max: 2)\n" +
		"\tCurrent brightness: 5 (Max: 10)\n" +
		"\tPossible styles: Off, Steady, Breathing"
	if got := led.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}
