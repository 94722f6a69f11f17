package mlapi

import (
	"slices"
	"strconv"
)

// Op names a driver function, used to inject faults and count calls on a
// Simulated gateway.
type Op string

const (
	OpInitialize          Op = "MLAPI_Initialize"
	OpGetDeviceInfo       Op = "MLAPI_GetDeviceInfo"
	OpGetLedInfo          Op = "MLAPI_GetLedInfo"
	OpGetLedColor         Op = "MLAPI_GetLedColor"
	OpSetLedColor         Op = "MLAPI_SetLedColor"
	OpGetLedStyle         Op = "MLAPI_GetLedStyle"
	OpSetLedStyle         Op = "MLAPI_SetLedStyle"
	OpGetLedBrightness    Op = "MLAPI_GetLedBright"
	OpSetLedBrightness    Op = "MLAPI_SetLedBright"
	OpGetLedMaxBrightness Op = "MLAPI_GetLedMaxBright"
	OpGetLedSpeed         Op = "MLAPI_GetLedSpeed"
	OpSetLedSpeed         Op = "MLAPI_SetLedSpeed"
	OpGetLedMaxSpeed      Op = "MLAPI_GetLedMaxSpeed"
)

// SimulatedLED is the hardware state of one simulated LED.
type SimulatedLED struct {
	Name          string
	Styles        []string
	Style         string
	R, G, B       uint32
	Brightness    uint32
	MaxBrightness uint32
	Speed         uint32
	MaxSpeed      uint32
}

type fault struct {
	op     Op
	device string
	index  uint32
}

// Simulated is an in-memory Mystic Light SDK. It behaves like the driver
// (argument checks, initialization requirement) and lets callers inject
// failing statuses per operation and LED.
//
// Simulated is not safe for concurrent use, like the driver it stands in for.
type Simulated struct {
	// InitStatus is returned by Initialize.
	InitStatus Status
	// DeviceInfoStatus is returned by GetDeviceInfo.
	DeviceInfoStatus Status

	initialized bool
	deviceTypes []string
	leds        map[string][]*SimulatedLED
	ledCounts   map[string]string
	faults      map[fault]Status
	calls       map[Op]int
}

var _ Gateway = (*Simulated)(nil)

func NewSimulated() *Simulated {
	return &Simulated{
		leds:      make(map[string][]*SimulatedLED),
		ledCounts: make(map[string]string),
		faults:    make(map[fault]Status),
		calls:     make(map[Op]int),
	}
}

// NewDemoSimulated returns a simulated mainboard with two LED zones, the
// layout of a typical MSI board.
func NewDemoSimulated() *Simulated {
	s := NewSimulated()
	styles := []string{"Off", "Steady", "Breathing", "Flashing", "Rainbow"}
	s.AddDevice("MSI_MAINBOARD",
		SimulatedLED{Name: "JRGB1", Styles: styles, Style: "Steady", R: 255, G: 255, B: 255, Brightness: 10, MaxBrightness: 10, Speed: 1, MaxSpeed: 2},
		SimulatedLED{Name: "JRAINBOW1", Styles: styles, Style: "Rainbow", R: 0, G: 0, B: 255, Brightness: 10, MaxBrightness: 10, Speed: 1, MaxSpeed: 2},
	)
	return s
}

// AddDevice registers a device type with its LEDs in index order.
func (s *Simulated) AddDevice(deviceType string, leds ...SimulatedLED) {
	if _, ok := s.leds[deviceType]; !ok {
		s.deviceTypes = append(s.deviceTypes, deviceType)
	}
	list := make([]*SimulatedLED, 0, len(leds))
	for _, led := range leds {
		led.Styles = slices.Clone(led.Styles)
		list = append(list, &led)
	}
	s.leds[deviceType] = list
	s.ledCounts[deviceType] = strconv.Itoa(len(list))
}

// SetLedCountText overrides the LED count text reported for a device.
func (s *Simulated) SetLedCountText(deviceType, count string) {
	s.ledCounts[deviceType] = count
}

// Fail makes op on the given LED return status until ClearFaults is called.
func (s *Simulated) Fail(op Op, device string, index uint32, status Status) {
	s.faults[fault{op: op, device: device, index: index}] = status
}

func (s *Simulated) ClearFaults() {
	clear(s.faults)
}

// LED returns the hardware state of an LED, or nil.
func (s *Simulated) LED(device string, index uint32) *SimulatedLED {
	leds := s.leds[device]
	if int(index) >= len(leds) {
		return nil
	}
	return leds[index]
}

// Calls reports how often op was invoked.
func (s *Simulated) Calls(op Op) int {
	return s.calls[op]
}

// TotalCalls reports the number of driver calls of any kind.
func (s *Simulated) TotalCalls() int {
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *Simulated) ResetCalls() {
	clear(s.calls)
}

func (s *Simulated) Initialize() Status {
	s.calls[OpInitialize]++
	if !s.InitStatus.OK() {
		return s.InitStatus
	}
	s.initialized = true
	return StatusOK
}

func (s *Simulated) GetDeviceInfo() ([]string, []string, Status) {
	s.calls[OpGetDeviceInfo]++
	if !s.initialized {
		return nil, nil, StatusNotInitialized
	}
	if !s.DeviceInfoStatus.OK() {
		return nil, nil, s.DeviceInfoStatus
	}
	types := slices.Clone(s.deviceTypes)
	counts := make([]string, 0, len(types))
	for _, t := range types {
		counts = append(counts, s.ledCounts[t])
	}
	return types, counts, StatusOK
}

// lookup records the call and resolves the LED, applying injected faults.
func (s *Simulated) lookup(op Op, device string, index uint32) (*SimulatedLED, Status) {
	s.calls[op]++
	if !s.initialized {
		return nil, StatusNotInitialized
	}
	if status, ok := s.faults[fault{op: op, device: device, index: index}]; ok {
		return nil, status
	}
	leds, ok := s.leds[device]
	if !ok {
		return nil, StatusDeviceNotFound
	}
	if int(index) >= len(leds) {
		return nil, StatusInvalidArgument
	}
	return leds[index], StatusOK
}

func (s *Simulated) GetLedInfo(device string, index uint32) (string, []string, Status) {
	led, status := s.lookup(OpGetLedInfo, device, index)
	if !status.OK() {
		return "", nil, status
	}
	return led.Name, slices.Clone(led.Styles), StatusOK
}

func (s *Simulated) GetLedColor(device string, index uint32) (uint32, uint32, uint32, Status) {
	led, status := s.lookup(OpGetLedColor, device, index)
	if !status.OK() {
		return 0, 0, 0, status
	}
	return led.R, led.G, led.B, StatusOK
}

func (s *Simulated) SetLedColor(device string, index uint32, r, g, b uint32) Status {
	led, status := s.lookup(OpSetLedColor, device, index)
	if !status.OK() {
		return status
	}
	if r > 255 || g > 255 || b > 255 {
		return StatusInvalidArgument
	}
	led.R, led.G, led.B = r, g, b
	return StatusOK
}

func (s *Simulated) GetLedStyle(device string, index uint32) (string, Status) {
	led, status := s.lookup(OpGetLedStyle, device, index)
	if !status.OK() {
		return "", status
	}
	return led.Style, StatusOK
}

func (s *Simulated) SetLedStyle(device string, index uint32, style string) Status {
	led, status := s.lookup(OpSetLedStyle, device, index)
	if !status.OK() {
		return status
	}
	if !slices.Contains(led.Styles, style) {
		return StatusNotSupported
	}
	led.Style = style
	return StatusOK
}

func (s *Simulated) GetLedBrightness(device string, index uint32) (uint32, Status) {
	led, status := s.lookup(OpGetLedBrightness, device, index)
	if !status.OK() {
		return 0, status
	}
	return led.Brightness, StatusOK
}

func (s *Simulated) SetLedBrightness(device string, index uint32, level uint32) Status {
	led, status := s.lookup(OpSetLedBrightness, device, index)
	if !status.OK() {
		return status
	}
	if level > led.MaxBrightness {
		return StatusInvalidArgument
	}
	led.Brightness = level
	return StatusOK
}

func (s *Simulated) GetLedMaxBrightness(device string, index uint32) (uint32, Status) {
	led, status := s.lookup(OpGetLedMaxBrightness, device, index)
	if !status.OK() {
		return 0, status
	}
	return led.MaxBrightness, StatusOK
}

func (s *Simulated) GetLedSpeed(device string, index uint32) (uint32, Status) {
	led, status := s.lookup(OpGetLedSpeed, device, index)
	if !status.OK() {
		return 0, status
	}
	return led.Speed, StatusOK
}

func (s *Simulated) SetLedSpeed(device string, index uint32, level uint32) Status {
	led, status := s.lookup(OpSetLedSpeed, device, index)
	if !status.OK() {
		return status
	}
	if level > led.MaxSpeed {
		return StatusInvalidArgument
	}
	led.Speed = level
	return StatusOK
}

func (s *Simulated) GetLedMaxSpeed(device string, index uint32) (uint32, Status) {
	led, status := s.lookup(OpGetLedMaxSpeed, device, index)
	if !status.OK() {
		return 0, status
	}
	return led.MaxSpeed, StatusOK
}

func (s *Simulated) GetErrorMessage(code Status) string {
	return Message(code)
}
