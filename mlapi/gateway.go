// Package mlapi is the narrow boundary to the Mystic Light SDK.
//
// Every Gateway method maps to exactly one driver call and reports its
// outcome as a Status. Gateways never retry and never apply timeouts.
package mlapi

import (
	"fmt"
	"strconv"
	"strings"
)

// Gateway exposes the driver's exported functions.
type Gateway interface {
	Initialize() Status
	GetDeviceInfo() (deviceTypes []string, ledCounts []string, status Status)

	GetLedInfo(device string, index uint32) (name string, styles []string, status Status)

	GetLedColor(device string, index uint32) (r, g, b uint32, status Status)
	SetLedColor(device string, index uint32, r, g, b uint32) Status

	GetLedStyle(device string, index uint32) (string, Status)
	SetLedStyle(device string, index uint32, style string) Status

	GetLedBrightness(device string, index uint32) (uint32, Status)
	SetLedBrightness(device string, index uint32, level uint32) Status
	GetLedMaxBrightness(device string, index uint32) (uint32, Status)

	GetLedSpeed(device string, index uint32) (uint32, Status)
	SetLedSpeed(device string, index uint32, level uint32) Status
	GetLedMaxSpeed(device string, index uint32) (uint32, Status)

	GetErrorMessage(code Status) string
}

// DeviceInfo is one parsed entry of GetDeviceInfo.
type DeviceInfo struct {
	Type     string
	LedCount uint32
}

// EnumerateDevices queries the device list and parses the LED counts the
// driver reports as decimal text.
func EnumerateDevices(gw Gateway) ([]DeviceInfo, error) {
	types, counts, status := gw.GetDeviceInfo()
	if err := Check(gw, "get device info", status); err != nil {
		return nil, err
	}
	return ParseDeviceInfo(types, counts)
}

// ParseDeviceInfo zips the parallel device type and LED count slices.
func ParseDeviceInfo(types, counts []string) ([]DeviceInfo, error) {
	if len(types) != len(counts) {
		return nil, fmt.Errorf("%w: %d device types but %d led counts", ErrMalformedResponse, len(types), len(counts))
	}

	devices := make([]DeviceInfo, 0, len(types))
	for i, t := range types {
		n, err := strconv.ParseUint(strings.TrimSpace(counts[i]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: led count %q of device %s: %v", ErrMalformedResponse, counts[i], t, err)
		}
		devices = append(devices, DeviceInfo{Type: t, LedCount: uint32(n)})
	}
	return devices, nil
}
