//go:build windows

package mlapi

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// BSTR and SAFEARRAY(BSTR) are how the SDK passes text. Every string and
// array received from the driver is copied into Go memory and freed before
// the call returns.
var (
	oleaut32                = windows.NewLazySystemDLL("oleaut32.dll")
	procSysAllocString      = oleaut32.NewProc("SysAllocString")
	procSysFreeString       = oleaut32.NewProc("SysFreeString")
	procSysStringLen        = oleaut32.NewProc("SysStringLen")
	procSafeArrayGetLBound  = oleaut32.NewProc("SafeArrayGetLBound")
	procSafeArrayGetUBound  = oleaut32.NewProc("SafeArrayGetUBound")
	procSafeArrayGetElement = oleaut32.NewProc("SafeArrayGetElement")
	procSafeArrayDestroy    = oleaut32.NewProc("SafeArrayDestroy")
)

type dll struct {
	initialize      *windows.LazyProc
	getDeviceInfo   *windows.LazyProc
	getLedInfo      *windows.LazyProc
	getLedColor     *windows.LazyProc
	setLedColor     *windows.LazyProc
	getLedStyle     *windows.LazyProc
	setLedStyle     *windows.LazyProc
	getLedBright    *windows.LazyProc
	setLedBright    *windows.LazyProc
	getLedMaxBright *windows.LazyProc
	getLedSpeed     *windows.LazyProc
	setLedSpeed     *windows.LazyProc
	getLedMaxSpeed  *windows.LazyProc
	getErrorMessage *windows.LazyProc
}

var _ Gateway = (*dll)(nil)

// LoadDLL loads the SDK and resolves every exported function it needs.
// A non-empty dir is added to the DLL search path first so the SDK can find
// its own dependencies.
func LoadDLL(dir string) (Gateway, error) {
	path := SDKName
	if dir != "" {
		if err := windows.SetDllDirectory(dir); err != nil {
			return nil, fmt.Errorf("set dll directory %s: %w", dir, err)
		}
		path = filepath.Join(dir, SDKName)
	}

	lib := windows.NewLazyDLL(path)
	if err := lib.Load(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	d := &dll{
		initialize:      lib.NewProc("MLAPI_Initialize"),
		getDeviceInfo:   lib.NewProc("MLAPI_GetDeviceInfo"),
		getLedInfo:      lib.NewProc("MLAPI_GetLedInfo"),
		getLedColor:     lib.NewProc("MLAPI_GetLedColor"),
		setLedColor:     lib.NewProc("MLAPI_SetLedColor"),
		getLedStyle:     lib.NewProc("MLAPI_GetLedStyle"),
		setLedStyle:     lib.NewProc("MLAPI_SetLedStyle"),
		getLedBright:    lib.NewProc("MLAPI_GetLedBright"),
		setLedBright:    lib.NewProc("MLAPI_SetLedBright"),
		getLedMaxBright: lib.NewProc("MLAPI_GetLedMaxBright"),
		getLedSpeed:     lib.NewProc("MLAPI_GetLedSpeed"),
		setLedSpeed:     lib.NewProc("MLAPI_SetLedSpeed"),
		getLedMaxSpeed:  lib.NewProc("MLAPI_GetLedMaxSpeed"),
		getErrorMessage: lib.NewProc("MLAPI_GetErrorMessage"),
	}
	for _, p := range []*windows.LazyProc{
		d.initialize, d.getDeviceInfo, d.getLedInfo, d.getLedColor, d.setLedColor,
		d.getLedStyle, d.setLedStyle, d.getLedBright, d.setLedBright, d.getLedMaxBright,
		d.getLedSpeed, d.setLedSpeed, d.getLedMaxSpeed, d.getErrorMessage,
	} {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("resolve %s in %s: %w", p.Name, path, err)
		}
	}
	return d, nil
}

// statusOf keeps the low 32 bits of a C int return value.
func statusOf(r uintptr) Status {
	return Status(int32(uint32(r)))
}

func allocBSTR(s string) (uintptr, bool) {
	p, err := windows.UTF16PtrFromString(s)
	if err != nil {
		return 0, false
	}
	r, _, _ := procSysAllocString.Call(uintptr(unsafe.Pointer(p)))
	return r, r != 0
}

func freeBSTR(b uintptr) {
	if b != 0 {
		procSysFreeString.Call(b)
	}
}

// takeBSTR copies a driver-owned BSTR and frees it.
func takeBSTR(p *uint16) string {
	if p == nil {
		return ""
	}
	n, _, _ := procSysStringLen.Call(uintptr(unsafe.Pointer(p)))
	s := windows.UTF16ToString(unsafe.Slice(p, int(n)))
	procSysFreeString.Call(uintptr(unsafe.Pointer(p)))
	return s
}

// takeStringArray copies a driver-owned one dimensional SAFEARRAY of BSTR
// and destroys it.
func takeStringArray(psa unsafe.Pointer) ([]string, bool) {
	if psa == nil {
		return nil, true
	}
	defer procSafeArrayDestroy.Call(uintptr(psa))

	var lower, upper int32
	if hr, _, _ := procSafeArrayGetLBound.Call(uintptr(psa), 1, uintptr(unsafe.Pointer(&lower))); hr != 0 {
		return nil, false
	}
	if hr, _, _ := procSafeArrayGetUBound.Call(uintptr(psa), 1, uintptr(unsafe.Pointer(&upper))); hr != 0 {
		return nil, false
	}

	n := int(upper) - int(lower) + 1
	if n < 0 {
		n = 0
	}
	out := make([]string, 0, n)
	for i := lower; i <= upper; i++ {
		idx := i
		var elem *uint16
		if hr, _, _ := procSafeArrayGetElement.Call(uintptr(psa), uintptr(unsafe.Pointer(&idx)), uintptr(unsafe.Pointer(&elem))); hr != 0 {
			return nil, false
		}
		out = append(out, takeBSTR(elem))
	}
	return out, true
}

func (d *dll) Initialize() Status {
	r, _, _ := d.initialize.Call()
	return statusOf(r)
}

func (d *dll) GetDeviceInfo() ([]string, []string, Status) {
	var typesArr, countsArr unsafe.Pointer
	r, _, _ := d.getDeviceInfo.Call(uintptr(unsafe.Pointer(&typesArr)), uintptr(unsafe.Pointer(&countsArr)))
	types, okTypes := takeStringArray(typesArr)
	counts, okCounts := takeStringArray(countsArr)
	if status := statusOf(r); !status.OK() {
		return nil, nil, status
	}
	if !okTypes || !okCounts {
		return nil, nil, StatusError
	}
	return types, counts, StatusOK
}

func (d *dll) GetLedInfo(device string, index uint32) (string, []string, Status) {
	dev, ok := allocBSTR(device)
	if !ok {
		return "", nil, StatusInvalidArgument
	}
	defer freeBSTR(dev)

	var name *uint16
	var stylesArr unsafe.Pointer
	r, _, _ := d.getLedInfo.Call(dev, uintptr(index), uintptr(unsafe.Pointer(&name)), uintptr(unsafe.Pointer(&stylesArr)))
	ledName := takeBSTR(name)
	styles, okStyles := takeStringArray(stylesArr)
	if status := statusOf(r); !status.OK() {
		return "", nil, status
	}
	if !okStyles {
		return "", nil, StatusError
	}
	return ledName, styles, StatusOK
}

func (d *dll) GetLedColor(device string, index uint32) (uint32, uint32, uint32, Status) {
	dev, ok := allocBSTR(device)
	if !ok {
		return 0, 0, 0, StatusInvalidArgument
	}
	defer freeBSTR(dev)

	var red, green, blue uint32
	r, _, _ := d.getLedColor.Call(dev, uintptr(index),
		uintptr(unsafe.Pointer(&red)), uintptr(unsafe.Pointer(&green)), uintptr(unsafe.Pointer(&blue)))
	if status := statusOf(r); !status.OK() {
		return 0, 0, 0, status
	}
	return red, green, blue, StatusOK
}

func (d *dll) SetLedColor(device string, index uint32, red, green, blue uint32) Status {
	dev, ok := allocBSTR(device)
	if !ok {
		return StatusInvalidArgument
	}
	defer freeBSTR(dev)

	r, _, _ := d.setLedColor.Call(dev, uintptr(index), uintptr(red), uintptr(green), uintptr(blue))
	return statusOf(r)
}

func (d *dll) GetLedStyle(device string, index uint32) (string, Status) {
	dev, ok := allocBSTR(device)
	if !ok {
		return "", StatusInvalidArgument
	}
	defer freeBSTR(dev)

	var style *uint16
	r, _, _ := d.getLedStyle.Call(dev, uintptr(index), uintptr(unsafe.Pointer(&style)))
	s := takeBSTR(style)
	if status := statusOf(r); !status.OK() {
		return "", status
	}
	return s, StatusOK
}

func (d *dll) SetLedStyle(device string, index uint32, style string) Status {
	dev, ok := allocBSTR(device)
	if !ok {
		return StatusInvalidArgument
	}
	defer freeBSTR(dev)
	st, ok := allocBSTR(style)
	if !ok {
		return StatusInvalidArgument
	}
	defer freeBSTR(st)

	r, _, _ := d.setLedStyle.Call(dev, uintptr(index), st)
	return statusOf(r)
}

// getLevel and setLevel serve the symmetric brightness and speed calls.
func (d *dll) getLevel(proc *windows.LazyProc, device string, index uint32) (uint32, Status) {
	dev, ok := allocBSTR(device)
	if !ok {
		return 0, StatusInvalidArgument
	}
	defer freeBSTR(dev)

	var level uint32
	r, _, _ := proc.Call(dev, uintptr(index), uintptr(unsafe.Pointer(&level)))
	if status := statusOf(r); !status.OK() {
		return 0, status
	}
	return level, StatusOK
}

func (d *dll) setLevel(proc *windows.LazyProc, device string, index uint32, level uint32) Status {
	dev, ok := allocBSTR(device)
	if !ok {
		return StatusInvalidArgument
	}
	defer freeBSTR(dev)

	r, _, _ := proc.Call(dev, uintptr(index), uintptr(level))
	return statusOf(r)
}

func (d *dll) GetLedBrightness(device string, index uint32) (uint32, Status) {
	return d.getLevel(d.getLedBright, device, index)
}

func (d *dll) SetLedBrightness(device string, index uint32, level uint32) Status {
	return d.setLevel(d.setLedBright, device, index, level)
}

func (d *dll) GetLedMaxBrightness(device string, index uint32) (uint32, Status) {
	return d.getLevel(d.getLedMaxBright, device, index)
}

func (d *dll) GetLedSpeed(device string, index uint32) (uint32, Status) {
	return d.getLevel(d.getLedSpeed, device, index)
}

func (d *dll) SetLedSpeed(device string, index uint32, level uint32) Status {
	return d.setLevel(d.setLedSpeed, device, index, level)
}

func (d *dll) GetLedMaxSpeed(device string, index uint32) (uint32, Status) {
	return d.getLevel(d.getLedMaxSpeed, device, index)
}

// GetErrorMessage asks the driver first and falls back to the local table.
func (d *dll) GetErrorMessage(code Status) string {
	var desc *uint16
	r, _, _ := d.getErrorMessage.Call(uintptr(uint32(int32(code))), uintptr(unsafe.Pointer(&desc)))
	msg := takeBSTR(desc)
	if !statusOf(r).OK() || msg == "" {
		return Message(code)
	}
	return msg
}
