package mlapi

import (
	"errors"
	"fmt"
)

// Status is the return code of every Mystic Light SDK call.
type Status int32

const (
	StatusOK              Status = 0
	StatusError           Status = -1
	StatusTimeout         Status = -2
	StatusNotImplemented  Status = -3
	StatusNotInitialized  Status = -4
	StatusInvalidArgument Status = -101
	StatusDeviceNotFound  Status = -102
	StatusNotSupported    Status = -103
)

const unknownStatusMessage = "Unknown MLAPI status"

var statusNames = map[Status]string{
	StatusOK:              "MLAPI_OK",
	StatusError:           "MLAPI_ERROR",
	StatusTimeout:         "MLAPI_TIMEOUT",
	StatusNotImplemented:  "MLAPI_NO_IMPLEMENTED",
	StatusNotInitialized:  "MLAPI_NOT_INITIALIZED",
	StatusInvalidArgument: "MLAPI_INVALID_ARGUMENT",
	StatusDeviceNotFound:  "MLAPI_DEVICE_NOT_FOUND",
	StatusNotSupported:    "MLAPI_NOT_SUPPORTED",
}

var statusMessages = map[Status]string{
	StatusOK:              "OK",
	StatusError:           "Error occurred in MLAPI function",
	StatusTimeout:         "Request timed out",
	StatusNotImplemented:  "MLAPI is not supported on the current system",
	StatusNotInitialized:  "MLAPI is not initialized, call initialize function first",
	StatusInvalidArgument: "Invalid argument given",
	StatusDeviceNotFound:  "Device not found",
	StatusNotSupported:    "The specified device does not support this",
}

func (s Status) OK() bool {
	return s == StatusOK
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("MLAPI_STATUS(%d)", int32(s))
}

// Message resolves a status to display text without asking the driver.
// Unknown codes resolve to a fallback text.
func Message(s Status) string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return unknownStatusMessage
}

var (
	ErrDriverFailure     = errors.New("driver failure")
	ErrMalformedResponse = errors.New("malformed driver response")
)

// DriverError is a non-OK status returned by the gateway for one operation.
type DriverError struct {
	Op      string
	Code    Status
	Message string
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
}

func (e *DriverError) Is(target error) bool {
	return target == ErrDriverFailure
}

// Check turns a status into an error. The message is resolved through the
// gateway so the driver's own wording is preserved.
func Check(gw Gateway, op string, status Status) error {
	if status.OK() {
		return nil
	}
	msg := gw.GetErrorMessage(status)
	if msg == "" {
		msg = Message(status)
	}
	return &DriverError{Op: op, Code: status, Message: msg}
}
