// Package lights turns the flat Mystic Light SDK into an inventory of LEDs
// with cached, validated state.
//
// A Controller enumerates every device once at construction and builds one
// LED per addressable zone. LEDs cache what was last read from or written to
// the hardware; reads never touch the driver and writes go through the
// driver before the cache changes.
//
// Nothing in this package is safe for concurrent use. Callers sharing a
// Controller between goroutines must serialize all access to it.
package lights

import (
	"errors"
	"fmt"

	"github.com/scheerer/mystic-light-controller/internal/logging"
	"github.com/scheerer/mystic-light-controller/mlapi"
)

var logger = logging.New("lights")

var (
	// ErrDriverFailure matches every non-OK status reported by the driver.
	ErrDriverFailure = mlapi.ErrDriverFailure
	// ErrMalformedResponse matches driver output that could not be interpreted.
	ErrMalformedResponse = mlapi.ErrMalformedResponse
	// ErrPreconditionViolation marks caller errors that retrying cannot fix.
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrValidationRejected marks values outside an LED's ceilings or style set.
	ErrValidationRejected = errors.New("validation rejected")

	ErrNotInitialized  = fmt.Errorf("%w: light controller is not initialized properly", ErrPreconditionViolation)
	ErrUnknownDevice   = fmt.Errorf("%w: unknown device", ErrPreconditionViolation)
	ErrIndexOutOfRange = fmt.Errorf("%w: led index out of range", ErrPreconditionViolation)
)

// LEDError ties a failure to the LED it happened on.
type LEDError struct {
	Device string
	Index  uint32
	Err    error
}

func (e *LEDError) Error() string {
	return fmt.Sprintf("led %d of device %s: %v", e.Index, e.Device, e.Err)
}

func (e *LEDError) Unwrap() error {
	return e.Err
}
