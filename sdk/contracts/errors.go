package contracts

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the connection manager, the zone controllers and the session.
var (
	// ErrNotConnected is returned when a send is attempted with no open output handle.
	ErrNotConnected = errors.New("MIDI not connected")
	// ErrPortNotFound is returned when the requested output port is not enumerated.
	ErrPortNotFound = errors.New("MIDI output port not found")
	// ErrNoPortsAvailable is returned when no port name was given and none are enumerated.
	ErrNoPortsAvailable = errors.New("no MIDI output ports available")
	// ErrOutOfRange is matched by every *RangeError.
	ErrOutOfRange = errors.New("argument out of range")
	// ErrTransport is matched by every *TransportError.
	ErrTransport = errors.New("MIDI transport failure")
	// ErrUnsupportedTransport is returned by backends that are not available in this build.
	ErrUnsupportedTransport = errors.New("MIDI transport not supported on this platform")
)

// RangeError reports an argument outside its documented bounds. It is always returned
// before any message of the call reaches the transport.
type RangeError struct {
	Param    string
	Value    int
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be %d..%d, got %d", e.Param, e.Min, e.Max, e.Value)
}

// Is makes errors.Is(err, ErrOutOfRange) true.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// CheckRange returns a *RangeError when v is outside [min, max].
func CheckRange(param string, v, min, max int) error {
	if v < min || v > max {
		return &RangeError{Param: param, Value: v, Min: min, Max: max}
	}
	return nil
}

// TransportError wraps a backend failure to deliver a message.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrTransport, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StepError reports which sub-step of a composite operation failed. Steps already
// applied stay applied on the device; re-running the whole operation is safe.
type StepError struct {
	Op    string // Composite operation, e.g. "setup split".
	Step  int    // 1-based index of the failed step.
	Total int    // Number of steps in the operation.
	Desc  string // Human readable step, e.g. "zone 4 enable".
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %d/%d (%s): %v", e.Op, e.Step, e.Total, e.Desc, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
