package codec

import (
	"errors"
	"fmt"
)

// ErrUnknownRawValue matches every UnknownRawValueError via errors.Is.
var ErrUnknownRawValue = errors.New("unknown raw value")

// UnknownRawValueError reports a stored raw value that names no case of an
// enumeration. It is the only error a built-in conversion produces.
//
// Callers must not substitute a default case: a silently wrong enumeration
// value is worse than a failed read.
type UnknownRawValueError struct {
	// Type is the Go type name of the enumeration.
	Type string

	// Raw is the unmatched raw value.
	Raw any
}

// Error implements the error interface.
func (e *UnknownRawValueError) Error() string {
	return fmt.Sprintf("%s: %v (no case has raw value %#v)", e.Type, ErrUnknownRawValue, e.Raw)
}

// Is reports whether target is ErrUnknownRawValue.
func (e *UnknownRawValueError) Is(target error) bool {
	return target == ErrUnknownRawValue
}
