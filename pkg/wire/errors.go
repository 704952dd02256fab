package wire

import (
	"errors"
	"fmt"
)

// Format errors.
var (
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrUnknownType      = errors.New("unknown format type")
	ErrVariablePosition = errors.New("variable-length type must be last")
	ErrValueType        = errors.New("value type does not match format")
	ErrValueRange       = errors.New("value out of range for format")
)

// LengthError reports a buffer whose length does not match a Format.
type LengthError struct {
	Format   Format
	Want     int
	Got      int
	Variable bool
}

func (e *LengthError) Error() string {
	if e.Variable {
		return fmt.Sprintf("length mismatch: format %s needs at least %d bytes, got %d", e.Format, e.Want, e.Got)
	}
	return fmt.Sprintf("length mismatch: format %s needs %d bytes, got %d", e.Format, e.Want, e.Got)
}

// Is matches ErrLengthMismatch.
func (e *LengthError) Is(target error) bool {
	return target == ErrLengthMismatch
}
