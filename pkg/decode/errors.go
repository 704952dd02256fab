package decode

import (
	"errors"

	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// Decode errors.
var (
	ErrNotFound            = errors.New("characteristic not found")
	ErrReferenceResolution = errors.New("reference cannot be resolved")
	ErrReferenceCycle      = errors.New("reference cycle")
	ErrMissingValue        = errors.New("missing field value")
)

// Errors of the lower layers, repeated here so callers can classify every
// failure of a decode call against this package.
var (
	ErrLengthMismatch   = wire.ErrLengthMismatch
	ErrMalformedSpec    = model.ErrMalformedSpec
	ErrMantissaOverflow = ieee11073.ErrMantissaOverflow
)

// ErrorKind classifies err for trace events and tool output.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrReferenceCycle):
		return "reference_cycle"
	case errors.Is(err, ErrReferenceResolution):
		return "reference_resolution"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedSpec):
		return "malformed_spec"
	case errors.Is(err, ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, ErrMantissaOverflow):
		return "mantissa_overflow"
	case errors.Is(err, wire.ErrVariablePosition):
		return "variable_position"
	case errors.Is(err, ErrMissingValue):
		return "missing_value"
	case errors.Is(err, wire.ErrValueType), errors.Is(err, wire.ErrValueRange):
		return "invalid_value"
	default:
		return "decode"
	}
}
