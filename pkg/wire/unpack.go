package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
)

// Unpack decodes data against f and returns one value per token:
//
//	integer types        uint64 or int64
//	boolean              bool
//	float32, float64     float64
//	FLOAT, SFLOAT        float64, or ieee11073.Special for reserved patterns
//	utf8s                string
//	variable, uint128    []byte
//	gatt_uuid            UUID16
//
// The buffer length must equal the format size exactly; a trailing
// variable-length token takes whatever remains.
func Unpack(f Format, data []byte) ([]any, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	fixed, variable := f.Size()
	if len(data) != fixed && (!variable || len(data) < fixed) {
		return nil, &LengthError{Format: f, Want: fixed, Got: len(data), Variable: variable}
	}

	values := make([]any, 0, len(f))
	off := 0
	for _, t := range f {
		if t.IsVariable() {
			rest := data[off:]
			if t == TypeUTF8S {
				values = append(values, string(rest))
			} else {
				values = append(values, append([]byte(nil), rest...))
			}
			off = len(data)
			continue
		}

		n := t.Size()
		b := data[off : off+n]
		off += n

		v, err := unpackOne(t, b)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func unpackOne(t Type, b []byte) (any, error) {
	switch {
	case t.IsInteger():
		u := readUint(b)
		if t.IsSigned() {
			return signExtend(u, len(b)), nil
		}
		return u, nil
	}

	switch t {
	case TypeBool:
		return b[0] != 0, nil
	case TypeFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	case TypeFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	case TypeFLOAT:
		v, err := ieee11073.DecodeFloat(b)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	case TypeSFLOAT:
		v, err := ieee11073.DecodeSFloat(b)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	case TypeUint128:
		return append([]byte(nil), b...), nil
	case TypeGattUUID:
		return UUID16(binary.LittleEndian.Uint16(b)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

// readUint reads up to eight bytes as a little-endian unsigned integer.
func readUint(b []byte) uint64 {
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return u
}

func signExtend(u uint64, size int) int64 {
	shift := 64 - 8*size
	return int64(u<<shift) >> shift
}
