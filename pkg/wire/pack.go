package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
)

// Decimal is a FLOAT/SFLOAT value with an explicit number of decimal places.
type Decimal struct {
	Value     float64
	Precision int
}

// maxAutoPrecision bounds the search for a decimal precision when a plain
// number is packed into a FLOAT or SFLOAT.
const maxAutoPrecision = 6

// Pack encodes values against f. It accepts the kinds Unpack returns plus
// any Go integer or float kind for numeric tokens and Decimal for FLOAT and
// SFLOAT.
func Pack(f Format, values ...any) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if len(values) != len(f) {
		return nil, fmt.Errorf("%w: format %s has %d tokens, got %d values", ErrValueType, f, len(f), len(values))
	}

	fixed, _ := f.Size()
	out := make([]byte, 0, fixed)
	for i, t := range f {
		b, err := packOne(t, values[i])
		if err != nil {
			return nil, fmt.Errorf("value %d (%s): %w", i, t, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func packOne(t Type, v any) ([]byte, error) {
	switch {
	case t.IsInteger():
		return packInteger(t, v)
	}

	switch t {
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrValueType, v)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case TypeFloat32:
		x, ok := toFloat64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrValueType, v)
		}
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(x))), nil
	case TypeFloat64:
		x, ok := toFloat64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrValueType, v)
		}
		return binary.LittleEndian.AppendUint64(nil, math.Float64bits(x)), nil
	case TypeFLOAT, TypeSFLOAT:
		return packMedical(t, v)
	case TypeUTF8S:
		switch s := v.(type) {
		case string:
			return []byte(s), nil
		case []byte:
			return s, nil
		}
		return nil, fmt.Errorf("%w: %T", ErrValueType, v)
	case TypeVariable, TypeUint128:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrValueType, v)
		}
		if t == TypeUint128 && len(b) != t.Size() {
			return nil, fmt.Errorf("%w: uint128 needs 16 bytes, got %d", ErrValueRange, len(b))
		}
		return b, nil
	case TypeGattUUID:
		var u uint64
		switch x := v.(type) {
		case UUID16:
			u = uint64(x)
		default:
			var ok bool
			if u, ok = toUint64(v); !ok || u > math.MaxUint16 {
				return nil, fmt.Errorf("%w: %v", ErrValueType, v)
			}
		}
		return binary.LittleEndian.AppendUint16(nil, uint16(u)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

func packInteger(t Type, v any) ([]byte, error) {
	size := t.Size()
	bits := uint(8 * size)
	var u uint64

	if t.IsSigned() {
		x, ok := toInt64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrValueType, v)
		}
		if bits < 64 {
			lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
			if x < lo || x > hi {
				return nil, fmt.Errorf("%w: %d", ErrValueRange, x)
			}
		}
		u = uint64(x)
	} else {
		x, ok := toUint64(v)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrValueType, v)
		}
		if bits < 64 && x >= uint64(1)<<bits {
			return nil, fmt.Errorf("%w: %d", ErrValueRange, x)
		}
		u = x
	}

	b := make([]byte, size)
	for i := range b {
		b[i] = byte(u >> (8 * i))
	}
	return b, nil
}

func packMedical(t Type, v any) ([]byte, error) {
	encode, encodeSpecial := ieee11073.EncodeFloat, ieee11073.EncodeFloatSpecial
	if t == TypeSFLOAT {
		encode, encodeSpecial = ieee11073.EncodeSFloat, ieee11073.EncodeSFloatSpecial
	}

	switch x := v.(type) {
	case ieee11073.Special:
		return encodeSpecial(x)
	case ieee11073.Value:
		if x.IsSpecial() {
			return encodeSpecial(x.Special)
		}
		return encodeAuto(encode, x.Number)
	case Decimal:
		return encode(x.Value, x.Precision)
	}

	f, ok := toFloat64(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrValueType, v)
	}
	return encodeAuto(encode, f)
}

// encodeAuto picks the smallest precision that represents f exactly, or the
// largest that fits when none does.
func encodeAuto(encode func(float64, int) ([]byte, error), f float64) ([]byte, error) {
	var best []byte
	var lastErr error
	for p := 0; p <= maxAutoPrecision; p++ {
		b, err := encode(f, p)
		if err != nil {
			lastErr = err
			if best != nil {
				break
			}
			continue
		}
		best = b
		scaled := f * math.Pow10(p)
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return b, nil
		}
	}
	if best == nil {
		return nil, lastErr
	}
	return best, nil
}

func toUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case int, int8, int16, int32, int64:
		i, _ := toInt64(x)
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return 0, false
		}
		return uint64(x), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint, uint8, uint16, uint32, uint64:
		u, _ := toUint64(x)
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	if u, ok := toUint64(v); ok {
		return float64(u), true
	}
	return 0, false
}
