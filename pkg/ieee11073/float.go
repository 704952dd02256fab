package ieee11073

import (
	"errors"
	"fmt"
	"math"
)

// Encoded sizes in bytes.
const (
	FloatSize  = 4
	SFloatSize = 2
)

// Mantissa and exponent limits.
const (
	floatMantissaMax  = 1<<23 - 1
	floatMantissaMin  = -(1 << 23)
	sfloatMantissaMax = 1<<11 - 1
	sfloatExponentMin = -8
	sfloatExponentMax = 7
)

// Codec errors.
var (
	ErrMantissaOverflow = errors.New("mantissa overflow")
	ErrExponentRange    = errors.New("exponent out of range")
	ErrReservedMantissa = errors.New("mantissa collides with a reserved value")
	ErrShortBuffer      = errors.New("buffer too short")
)

// Special identifies one of the reserved FLOAT/SFLOAT bit patterns.
type Special uint8

const (
	// NotSpecial marks an ordinary numeric value.
	NotSpecial Special = iota
	PositiveInfinity
	NaN
	NRes
	Reserved
	NegativeInfinity
)

// String returns the conventional label for the special value.
func (s Special) String() string {
	switch s {
	case PositiveInfinity:
		return "+INFINITY"
	case NaN:
		return "NaN"
	case NRes:
		return "NRes"
	case Reserved:
		return "Reserved"
	case NegativeInfinity:
		return "-INFINITY"
	default:
		return ""
	}
}

// ParseSpecial returns the special value with the given label.
func ParseSpecial(label string) (Special, bool) {
	for s := PositiveInfinity; s <= NegativeInfinity; s++ {
		if s.String() == label {
			return s, true
		}
	}
	return NotSpecial, false
}

// MarshalText encodes the special value as its label.
func (s Special) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Value is a decoded FLOAT or SFLOAT. Exactly one of Number or Special is
// meaningful: Special is NotSpecial for numeric values.
type Value struct {
	Number  float64
	Special Special
}

// IsSpecial reports whether the value is one of the reserved patterns.
func (v Value) IsSpecial() bool {
	return v.Special != NotSpecial
}

// String formats the number, or the special label.
func (v Value) String() string {
	if v.IsSpecial() {
		return v.Special.String()
	}
	return fmt.Sprintf("%g", v.Number)
}

// Interface returns the value as float64, or as a Special for reserved
// patterns. This is the representation used by composite unpacking.
func (v Value) Interface() any {
	if v.IsSpecial() {
		return v.Special
	}
	return v.Number
}

var floatSpecials = map[int32]Special{
	1<<23 - 2:    PositiveInfinity,
	1<<23 - 1:    NaN,
	-(1 << 23):   NRes,
	-(1<<23 - 1): Reserved,
	-(1<<23 - 2): NegativeInfinity,
}

var sfloatSpecials = map[int32]Special{
	1<<11 - 2:    PositiveInfinity,
	1<<11 - 1:    NaN,
	-(1 << 11):   NRes,
	-(1<<11 - 1): Reserved,
	-(1<<11 - 2): NegativeInfinity,
}

// DecodeFloat decodes a 32-bit FLOAT from the first four bytes of b.
func DecodeFloat(b []byte) (Value, error) {
	if len(b) < FloatSize {
		return Value{}, fmt.Errorf("FLOAT needs %d bytes, got %d: %w", FloatSize, len(b), ErrShortBuffer)
	}
	raw := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	// Sign-extend the 24-bit mantissa using its own top bit.
	mantissa := int32(raw<<8) >> 8
	exponent := int8(b[3])

	if exponent == 0 {
		if s, ok := floatSpecials[mantissa]; ok {
			return Value{Special: s}, nil
		}
	}
	return Value{Number: scale(int64(mantissa), int(exponent))}, nil
}

// EncodeFloat encodes value as a FLOAT with the given number of decimal
// places. The stored exponent is -precision.
func EncodeFloat(value float64, precision int) ([]byte, error) {
	exponent := -precision
	if exponent < math.MinInt8 || exponent > math.MaxInt8 {
		return nil, fmt.Errorf("FLOAT precision %d: %w", precision, ErrExponentRange)
	}
	m, err := roundMantissa(value, precision, floatMantissaMin, floatMantissaMax)
	if err != nil {
		return nil, fmt.Errorf("FLOAT %g (precision %d): %w", value, precision, err)
	}
	if exponent == 0 {
		if _, ok := floatSpecials[int32(m)]; ok {
			return nil, fmt.Errorf("FLOAT mantissa %d: %w", m, ErrReservedMantissa)
		}
	}
	u := uint32(int32(m))
	return []byte{byte(u), byte(u >> 8), byte(u >> 16), byte(int8(exponent))}, nil
}

// EncodeFloatSpecial returns the FLOAT bit pattern for a reserved value.
func EncodeFloatSpecial(s Special) ([]byte, error) {
	for m, sp := range floatSpecials {
		if sp == s {
			u := uint32(m)
			return []byte{byte(u), byte(u >> 8), byte(u >> 16), 0}, nil
		}
	}
	return nil, fmt.Errorf("no FLOAT pattern for special %d", s)
}

// DecodeSFloat decodes a 16-bit SFLOAT from the first two bytes of b.
func DecodeSFloat(b []byte) (Value, error) {
	if len(b) < SFloatSize {
		return Value{}, fmt.Errorf("SFLOAT needs %d bytes, got %d: %w", SFloatSize, len(b), ErrShortBuffer)
	}
	raw := uint16(b[0]) | uint16(b[1])<<8
	exponent := int32(raw>>12) << 28 >> 28
	mantissa := int32(raw&0x0FFF) << 20 >> 20

	if exponent == 0 {
		if s, ok := sfloatSpecials[mantissa]; ok {
			return Value{Special: s}, nil
		}
	}
	return Value{Number: scale(int64(mantissa), int(exponent))}, nil
}

// EncodeSFloat encodes value as an SFLOAT with the given number of decimal
// places. The 4-bit exponent holds -precision in two's complement.
func EncodeSFloat(value float64, precision int) ([]byte, error) {
	exponent := -precision
	if exponent < sfloatExponentMin || exponent > sfloatExponentMax {
		return nil, fmt.Errorf("SFLOAT precision %d: %w", precision, ErrExponentRange)
	}
	m, err := roundMantissa(value, precision, -sfloatMantissaMax, sfloatMantissaMax)
	if err != nil {
		return nil, fmt.Errorf("SFLOAT %g (precision %d): %w", value, precision, err)
	}
	if exponent == 0 {
		if _, ok := sfloatSpecials[int32(m)]; ok {
			return nil, fmt.Errorf("SFLOAT mantissa %d: %w", m, ErrReservedMantissa)
		}
	}
	raw := uint16(exponent&0x0F)<<12 | uint16(m)&0x0FFF
	return []byte{byte(raw), byte(raw >> 8)}, nil
}

// EncodeSFloatSpecial returns the SFLOAT bit pattern for a reserved value.
func EncodeSFloatSpecial(s Special) ([]byte, error) {
	for m, sp := range sfloatSpecials {
		if sp == s {
			raw := uint16(m) & 0x0FFF
			return []byte{byte(raw), byte(raw >> 8)}, nil
		}
	}
	return nil, fmt.Errorf("no SFLOAT pattern for special %d", s)
}

func roundMantissa(value float64, precision int, lo, hi int64) (int64, error) {
	m := math.Round(value * math.Pow10(precision))
	if math.IsNaN(m) || math.IsInf(m, 0) || m < float64(lo) || m > float64(hi) {
		return 0, ErrMantissaOverflow
	}
	return int64(m), nil
}

// scale computes mantissa * 10^exponent, dividing for negative exponents so
// that values like 365e-1 come out as the nearest float to 36.5.
func scale(mantissa int64, exponent int) float64 {
	if exponent >= 0 {
		return float64(mantissa) * math.Pow10(exponent)
	}
	return float64(mantissa) / math.Pow10(-exponent)
}
