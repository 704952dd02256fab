package model

import "math"

// Scaling holds the optional scaling attributes of a field. Each is applied
// only when present, in the order multiplier, decimal exponent, binary
// exponent.
type Scaling struct {
	Multiplier      *int
	DecimalExponent *int
	BinaryExponent  *int
}

// IsZero reports whether no scaling attribute is present.
func (s Scaling) IsZero() bool {
	return s.Multiplier == nil && s.DecimalExponent == nil && s.BinaryExponent == nil
}

// Apply scales v: v * M * 10^D * 2^B.
func (s Scaling) Apply(v float64) float64 {
	if s.Multiplier != nil {
		v *= float64(*s.Multiplier)
	}
	if s.DecimalExponent != nil {
		v = scalePow10(v, *s.DecimalExponent)
	}
	if s.BinaryExponent != nil {
		v = math.Ldexp(v, *s.BinaryExponent)
	}
	return v
}

// Invert undoes Apply: v / (2^B * 10^D * M).
func (s Scaling) Invert(v float64) float64 {
	if s.BinaryExponent != nil {
		v = math.Ldexp(v, -*s.BinaryExponent)
	}
	if s.DecimalExponent != nil {
		v = scalePow10(v, -*s.DecimalExponent)
	}
	if s.Multiplier != nil && *s.Multiplier != 0 {
		v /= float64(*s.Multiplier)
	}
	return v
}

// scalePow10 divides for negative exponents so that 365 * 10^-1 yields the
// float nearest to 36.5.
func scalePow10(v float64, exp int) float64 {
	if exp >= 0 {
		return v * math.Pow10(exp)
	}
	return v / math.Pow10(-exp)
}
