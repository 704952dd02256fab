package decode

import (
	"math"
	"strconv"

	"github.com/gattdecode/gattdecode-go/pkg/bits"
	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// newReading turns one unpacked value into a Reading. Bit fields are split
// from the unscaled value. Numbers are scaled when the field has a scaling
// attribute; special values, strings and byte blocks never are.
func newReading(f *model.Field, raw any, from string) Reading {
	r := Reading{Name: f.Name, Raw: raw, Reference: from}
	if f.Unit != nil {
		r.Quantity, r.Unit, r.Symbol = f.Unit.Quantity, f.Unit.Name, f.Unit.Symbol
	}

	if bf, ok := f.BitField(); ok {
		if key, ok := bitKey(raw); ok {
			r.Bits = decodeBits(bf, key)
			r.Value = r.Bits
			return r
		}
	}

	if key, ok := enumKey(raw); ok {
		if label, ok := f.Enumerations().Label(key); ok {
			r.Label = label
		}
	}
	r.Value = scaleValue(f.Scale, raw)
	if n, ok := number(r.Value); ok {
		r.OutOfRange = !f.InRange(n)
	}
	return r
}

// number returns a finite numeric value as float64.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case uint64:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	}
	return 0, false
}

func scaleValue(s model.Scaling, raw any) any {
	if s.IsZero() {
		return raw
	}
	switch v := raw.(type) {
	case uint64:
		return s.Apply(float64(v))
	case int64:
		return s.Apply(float64(v))
	case float64:
		return s.Apply(v)
	}
	return raw
}

// bitKey returns an integer value as the bit pattern of its container.
func bitKey(raw any) (uint64, bool) {
	switch v := raw.(type) {
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	}
	return 0, false
}

// enumKey returns a non-negative integer value as an enumeration key.
func enumKey(raw any) (uint64, bool) {
	switch v := raw.(type) {
	case uint64:
		return v, true
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	}
	return 0, false
}

// exportValue maps a reading value onto kinds every encoder handles: special
// values and UUIDs become their labels, non-finite floats their text form.
func exportValue(v any) any {
	switch x := v.(type) {
	case ieee11073.Special:
		return x.String()
	case wire.UUID16:
		return x.String()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
	case []bits.Value:
		return append([]bits.Value(nil), x...)
	}
	return v
}
