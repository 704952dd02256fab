package decode

import (
	"fmt"
	"math"

	"github.com/gattdecode/gattdecode-go/pkg/bits"
	"github.com/gattdecode/gattdecode-go/pkg/ieee11073"
	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// Encode builds a value of c that decodes to values. flags is the raw Flags
// value; it selects the present fields the same way decoding does and is
// ignored without a Flags field.
//
// values maps field names to values in decoded units. Numbers are unscaled
// and rounded for integer encodings, enumeration labels and special value
// labels are mapped back to their codes. Bit fields take the container
// integer, the []bits.Value a decode produced or, with a single range, its
// label.
func (d *Decoder) Encode(c *model.Characteristic, flags uint64, values map[string]any) ([]byte, error) {
	if c.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: no fields", ErrMalformedSpec, c.Name)
	}
	chain := []string{Key(c.Name)}

	var (
		format  wire.Format
		args    []any
		entries []entry
	)
	if c.Len() == 1 {
		f := c.Fields[0]
		if name, ok := f.Reference(); ok {
			rc, _, err := d.resolve(name, chain)
			if err != nil {
				return nil, err
			}
			return d.Encode(rc, flags, values)
		}
		entries = []entry{{field: f}}
	} else {
		ff := c.FlagsField()
		reqs := tagSet{}
		if ff != nil {
			bf, _ := ff.BitField()
			reqs = requirements(bf, flags)
			format = append(format, bf.Format)
			args = append(args, flags)
		}
		var err error
		if entries, err = d.selectFields(c, ff, reqs, chain); err != nil {
			return nil, err
		}
	}

	for _, e := range entries {
		v, ok := values[e.field.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingValue, e.field.Name)
		}
		arg, err := encodeValue(e.field, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.field.Name, err)
		}
		format = append(format, e.field.Type())
		args = append(args, arg)
	}

	out, err := wire.Pack(format, args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c.Name, err)
	}
	return out, nil
}

// encodeValue converts a decoded-unit value to what wire.Pack expects for f.
func encodeValue(f *model.Field, v any) (any, error) {
	if bf, ok := f.BitField(); ok {
		return bitFieldValue(bf, v)
	}

	t := f.Type()
	if s, ok := v.(string); ok && t != wire.TypeUTF8S {
		if key, ok := reverse(f.Enumerations(), s); ok {
			return key, nil
		}
		if t == wire.TypeFLOAT || t == wire.TypeSFLOAT {
			if sp, ok := ieee11073.ParseSpecial(s); ok {
				return sp, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a label of the field", wire.ErrValueType, s)
	}

	if f.Scale.IsZero() {
		return v, nil
	}
	x, ok := number(v)
	if !ok {
		return v, nil
	}
	x = f.Scale.Invert(x)
	if t.IsInteger() {
		return math.Round(x), nil
	}
	return x, nil
}

func bitFieldValue(bf model.BitField, v any) (any, error) {
	switch x := v.(type) {
	case []bits.Value:
		var out uint64
		for _, bv := range x {
			bit, ok := findBit(bf, bv.Name)
			if !ok {
				return nil, fmt.Errorf("%w: no bit range %q", wire.ErrValueType, bv.Name)
			}
			out |= (bv.Key << bit.Index) & bits.Mask(bit.Index, bit.Size)
		}
		return out, nil
	case string:
		// Display value of a single-range bit field
		if len(bf.Bits) == 1 {
			if key, ok := reverse(bf.Bits[0].Enumerations, x); ok {
				return key << bf.Bits[0].Index, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not a bit label", wire.ErrValueType, x)
	}
	return v, nil
}

func findBit(bf model.BitField, name string) (model.Bit, bool) {
	for _, b := range bf.Bits {
		if b.Name == name {
			return b, true
		}
	}
	return model.Bit{}, false
}

// reverse looks up the key of an enumeration label.
func reverse(e model.Enumeration, label string) (uint64, bool) {
	for k, l := range e {
		if l == label {
			return k, true
		}
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint32:
		return float64(x), true
	}
	return 0, false
}
