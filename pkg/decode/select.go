package decode

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gattdecode/gattdecode-go/pkg/bits"
	"github.com/gattdecode/gattdecode-go/pkg/model"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// entry is a field selected for unpacking.
type entry struct {
	field *model.Field

	// from names the referenced characteristic the field was spliced from,
	// "" for the characteristic's own fields.
	from string
}

// tagSet holds the requirement tags satisfied by a Flags value.
type tagSet map[string]struct{}

// includes reports whether f is present: it is mandatory, or it has tags
// and every one of them is satisfied. Fields without tags are absent.
func (s tagSet) includes(f *model.Field) bool {
	if f.IsMandatory() {
		return true
	}
	if len(f.Requirements) == 0 {
		return false
	}
	for _, tag := range f.Requirements {
		if _, ok := s[tag]; !ok {
			return false
		}
	}
	return true
}

// requirements collects the tags the Flags value satisfies. Ranges without
// a Requires entry for their pattern satisfy nothing.
func requirements(bf model.BitField, flags uint64) tagSet {
	s := tagSet{}
	for _, b := range bf.Bits {
		if len(b.Requires) == 0 {
			continue
		}
		if tag, ok := bits.Requires(bits.Extract(flags, b.Index, b.Size), b.Requires); ok {
			s[tag] = struct{}{}
		}
	}
	return s
}

// decodeBits splits value into the named ranges of bf.
func decodeBits(bf model.BitField, value uint64) []bits.Value {
	out := make([]bits.Value, 0, len(bf.Bits))
	for _, b := range bf.Bits {
		key := bits.Extract(value, b.Index, b.Size)
		label, ok := bits.Label(key, b.Enumerations)
		out = append(out, bits.Value{Name: b.Name, Key: key, Label: label, Known: ok})
	}
	return out
}

// selectFields returns the present fields of c in declaration order with
// references spliced in. skip is the Flags field, if any.
func (d *Decoder) selectFields(c *model.Characteristic, skip *model.Field, reqs tagSet, chain []string) ([]entry, error) {
	var out []entry
	for _, f := range c.Fields {
		if f == skip || !reqs.includes(f) {
			continue
		}
		if name, ok := f.Reference(); ok {
			spliced, err := d.splice(name, chain)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			out = append(out, spliced...)
			continue
		}
		out = append(out, entry{field: f})
	}
	return out, nil
}

// splice returns every field of the referenced characteristic, expanding
// nested references.
func (d *Decoder) splice(name string, chain []string) ([]entry, error) {
	rc, next, err := d.resolve(name, chain)
	if err != nil {
		return nil, err
	}
	out := make([]entry, 0, rc.Len())
	for _, f := range rc.Fields {
		if n, ok := f.Reference(); ok {
			nested, err := d.splice(n, next)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		out = append(out, entry{field: f, from: rc.Name})
	}
	return out, nil
}

// resolve looks up a referenced characteristic and returns the extended
// reference chain. Revisiting a chain member or nesting deeper than the
// configured depth fails with ErrReferenceCycle.
func (d *Decoder) resolve(name string, chain []string) (*model.Characteristic, []string, error) {
	key := Key(name)
	if slices.Contains(chain, key) {
		return nil, nil, fmt.Errorf("%w: %s -> %s", ErrReferenceCycle, strings.Join(chain, " -> "), key)
	}
	if len(chain) > d.maxDepth {
		return nil, nil, fmt.Errorf("%w: %s exceeds depth %d", ErrReferenceCycle, name, d.maxDepth)
	}
	if d.src == nil {
		return nil, nil, fmt.Errorf("%w: %s: no source", ErrReferenceResolution, name)
	}
	rc, err := d.src.Lookup(name)
	if err == nil && rc == nil {
		err = ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrReferenceResolution, name, err)
	}
	if rc.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: %s: %w: no fields", ErrReferenceResolution, name, ErrMalformedSpec)
	}
	return rc, append(slices.Clip(chain), key), nil
}

// decodeSingle decodes a characteristic with one field.
func (d *Decoder) decodeSingle(res *Result, f *model.Field, data []byte, chain []string) error {
	if name, ok := f.Reference(); ok {
		rc, next, err := d.resolve(name, chain)
		if err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		inner, err := d.decode(rc, data, next)
		if err != nil {
			return err
		}
		for i := range inner.Fields {
			if inner.Fields[i].Reference == "" {
				inner.Fields[i].Reference = rc.Name
			}
		}
		res.Fields, res.Flags = inner.Fields, inner.Flags
		return nil
	}

	values, err := wire.Unpack(wire.Format{f.Type()}, data)
	if err != nil {
		return err
	}
	r := newReading(f, values[0], "")
	switch {
	case len(r.Bits) == 1:
		r.Value = r.Bits[0].Display()
	case r.Bits == nil && r.Label != "":
		r.Value = r.Label
		r.Quantity, r.Unit, r.Symbol = "", "", ""
	}
	res.Fields = []Reading{r}
	return nil
}

// decodeMulti decodes a characteristic with several fields.
func (d *Decoder) decodeMulti(res *Result, c *model.Characteristic, data []byte, chain []string) error {
	flags := c.FlagsField()
	reqs := tagSet{}
	var format wire.Format

	if flags != nil {
		bf, _ := flags.BitField()
		n := bf.Format.Size()
		if len(data) < n {
			return &wire.LengthError{Format: wire.Format{bf.Format}, Want: n, Got: len(data), Variable: true}
		}
		head, err := wire.Unpack(wire.Format{bf.Format}, data[:n])
		if err != nil {
			return err
		}
		value, _ := bitKey(head[0])
		res.Flags = decodeBits(bf, value)
		reqs = requirements(bf, value)
		format = append(format, bf.Format)
	}

	entries, err := d.selectFields(c, flags, reqs, chain)
	if err != nil {
		return err
	}
	for _, e := range entries {
		format = append(format, e.field.Type())
	}
	if flags != nil {
		data = padOdd(format, data)
	}

	values, err := wire.Unpack(format, data)
	if err != nil {
		return err
	}
	if flags != nil {
		values = values[1:]
	}

	res.Fields = make([]Reading, 0, len(entries))
	for i, e := range entries {
		res.Fields = append(res.Fields, newReading(e.field, values[i], e.from))
	}
	return nil
}

// padOdd left-pads data with one zero byte when it has an odd length one
// short of the fixed format size. The Flags value was already read from the
// unpadded data and the value unpacked in its slot is discarded.
func padOdd(f wire.Format, data []byte) []byte {
	fixed, variable := f.Size()
	if variable || len(data)%2 == 0 || len(data)+1 != fixed {
		return data
	}
	return append([]byte{0}, data...)
}
