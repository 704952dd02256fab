package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/gattdecode/gattdecode-go/pkg/specparse"
	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// ErrMalformedSpec is returned when a definition cannot be turned into a
// Characteristic.
var ErrMalformedSpec = errors.New("malformed characteristic definition")

// Build constructs an immutable Characteristic from a parsed definition.
// Any malformed field fails the whole characteristic.
func Build(raw *specparse.RawCharacteristicDef) (*Characteristic, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil definition", ErrMalformedSpec)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformedSpec)
	}

	c := &Characteristic{
		Name:     raw.Name,
		Type:     raw.Type,
		UUID:     strings.TrimSpace(raw.UUID),
		Abstract: strings.TrimSpace(raw.Abstract),
		Fields:   make([]*Field, 0, len(raw.Fields)),
	}
	if c.Type == "" {
		c.Type = specparse.TypeName(raw.Name)
	}

	for i := range raw.Fields {
		f, err := buildField(&raw.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: field %q: %w", ErrMalformedSpec, raw.Name, raw.Fields[i].Name, err)
		}
		c.Fields = append(c.Fields, f)
	}
	if len(c.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s: no fields", ErrMalformedSpec, raw.Name)
	}

	encoded, err := wire.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding %s for digest: %w", raw.Name, err)
	}
	c.digest = blake2b.Sum256(encoded)
	return c, nil
}

func buildField(raw *specparse.RawFieldDef) (*Field, error) {
	if raw.Name == "" {
		return nil, errors.New("missing name")
	}
	f := &Field{
		Name:         raw.Name,
		Info:         strings.TrimSpace(raw.InformativeText),
		Requirements: nonEmpty(raw.Requirements),
		Scale: Scaling{
			Multiplier:      clone(raw.Multiplier),
			DecimalExponent: clone(raw.DecimalExponent),
			BinaryExponent:  clone(raw.BinaryExponent),
		},
		Minimum: clone(raw.Minimum),
		Maximum: clone(raw.Maximum),
	}
	if raw.Unit != "" {
		u := ParseUnit(raw.Unit)
		f.Unit = &u
	}

	kind, err := buildKind(raw)
	if err != nil {
		return nil, err
	}
	f.Kind = kind
	return f, nil
}

func buildKind(raw *specparse.RawFieldDef) (Kind, error) {
	format := strings.TrimSpace(raw.Format)

	if raw.Reference != "" {
		if format != "" && format != wire.TypeNone.String() {
			return nil, fmt.Errorf("reference field has format %q", format)
		}
		if len(raw.BitField) > 0 || len(raw.Enumerations) > 0 {
			return nil, errors.New("reference field has enumerations or a bit field")
		}
		return Reference{Name: specparse.ReferenceName(raw.Reference)}, nil
	}

	if format == "" {
		return nil, errors.New("missing format")
	}
	t, err := wire.ParseType(format)
	if err != nil {
		return nil, err
	}
	if t == wire.TypeNone {
		return nil, errors.New("format characteristic without a reference")
	}

	if len(raw.BitField) > 0 {
		if !t.IsInteger() {
			return nil, fmt.Errorf("bit field container %s is not an integer type", t)
		}
		bf := BitField{Format: t, Bits: make([]Bit, 0, len(raw.BitField))}
		for _, rb := range raw.BitField {
			bit, err := buildBit(rb)
			if err != nil {
				return nil, err
			}
			bf.Bits = append(bf.Bits, bit)
		}
		return bf, nil
	}

	enums, _, err := buildEnumeration(raw.Enumerations)
	if err != nil {
		return nil, err
	}
	return Plain{Format: t, Enumerations: enums}, nil
}

func buildBit(raw specparse.RawBitDef) (Bit, error) {
	name := raw.BitName()
	if raw.Index == nil || raw.Size == nil {
		return Bit{}, fmt.Errorf("bit %q: missing index or size", name)
	}
	index, size := *raw.Index, *raw.Size
	if index < 0 || size <= 0 || index+size > 64 {
		return Bit{}, fmt.Errorf("bit %q: index %d size %d out of range", name, index, size)
	}
	enums, requires, err := buildEnumeration(raw.Enumerations)
	if err != nil {
		return Bit{}, fmt.Errorf("bit %q: %w", name, err)
	}
	return Bit{
		Name:         name,
		Index:        uint(index),
		Size:         uint(size),
		Enumerations: enums,
		Requires:     requires,
	}, nil
}

func buildEnumeration(raw []specparse.RawEnumeration) (Enumeration, map[uint64]string, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}
	enums := make(Enumeration, len(raw))
	var requires map[uint64]string
	for i, e := range raw {
		if e.Key == nil || e.Value == nil {
			return nil, nil, fmt.Errorf("enumeration %d: missing key or value", i)
		}
		if *e.Key < 0 {
			return nil, nil, fmt.Errorf("enumeration %d: negative key %d", i, *e.Key)
		}
		key := uint64(*e.Key)
		enums[key] = *e.Value
		if e.Requires != "" {
			if requires == nil {
				requires = make(map[uint64]string)
			}
			requires[key] = e.Requires
		}
	}
	return enums, requires, nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// clone copies an optional value so the model never aliases the document.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
