package model

import (
	"encoding/hex"
	"slices"

	"github.com/gattdecode/gattdecode-go/pkg/wire"
)

// Requirement tag names with fixed meaning.
const (
	// RequirementMandatory marks a field that is always present.
	RequirementMandatory = "Mandatory"

	// FlagsFieldName is the name of the field that selects optional fields.
	FlagsFieldName = "Flags"
)

// Characteristic describes the value layout of one GATT characteristic.
type Characteristic struct {
	// Name is the human-readable name ("Heart Rate Measurement").
	Name string

	// Type is the type identifier ("org.bluetooth.characteristic.heart_rate_measurement").
	Type string

	// UUID is the assigned number as written in the definition ("2A37").
	UUID string

	// Abstract is an optional description.
	Abstract string

	// Fields in declaration order.
	Fields []*Field

	digest [32]byte
}

// Len returns the number of declared fields.
func (c *Characteristic) Len() int {
	return len(c.Fields)
}

// Field returns the first field with the given name, or nil.
func (c *Characteristic) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FlagsField returns the field named "Flags" if it carries a bit field.
func (c *Characteristic) FlagsField() *Field {
	f := c.Field(FlagsFieldName)
	if f == nil {
		return nil
	}
	if _, ok := f.Kind.(BitField); !ok {
		return nil
	}
	return f
}

// Digest returns the hex-encoded BLAKE2b-256 digest of the definition the
// characteristic was built from.
func (c *Characteristic) Digest() string {
	return hex.EncodeToString(c.digest[:])
}

// Field describes one field of a characteristic value.
type Field struct {
	// Name is the field name, unique only by convention.
	Name string

	// Info is the informative text of the definition.
	Info string

	// Requirements lists the requirement tags in declaration order.
	Requirements []string

	// Unit is the unit of measurement, nil if the field has none.
	Unit *Unit

	// Scale holds the optional multiplier and exponents.
	Scale Scaling

	// Minimum and Maximum are the documented value limits, if any.
	Minimum *float64
	Maximum *float64

	// Kind is the field's encoding.
	Kind Kind
}

// Type returns the primitive encoding, or wire.TypeNone for references.
func (f *Field) Type() wire.Type {
	return f.Kind.Type()
}

// IsMandatory reports whether any requirement tag is "Mandatory".
func (f *Field) IsMandatory() bool {
	return slices.Contains(f.Requirements, RequirementMandatory)
}

// Reference returns the referenced characteristic name if the field is a
// reference.
func (f *Field) Reference() (string, bool) {
	r, ok := f.Kind.(Reference)
	return r.Name, ok
}

// BitField returns the bit field if the field has one.
func (f *Field) BitField() (BitField, bool) {
	b, ok := f.Kind.(BitField)
	return b, ok
}

// Enumerations returns the enumeration of a plain field, or nil.
func (f *Field) Enumerations() Enumeration {
	if p, ok := f.Kind.(Plain); ok {
		return p.Enumerations
	}
	return nil
}

// InRange reports whether v lies within the documented limits. Fields
// without limits accept everything.
func (f *Field) InRange(v float64) bool {
	if f.Minimum != nil && v < *f.Minimum {
		return false
	}
	if f.Maximum != nil && v > *f.Maximum {
		return false
	}
	return true
}

// Kind is the encoding of a field: Plain, BitField or Reference.
type Kind interface {
	// Type returns the primitive encoding of the field.
	Type() wire.Type

	isKind()
}

// Plain is a field encoded as a single primitive.
type Plain struct {
	Format       wire.Type
	Enumerations Enumeration
}

// Type implements Kind.
func (p Plain) Type() wire.Type { return p.Format }

func (Plain) isKind() {}

// BitField is an integer container divided into named bit ranges.
type BitField struct {
	Format wire.Type
	Bits   []Bit
}

// Type implements Kind.
func (b BitField) Type() wire.Type { return b.Format }

func (BitField) isKind() {}

// Width returns the container width: the sum of the declared bit sizes.
func (b BitField) Width() uint {
	var w uint
	for _, bit := range b.Bits {
		w += bit.Size
	}
	return w
}

// Reference is a placeholder for another characteristic's fields.
type Reference struct {
	// Name is the referenced characteristic name ("Date Time").
	Name string
}

// Type implements Kind. References contribute no bytes of their own.
func (Reference) Type() wire.Type { return wire.TypeNone }

func (Reference) isKind() {}

// Bit is one named bit range of a BitField.
type Bit struct {
	Name         string
	Index        uint
	Size         uint
	Enumerations Enumeration

	// Requires maps bit patterns to the requirement tags they satisfy.
	// Only meaningful on the Flags field.
	Requires map[uint64]string
}

// Enumeration maps integer codes to labels.
type Enumeration map[uint64]string

// Label returns the label for key.
func (e Enumeration) Label(key uint64) (string, bool) {
	l, ok := e[key]
	return l, ok
}
