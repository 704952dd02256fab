package wire

import (
	"fmt"
	"strings"
)

// Type is a primitive field encoding.
type Type uint8

// Primitive types.
const (
	// TypeNone marks a field without its own encoding (a reference
	// placeholder). It never appears in a Format.
	TypeNone Type = iota
	TypeBool
	TypeUint8
	TypeSint8
	TypeUint12
	TypeUint16
	TypeSint16
	TypeUint24
	TypeSint24
	TypeUint32
	TypeSint32
	TypeUint40
	TypeUint48
	TypeSint48
	TypeUint64
	TypeSint64
	TypeUint128
	TypeFloat32
	TypeFloat64
	TypeFLOAT
	TypeSFLOAT
	TypeUTF8S
	TypeGattUUID
	TypeVariable
)

type typeInfo struct {
	name   string
	size   int
	signed bool
}

var typeInfos = [...]typeInfo{
	TypeNone:     {"characteristic", 0, false},
	TypeBool:     {"boolean", 1, false},
	TypeUint8:    {"uint8", 1, false},
	TypeSint8:    {"sint8", 1, true},
	TypeUint12:   {"uint12", 2, false},
	TypeUint16:   {"uint16", 2, false},
	TypeSint16:   {"sint16", 2, true},
	TypeUint24:   {"uint24", 3, false},
	TypeSint24:   {"sint24", 3, true},
	TypeUint32:   {"uint32", 4, false},
	TypeSint32:   {"sint32", 4, true},
	TypeUint40:   {"uint40", 5, false},
	TypeUint48:   {"uint48", 6, false},
	TypeSint48:   {"sint48", 6, true},
	TypeUint64:   {"uint64", 8, false},
	TypeSint64:   {"sint64", 8, true},
	TypeUint128:  {"uint128", 16, false},
	TypeFloat32:  {"float32", 4, true},
	TypeFloat64:  {"float64", 8, true},
	TypeFLOAT:    {"FLOAT", 4, true},
	TypeSFLOAT:   {"SFLOAT", 2, true},
	TypeUTF8S:    {"utf8s", 0, false},
	TypeGattUUID: {"gatt_uuid", 2, false},
	TypeVariable: {"variable", 0, false},
}

// typeAliases maps metadata format names that share an encoding with one of
// the canonical names.
var typeAliases = map[string]Type{
	"2bit":       TypeUint8,
	"4bit":       TypeUint8,
	"nibble":     TypeUint8,
	"8bit":       TypeUint8,
	"16bit":      TypeUint16,
	"24bit":      TypeUint24,
	"32bit":      TypeUint32,
	"bool":       TypeBool,
	"medfloat32": TypeFLOAT,
	"medfloat16": TypeSFLOAT,
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeInfos)+len(typeAliases))
	for t, info := range typeInfos {
		m[info.name] = Type(t)
	}
	for name, t := range typeAliases {
		m[name] = t
	}
	return m
}()

// ParseType maps a metadata format name to its Type. FLOAT and SFLOAT are
// case-sensitive; the lowercase "float32"/"float64" names are IEEE-754.
func ParseType(name string) (Type, error) {
	if t, ok := typesByName[strings.TrimSpace(name)]; ok {
		return t, nil
	}
	return TypeNone, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// String returns the canonical format name.
func (t Type) String() string {
	if int(t) < len(typeInfos) {
		return typeInfos[t].name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Size returns the encoded width in bytes. Variable-length types and
// TypeNone report 0.
func (t Type) Size() int {
	if int(t) < len(typeInfos) {
		return typeInfos[t].size
	}
	return 0
}

// IsVariable reports whether the type consumes the remainder of the buffer.
func (t Type) IsVariable() bool {
	return t == TypeUTF8S || t == TypeVariable
}

// IsInteger reports whether values of this type unpack to uint64 or int64.
func (t Type) IsInteger() bool {
	switch t {
	case TypeUint8, TypeSint8, TypeUint12, TypeUint16, TypeSint16,
		TypeUint24, TypeSint24, TypeUint32, TypeSint32, TypeUint40,
		TypeUint48, TypeSint48, TypeUint64, TypeSint64:
		return true
	}
	return false
}

// IsSigned reports whether integer values of this type are two's complement.
func (t Type) IsSigned() bool {
	return t.IsInteger() && typeInfos[t].signed
}

// IsNumeric reports whether values of this type can be scaled.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeFloat32, TypeFloat64, TypeFLOAT, TypeSFLOAT:
		return true
	}
	return t.IsInteger()
}

// Valid reports whether t is a known type that can appear in a Format.
func (t Type) Valid() bool {
	return t != TypeNone && int(t) < len(typeInfos)
}

// UUID16 is a 16-bit Bluetooth assigned number read from a gatt_uuid field.
type UUID16 uint16

// String formats the UUID as 0xXXXX.
func (u UUID16) String() string {
	return fmt.Sprintf("0x%04X", uint16(u))
}

// MarshalText encodes the UUID in its string form.
func (u UUID16) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}
