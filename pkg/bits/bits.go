// Package bits extracts named sub-ranges from integer bit fields.
package bits

// Mask returns ((1<<size)-1) << index. A size of 64 or more selects every
// bit from index upward.
func Mask(index, size uint) uint64 {
	if size == 0 || index >= 64 {
		return 0
	}
	var m uint64
	if size >= 64 {
		m = ^uint64(0)
	} else {
		m = uint64(1)<<size - 1
	}
	return m << index
}

// Extract returns the size-bit key found at index within value. The
// container width of the bit field plays no part: bits outside the range are
// masked off whatever the width.
func Extract(value uint64, index, size uint) uint64 {
	return (value & Mask(index, size)) >> index
}

// Label looks up key in an enumeration. A miss returns ("", false) and the
// caller keeps the raw key.
func Label(key uint64, enum map[uint64]string) (string, bool) {
	label, ok := enum[key]
	return label, ok
}

// Requires looks up the requirement tag a bit pattern satisfies. A miss is
// the boolean false sentinel: the tag is simply not satisfied.
func Requires(key uint64, requires map[uint64]string) (string, bool) {
	tag, ok := requires[key]
	if !ok || tag == "" {
		return "", false
	}
	return tag, true
}

// Value is one decoded sub-range of a bit field.
type Value struct {
	Name  string `json:"name" cbor:"1,keyasint"`
	Key   uint64 `json:"key" cbor:"2,keyasint"`
	Label string `json:"label,omitempty" cbor:"3,keyasint,omitempty"`
	// Known is false when the key had no enumeration entry.
	Known bool `json:"-" cbor:"-"`
}

// Display returns the label, or the raw key when the enumeration missed.
func (v Value) Display() any {
	if v.Known {
		return v.Label
	}
	return v.Key
}
