// Package wire implements the byte-level formats used by GATT characteristic
// values and by decoded-result export.
//
// # Primitive Formats
//
// A characteristic value is a packed, little-endian concatenation of
// primitive fields. Each field is described by a [Type] token named after
// the Bluetooth format names (uint8, sint16, uint24, FLOAT, SFLOAT, utf8s,
// ...). A [Format] is an ordered list of tokens; [Unpack] slices a byte blob
// against it and [Pack] produces the inverse.
//
// There is no alignment or padding between fields. IEEE-11073 FLOAT and
// SFLOAT tokens may appear anywhere among fixed-width integers. The
// variable-length tokens (utf8s, variable) are only allowed as the last
// token and consume the rest of the buffer.
//
// # CBOR
//
// Decoded results and metadata digests use CBOR (RFC 8949) with canonical
// key ordering so that equal values always encode to equal bytes.
package wire
