// Package ieee11073 implements the ISO/IEEE 11073-20601 medical device
// floating point types used by Bluetooth GATT characteristics.
//
// # FLOAT
//
// A 32-bit value: a 24-bit two's-complement mantissa followed by a signed
// 8-bit base-10 exponent, little-endian on the wire:
//
//	byte 0..2  mantissa (LSB first)
//	byte 3     exponent
//
// # SFLOAT
//
// A 16-bit value: a 4-bit two's-complement exponent in the high nibble and a
// 12-bit two's-complement mantissa in the low bits, little-endian.
//
// # Special Values
//
// With an exponent of zero, five mantissa codes are reserved:
//
//	+(2^n - 2)  +INFINITY
//	+(2^n - 1)  NaN
//	-(2^n)      NRes (not at this resolution)
//	-(2^n - 1)  Reserved for future use
//	-(2^n - 2)  -INFINITY
//
// where n is 23 for FLOAT and 11 for SFLOAT. Decoding one of these patterns
// yields a [Value] whose Special field is set; the numeric part is never
// populated for them.
package ieee11073
