// Package model implements the in-memory metadata model of Bluetooth GATT
// characteristics.
//
// # Characteristic Structure
//
// A Characteristic is an ordered list of Fields. Order is load-bearing: it is
// the on-wire byte order of the value.
//
//	Heart Rate Measurement
//	├── Flags                         BitField(uint8)
//	├── Heart Rate Measurement Value  Plain(uint8)      C1
//	├── Heart Rate Measurement Value  Plain(uint16)     C2
//	├── Energy Expended               Plain(uint16)     C3
//	└── RR-Interval                   Plain(uint16)     C4
//
// # Field Kinds
//
// Every field has exactly one Kind:
//   - Plain: a primitive encoding with an optional enumeration
//   - BitField: an integer container split into named bit ranges
//   - Reference: a placeholder replaced by another characteristic's fields
//
// Fields also carry requirement tags ("Mandatory" or tags satisfied by the
// bits of a Flags field), optional scaling and optional unit metadata.
//
// # Immutability
//
// Characteristics are built once by [Build] and never modified afterwards.
// They may be shared by any number of goroutines without locking.
package model
