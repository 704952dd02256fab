// Package decode turns raw GATT characteristic values into readings.
//
// A Decoder resolves a characteristic through a Source, decides which of its
// fields are present in the value and unpacks them in one pass:
//
//   - A characteristic with a single field is unpacked directly. Bit fields
//     are split into their named ranges, enumerated values become labels and
//     everything else is scaled.
//   - With several fields, a leading bit field named "Flags" selects the
//     optional fields. Each Flags range maps its bit pattern to a
//     requirement tag; a field is present when it is "Mandatory" or when all
//     of its tags are satisfied. Without a Flags field only mandatory fields
//     are present.
//   - Reference fields are replaced by the referenced characteristic's
//     fields before unpacking.
//
// Definitions are immutable, so a Decoder is safe for concurrent use. Use a
// Registry in front of the Source to build each definition at most once.
package decode
