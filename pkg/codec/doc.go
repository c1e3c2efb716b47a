// Package codec provides the deterministic little-endian object codec.
package codec

// The codec walks a record's exported struct fields in declared order
// and encodes them without padding or per-field tags. All multi-byte
// values are little-endian on the wire.
//
// Producer/consumer symmetry: Serialize and Deserialize of the same
// record type always agree on the byte layout, and SizeOf agrees
// bit-for-bit with the number of bytes Serialize emits.
