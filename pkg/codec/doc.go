// Package codec decodes single binary-encoded records against a fixed wire
// schema, and encodes them for tooling and tests.
//
// # Wire Format
//
// The wire format is Avro binary encoding of a flat record whose fields are
// all 2-branch nullable unions, in wire schema order, with no field tags:
//
//	[presence tag][value bytes] ... repeated per field, in schema order
//
// Per field:
//   - Presence tag: a zig-zag varint union index. 0 selects the null branch
//     (no value bytes follow); 1 selects the value branch. Any other index is
//     malformed. The real type is always the second branch, and deeper union
//     nesting is unsupported.
//   - int, long: zig-zag varints
//   - float, double: fixed-width little-endian IEEE 754
//   - string, binary: varint byte length followed by that many bytes
//   - boolean: a single byte (0 or 1)
//
// This layout is wire-compatible with any Avro producer writing the same
// optional-field record schema.
//
// # Error Handling
//
// Decode fails with *DecodeError on truncated buffers, invalid presence
// tags, malformed length prefixes, and trailing bytes after the record.
// Failure is all-or-nothing per record; a partially populated record is
// never returned.
//
// # Thread Safety
//
// Codec instances are immutable after construction and safe for concurrent
// use.
package codec
