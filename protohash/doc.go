// Package protohash lets protobuf messages take part in fingerprints.
//
// Generated message structs carry internal state next to their fields, so
// encoding them structurally would depend on implementation details of the
// protobuf runtime. Value instead walks a message through protoreflect and
// returns plain Go values: populated fields keyed by their proto name,
// repeated fields as slices, map fields as maps, enums by name and bytes as
// base64 strings. Well-known types map onto their natural Go form
// (Timestamp to time.Time, Struct to map[string]any, wrappers to their
// scalar).
//
// Encoder plugs this conversion into the canonicalizer:
//
//	fp := objhash.Fingerprint(msg, objhash.WithCustomEncoder(protohash.Encoder()))
//
// Two messages that marshal to the same JSON produce the same fingerprint,
// regardless of field presence bookkeeping or unknown fields.
package protohash
