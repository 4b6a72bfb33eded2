// Package objhash computes short, deterministic fingerprints of Go values.
//
// A value is first reduced to a canonical string (package canon) in which
// record keys, set members and map entries are sorted, so that values that
// are equal up to ordering produce the same string. The string is then
// hashed with a seeded 2x32-bit mixing function (package mix) and rendered
// as 14 base-36 characters.
//
// # Usage
//
//	fp := objhash.Fingerprint(map[string]any{"b": 2, "a": 1})
//	// fp == objhash.Fingerprint(map[string]any{"a": 1, "b": 2})
//
// Options adjust the encoding:
//
//	objhash.Fingerprint([]int{2, 1}, objhash.WithSortArrays(true))
//	objhash.Fingerprint(v, objhash.WithIgnoreUndefinedProperties(false))
//	objhash.Fingerprint(v, objhash.WithSeed(42))
//
// # Value Model
//
// Maps with string keys and structs are records. Structs are encoded by
// their exported fields, honouring json tag names, "-" and omitempty.
// Set and map[K]struct{} are sets. Map and maps with non-string keys are
// key-value maps. Slices and arrays are sequences. time.Time and
// *regexp.Regexp have dedicated literal forms.
//
// Funcs, channels and pointers to structs without exported fields cannot be
// compared structurally. They are labelled by reference through an identity
// registry (package identity): the same reference always gets the same label
// within a process, a different reference always a different one. Labels
// are random per process, so fingerprints of such values are not stable
// across runs.
//
// Cycles are cut with the Circular token. Values shared between branches
// without forming a cycle are encoded in full each time.
//
// # Observability
//
// Hasher wraps the same operations with structured logging and
// OpenTelemetry tracing and metrics:
//
//	h := objhash.New(
//		objhash.WithLogger(logger),
//		objhash.WithTracer(tp.Tracer("app")),
//		objhash.WithMeterProvider(mp),
//	)
//	fp := h.Fingerprint(ctx, v)
//
// # Errors
//
// Fingerprinting never fails. The edges that can fail (options files,
// document decoding, ParseFingerprint) return *Error values wrapping the
// sentinel errors ErrInvalidConfig, ErrUnsupportedFormat and
// ErrMalformedFingerprint.
package objhash
