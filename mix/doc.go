// Package mix implements the seeded mixing hash that turns a canonical string
// into a fingerprint.
//
// The hash keeps two 32-bit accumulators. Every UTF-16 code unit of the input
// is XORed into both and each accumulator is multiplied by its own odd
// constant with 32-bit wraparound. A final avalanche round folds the high bits
// of each accumulator into the other. The constants and the cross-mixing order
// are fixed: fingerprints produced by this package are reproducible by any
// other implementation of the same algorithm.
//
// # Fingerprint Format
//
// A fingerprint is the pair (a, b) returned by Sum rendered in lowercase
// base-36, each half left-padded with '0' to seven characters:
//
//	mix.Fingerprint("hello", 0) // "1h6qa0q0rowduu"
//
// The format is always 14 characters because the largest uint32,
// 4294967295, is "1z141z3" in base 36.
//
// # Code Units
//
// Go strings are UTF-8, but the algorithm is defined over UTF-16 code units.
// Runes outside the Basic Multilingual Plane contribute two units (their
// surrogate pair). Invalid UTF-8 bytes contribute U+FFFD, which matches how
// the canonicalizer renders them.
package mix
