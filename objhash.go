package objhash

import (
	"github.com/zero-day-ai/objhash/canon"
	"github.com/zero-day-ai/objhash/mix"
)

// Value types understood by the canonicalizer.
type (
	// Set is an unordered collection. Members are sorted before encoding.
	Set = canon.Set

	// Map is a key-value collection with keys of any comparable type.
	Map = canon.Map

	// Absent is the type of Undefined.
	Absent = canon.Absent

	// CustomEncoder may take over the encoding of a non-scalar value by
	// returning its canonical form and true.
	CustomEncoder = canon.CustomEncoder
)

// Undefined marks a missing value. Record entries holding it are dropped
// unless WithIgnoreUndefinedProperties(false) is given.
var Undefined = canon.Undefined

// Circular is the token written in place of a reference that is already
// being encoded further up the path.
const Circular = canon.Circular

// Canonicalize returns the canonical string of v.
func Canonicalize(v any, opts ...Option) string {
	cfg := newConfig(opts)
	return canon.Encode(v, cfg.encoding())
}

// Fingerprint returns the 14-character base-36 fingerprint of v.
func Fingerprint(v any, opts ...Option) string {
	cfg := newConfig(opts)
	return mix.Fingerprint(canon.Encode(v, cfg.encoding()), cfg.seed)
}

// Sum returns the two 32-bit halves of v's fingerprint.
func Sum(v any, opts ...Option) (uint32, uint32) {
	cfg := newConfig(opts)
	return mix.Sum(canon.Encode(v, cfg.encoding()), cfg.seed)
}

// ParseFingerprint validates fp and returns its two halves.
func ParseFingerprint(fp string) (uint32, uint32, error) {
	a, b, err := mix.Decode(fp)
	if err != nil {
		return 0, 0, NewValidationError("ParseFingerprint", err).
			WithContext(map[string]any{"fingerprint": fp})
	}
	return a, b, nil
}
