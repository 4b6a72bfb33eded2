package canon

import "reflect"

// CustomEncoder lets callers take over the encoding of values the encoder
// would otherwise decompose or label. It receives the value as encountered,
// before pointers are followed, and reports false to fall through to the
// default rules.
type CustomEncoder func(v any) (string, bool)

// Labeler assigns identity labels to funcs and opaque references.
// *identity.Registry implements it.
type Labeler interface {
	Label(v reflect.Value) string
}

// Options controls encoding. The zero value disables IgnoreUndefinedProperties;
// use DefaultOptions for the documented defaults.
type Options struct {
	// SortArrays treats slices and arrays as unordered.
	SortArrays bool

	// IgnoreUndefinedProperties drops record entries whose value is absent.
	IgnoreUndefinedProperties bool

	// CustomEncoder, if set, is consulted before structural encoding.
	CustomEncoder CustomEncoder

	// Labeler assigns labels to reference values. Nil means the process-wide
	// identity registry.
	Labeler Labeler
}

// DefaultOptions returns the default encoding options: arrays keep their
// order and absent record entries are dropped.
func DefaultOptions() Options {
	return Options{
		IgnoreUndefinedProperties: true,
	}
}
