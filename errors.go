package objhash

import (
	"errors"
	"fmt"

	"github.com/zero-day-ai/objhash/mix"
)

// Sentinel errors for the operations that can fail. Encoding itself never
// fails; errors come from the edges (options files, documents, fingerprints
// supplied by callers). Use errors.Is to test for them.
var (
	// ErrInvalidConfig indicates an options file or option value is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates a document format that cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrMalformedFingerprint indicates a string that is not a fingerprint.
	ErrMalformedFingerprint = mix.ErrMalformed
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindDecode represents errors raised while decoding a document.
	KindDecode = "decode"

	// KindIO represents errors reading files or streams.
	KindIO = "io"
)

// Error wraps an underlying error with the operation that failed and the
// category of the failure.
//
// Error supports errors.Is and errors.As:
//
//	_, err := config.Load(".objhash.yaml")
//	if errors.Is(err, objhash.ErrInvalidConfig) {
//		// ...
//	}
type Error struct {
	// Op is the operation that failed (e.g. "config.Load").
	Op string

	// Kind categorizes the error (e.g. KindValidation).
	Kind string

	// Err is the underlying error.
	Err error

	// Context carries optional debugging details such as the file path.
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("objhash: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("objhash: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("objhash: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind (and Op, when the target sets one) or
// delegates to the wrapped error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*Error); ok && t.Kind != "" && e.Kind == t.Kind {
		if t.Op == "" || e.Op == t.Op {
			return true
		}
	}
	return errors.Is(e.Err, target)
}

// WithContext returns a copy of e with ctx merged into its context.
func (e *Error) WithContext(ctx map[string]any) *Error {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

// NewValidationError creates an Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewConfigurationError creates an Error with KindConfiguration.
func NewConfigurationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

// NewDecodeError creates an Error with KindDecode.
func NewDecodeError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindDecode, Err: err}
}

// NewIOError creates an Error with KindIO.
func NewIOError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindIO, Err: err}
}
