package identity

import (
	"log/slog"
	"math/rand/v2"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unsafe"
)

const (
	// KindFunction prefixes labels of func values.
	KindFunction = "function"

	// KindInstance prefixes labels of every other reference.
	KindInstance = "instance"
)

// tokenRange bounds the random component of a label token.
const tokenRange = 1 << 52

// key identifies a reference. The type is part of the key because a pointer
// to a struct and a pointer to its first field share an address.
type key struct {
	addr uintptr
	typ  reflect.Type
}

type entry struct {
	label string
	pin   any
}

// Registry maps references to labels.
type Registry struct {
	mu      sync.Mutex
	entries map[key]entry
	logger  *slog.Logger
	token   func() int64
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report label allocation.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTokenFunc replaces the token source. It exists for tests that need
// predictable labels.
func WithTokenFunc(fn func() int64) Option {
	return func(r *Registry) {
		if fn != nil {
			r.token = fn
		}
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[key]entry),
		logger:  slog.New(slog.DiscardHandler),
		token:   defaultToken,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

func defaultToken() int64 {
	return time.Now().UnixMilli() + rand.Int64N(tokenRange)
}

// Label returns the label of the reference held by v, allocating one on
// first use. v should be a func, pointer, chan, map, slice or unsafe.Pointer.
// Values without an address, and nil references, get a fresh label on every
// call because there is nothing to memoize them by.
func (r *Registry) Label(v reflect.Value) string {
	k, ok := keyOf(v)
	if !ok {
		return r.newLabel(v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, found := r.entries[k]; found {
		return e.label
	}

	label := r.newLabel(v)
	var pin any
	if v.CanInterface() {
		pin = v.Interface()
	}
	r.entries[k] = entry{label: label, pin: pin}

	r.logger.Debug("allocated identity label",
		"label", label,
		"type", k.typ.String(),
	)
	return label
}

// Lookup returns the label already assigned to v, if any.
func (r *Registry) Lookup(v reflect.Value) (string, bool) {
	k, ok := keyOf(v)
	if !ok {
		return "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, found := r.entries[k]
	return e.label, found
}

// Len reports how many references currently hold a label.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset forgets every label and releases the pinned references. References
// seen again after a reset receive new labels.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	clear(r.entries)
	r.logger.Debug("identity registry reset", "released", n)
}

func (r *Registry) newLabel(v reflect.Value) string {
	kind, name := describe(v)

	var sb strings.Builder
	sb.WriteString(kind)
	sb.WriteByte(' ')
	sb.WriteString(name)
	sb.WriteByte('_')
	sb.WriteString(strconv.FormatInt(r.token(), 10))
	return sb.String()
}

func keyOf(v reflect.Value) (key, bool) {
	if !v.IsValid() {
		return key{}, false
	}

	var addr uintptr
	switch v.Kind() {
	case reflect.Func:
		if v.IsNil() {
			return key{}, false
		}
		addr = closureAddr(v)
	case reflect.Pointer, reflect.Chan, reflect.Map, reflect.Slice, reflect.UnsafePointer:
		if v.IsNil() {
			return key{}, false
		}
		addr = v.Pointer()
	default:
		return key{}, false
	}

	if addr == 0 {
		return key{}, false
	}
	return key{addr: addr, typ: v.Type()}, true
}

// closureAddr returns the address of the closure object behind a func value.
// reflect only exposes the code pointer, which every closure created from the
// same literal shares. A func is pointer-shaped, so the data word of an
// interface holding it is the closure pointer itself.
func closureAddr(v reflect.Value) uintptr {
	if !v.CanInterface() {
		return v.Pointer()
	}
	iface := v.Interface()
	words := (*[2]unsafe.Pointer)(unsafe.Pointer(&iface))
	return uintptr(words[1])
}

func describe(v reflect.Value) (kind, name string) {
	if !v.IsValid() {
		return KindInstance, ""
	}
	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return KindFunction, ""
		}
		return KindFunction, FuncName(runtime.FuncForPC(v.Pointer()))
	}
	return KindInstance, TypeName(v.Type())
}

// FuncName returns the declared name of fn without its package path.
// Anonymous functions and closures yield the empty string.
func FuncName(fn *runtime.Func) string {
	if fn == nil {
		return ""
	}
	full := fn.Name()

	// Trim the import path, then the package name.
	if i := strings.LastIndexByte(full, '/'); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.IndexByte(full, '.'); i >= 0 {
		full = full[i+1:]
	}
	full = strings.TrimSuffix(full, "-fm")

	// Drop instantiation brackets of generic functions.
	if i := strings.IndexByte(full, '['); i >= 0 {
		full = full[:i]
	}

	segments := strings.Split(full, ".")
	for _, seg := range segments {
		if isClosureSegment(seg) {
			return ""
		}
	}
	return segments[len(segments)-1]
}

func isClosureSegment(seg string) bool {
	if seg == "" {
		return true
	}
	digits := strings.TrimPrefix(seg, "func")
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// TypeName returns the name used for instances of t. Pointer types are
// named after their element; unnamed types use their literal form.
func TypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
