package canon

import (
	"encoding/json"
	"reflect"
	"regexp"
	"time"
)

// Kind is the closed set of value categories the encoder dispatches on.
type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindScalar
	KindFunc
	KindTime
	KindPattern
	KindSet
	KindMap
	KindSequence
	KindRecord
	KindOpaque
)

var kindNames = [...]string{
	KindAbsent:   "absent",
	KindNull:     "null",
	KindScalar:   "scalar",
	KindFunc:     "func",
	KindTime:     "time",
	KindPattern:  "pattern",
	KindSet:      "set",
	KindMap:      "map",
	KindSequence: "sequence",
	KindRecord:   "record",
	KindOpaque:   "opaque",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Absent marks a value as missing. Record entries holding Absent are dropped
// when Options.IgnoreUndefinedProperties is set.
type Absent struct{}

// Undefined is the Absent value.
var Undefined = Absent{}

// Set is an unordered collection. Members are encoded as given, so callers
// supply distinct members.
type Set []any

// Map is a key-value collection whose keys may be of any comparable type.
// Unlike a string-keyed map it encodes as Map(...), not as a record.
type Map map[any]any

var (
	absentType = reflect.TypeOf(Absent{})
	setType    = reflect.TypeOf(Set(nil))
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf((*regexp.Regexp)(nil))
	numberType = reflect.TypeOf(json.Number(""))
)

// ref identifies a node for cycle detection.
type ref struct {
	addr uintptr
	typ  reflect.Type
	n    int
}

func (r ref) valid() bool { return r.addr != 0 }

// node is a value after interfaces and pointers have been resolved.
type node struct {
	kind Kind
	val  reflect.Value
	// orig is the value as encountered, before pointers were followed.
	orig reflect.Value
	id   ref
}

// KindOf reports how v would be classified by the encoder.
func KindOf(v any) Kind {
	return resolve(reflect.ValueOf(v)).kind
}

func resolve(v reflect.Value) node {
	v, ok := unwrap(v)
	if !ok {
		return node{kind: KindNull}
	}
	orig := v

	var id ref
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return node{kind: KindNull, orig: orig}
		}
		if v.Type() == regexpType {
			return node{kind: KindPattern, val: v, orig: orig}
		}
		elem := v.Type().Elem()
		if isOpaqueStruct(elem) {
			return node{kind: KindOpaque, val: v, orig: orig, id: ref{addr: v.Pointer(), typ: v.Type()}}
		}
		id = ref{addr: v.Pointer(), typ: elem}
		if v, ok = unwrap(v.Elem()); !ok {
			return node{kind: KindNull, orig: orig}
		}
	}

	n := node{val: v, orig: orig, id: id}
	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		n.kind = KindScalar
	case reflect.Func:
		if v.IsNil() {
			n.kind = KindNull
		} else {
			n.kind = KindFunc
		}
	case reflect.Struct:
		switch v.Type() {
		case absentType:
			n.kind = KindAbsent
		case timeType:
			n.kind = KindTime
		default:
			n.kind = KindRecord
		}
	case reflect.Map:
		n.id = ref{addr: v.Pointer(), typ: v.Type()}
		switch {
		case isEmptyStruct(v.Type().Elem()):
			n.kind = KindSet
		case v.Type().Key().Kind() == reflect.String:
			n.kind = KindRecord
		default:
			n.kind = KindMap
		}
	case reflect.Slice:
		n.id = ref{addr: v.Pointer(), typ: v.Type(), n: v.Len()}
		if v.Type() == setType {
			n.kind = KindSet
		} else {
			n.kind = KindSequence
		}
	case reflect.Array:
		n.kind = KindSequence
	case reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			n.kind = KindNull
		} else {
			n.kind = KindOpaque
			n.id = ref{addr: v.Pointer(), typ: v.Type()}
		}
	default:
		n.kind = KindNull
	}
	return n
}

// unwrap strips interface layers. It reports false for nil.
func unwrap(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

// isOpaqueStruct reports whether t has state but exposes none of it.
// time.Time qualifies structurally but has its own encoding.
func isOpaqueStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() == 0 || t == timeType {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return false
		}
	}
	return true
}

func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

// isAbsent reports whether v holds the Absent sentinel.
func isAbsent(v reflect.Value) bool {
	v, ok := unwrap(v)
	return ok && v.Type() == absentType
}
