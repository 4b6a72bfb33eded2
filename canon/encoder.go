package canon

import (
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/zero-day-ai/objhash/identity"
)

// Circular replaces a reference that is already being encoded further up
// the current path.
const Circular = "*Circular*"

// Encode returns the canonical string of v. It never fails: every value has
// an encoding.
func Encode(v any, opts Options) string {
	return newEncoder(opts).encode(reflect.ValueOf(v))
}

// EncodeValue is Encode for a value already in reflected form.
func EncodeValue(v reflect.Value, opts Options) string {
	return newEncoder(opts).encode(v)
}

type encoder struct {
	opts    Options
	labeler Labeler
	// path holds the references between the root and the node being encoded.
	path map[ref]struct{}
}

func newEncoder(opts Options) *encoder {
	labeler := opts.Labeler
	if labeler == nil {
		labeler = identity.Default()
	}
	return &encoder{
		opts:    opts,
		labeler: labeler,
		path:    make(map[ref]struct{}),
	}
}

func (e *encoder) encode(v reflect.Value) string {
	n := resolve(v)

	switch n.kind {
	case KindAbsent:
		return ""
	case KindNull:
		return "null"
	case KindScalar:
		return formatScalar(n.val)
	case KindFunc:
		return e.labeler.Label(n.val)
	case KindTime:
		if t, ok := interfaceOf(n.val).(time.Time); ok {
			return FormatTime(t)
		}
		return "null"
	case KindPattern:
		if re, ok := interfaceOf(n.val).(*regexp.Regexp); ok {
			return "/" + re.String() + "/"
		}
		return "null"
	case KindSet:
		return e.enter(n, e.encodeSet)
	case KindMap:
		return e.enter(n, e.encodeMap)
	}

	if e.opts.CustomEncoder != nil && n.orig.CanInterface() {
		if s, ok := e.opts.CustomEncoder(n.orig.Interface()); ok {
			return s
		}
	}

	switch n.kind {
	case KindSequence:
		return e.enter(n, e.encodeSequence)
	case KindRecord:
		return e.enter(n, e.encodeRecord)
	default:
		return e.enter(n, e.encodeOpaque)
	}
}

// enter runs fn with n marked as on the current path, or returns Circular
// when it already is.
func (e *encoder) enter(n node, fn func(node) string) string {
	if !n.id.valid() {
		return fn(n)
	}
	if _, onPath := e.path[n.id]; onPath {
		return Circular
	}
	e.path[n.id] = struct{}{}
	defer delete(e.path, n.id)
	return fn(n)
}

type item struct {
	raw reflect.Value
	enc string
}

func (e *encoder) encodeSequence(n node) string {
	v := n.val
	items := make([]item, v.Len())
	for i := range items {
		el := v.Index(i)
		items[i] = item{raw: el, enc: e.encode(el)}
	}
	if e.opts.SortArrays {
		slices.SortStableFunc(items, func(a, b item) int {
			return Compare(a.raw, b.raw, a.enc, b.enc)
		})
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(it.enc)
	}
	sb.WriteByte(']')
	return sb.String()
}

func (e *encoder) encodeSet(n node) string {
	v := n.val
	var members []string
	if v.Kind() == reflect.Map {
		members = make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			members = append(members, e.encode(iter.Key()))
		}
	} else {
		members = make([]string, v.Len())
		for i := range members {
			members[i] = e.encode(v.Index(i))
		}
	}
	slices.SortFunc(members, CompareStrings)
	return "Set(" + strings.Join(members, ",") + ")"
}

type mapEntry struct {
	key    reflect.Value
	keyEnc string
	valEnc string
}

func (e *encoder) encodeMap(n node) string {
	v := n.val
	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, mapEntry{
			key:    iter.Key(),
			keyEnc: e.encode(iter.Key()),
			valEnc: e.encode(iter.Value()),
		})
	}

	// Keys compare raw. Distinct keys that still tie, such as 1 and 1.0 in a
	// Map, are ordered by value so iteration order cannot leak through.
	slices.SortFunc(entries, func(a, b mapEntry) int {
		if c := Compare(a.key, b.key, a.keyEnc, b.keyEnc); c != 0 {
			return c
		}
		return CompareStrings(a.valEnc, b.valEnc)
	})

	var sb strings.Builder
	sb.WriteString("Map(")
	for i, en := range entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(en.keyEnc)
		sb.WriteByte(':')
		sb.WriteString(en.valEnc)
	}
	sb.WriteByte(')')
	return sb.String()
}

type property struct {
	name   string
	val    reflect.Value
	absent bool
}

func (e *encoder) encodeRecord(n node) string {
	v := n.val
	var props []property

	switch v.Kind() {
	case reflect.Map:
		props = make([]property, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val := iter.Value()
			props = append(props, property{
				name:   iter.Key().String(),
				val:    val,
				absent: isAbsent(val),
			})
		}
	case reflect.Struct:
		fields := structFields(v.Type())
		props = make([]property, 0, len(fields))
		for _, f := range fields {
			fv := v.Field(f.index)
			props = append(props, property{
				name:   f.name,
				val:    fv,
				absent: isAbsent(fv) || (f.omitEmpty && isEmptyValue(fv)),
			})
		}
	}

	if e.opts.IgnoreUndefinedProperties {
		props = slices.DeleteFunc(props, func(p property) bool { return p.absent })
	}
	slices.SortStableFunc(props, func(a, b property) int {
		return CompareStrings(a.name, b.name)
	})

	var sb strings.Builder
	sb.WriteByte('{')
	for i, p := range props {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(Quote(p.name))
		sb.WriteByte(':')
		if !p.absent {
			sb.WriteString(e.encode(p.val))
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func (e *encoder) encodeOpaque(n node) string {
	return e.labeler.Label(n.val)
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
