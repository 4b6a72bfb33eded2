package canon

import (
	"cmp"
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// CompareStrings orders a and b by their UTF-16 code units.
func CompareStrings(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb {
			ha, la := codeUnits(ra)
			hb, lb := codeUnits(rb)
			if ha != hb {
				return cmp.Compare(ha, hb)
			}
			return cmp.Compare(la, lb)
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}

// codeUnits returns the first and second UTF-16 code unit of r. The second
// is zero for runes in the Basic Multilingual Plane.
func codeUnits(r rune) (uint16, uint16) {
	if r < 0x10000 {
		return uint16(r), 0
	}
	r -= 0x10000
	return uint16(0xd800 + (r>>10)&0x3ff), uint16(0xdc00 + r&0x3ff)
}

// Compare orders two values for sorting. Scalars order by class first
// (numbers, strings, booleans, then everything else) and by raw value within
// a class. Non-scalars, and raw ties, are ordered by their encoded forms.
func Compare(a, b reflect.Value, encA, encB string) int {
	sa, sb := scalarOf(a), scalarOf(b)
	if c := cmp.Compare(sa.class, sb.class); c != 0 {
		return c
	}
	if c := compareScalars(sa, sb); c != 0 {
		return c
	}
	return CompareStrings(encA, encB)
}

type scalarClass int

// Classes in sort order.
const (
	classNumber scalarClass = iota
	classString
	classBool
	classNone
)

type number struct {
	kind reflect.Kind // Int64, Uint64 or Float64
	i    int64
	u    uint64
	f    float64
}

type scalar struct {
	class scalarClass
	b     bool
	s     string
	n     number
}

func scalarOf(v reflect.Value) scalar {
	v, ok := unwrap(v)
	for ok && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return scalar{class: classNone}
		}
		v, ok = unwrap(v.Elem())
	}
	if !ok {
		return scalar{class: classNone}
	}

	switch v.Kind() {
	case reflect.Bool:
		return scalar{class: classBool, b: v.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar{class: classNumber, n: number{kind: reflect.Int64, i: v.Int()}}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return scalar{class: classNumber, n: number{kind: reflect.Uint64, u: v.Uint()}}
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) {
			return scalar{class: classNone}
		}
		return scalar{class: classNumber, n: number{kind: reflect.Float64, f: f}}
	case reflect.String:
		if v.Type() == numberType {
			return numberScalar(v.String())
		}
		return scalar{class: classString, s: v.String()}
	}
	return scalar{class: classNone}
}

func numberScalar(s string) scalar {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return scalar{class: classNumber, n: number{kind: reflect.Int64, i: i}}
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return scalar{class: classNumber, n: number{kind: reflect.Uint64, u: u}}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		return scalar{class: classNumber, n: number{kind: reflect.Float64, f: f}}
	}
	return scalar{class: classNone}
}

// compareScalars compares two scalars of the same class. Values of
// classNone are never ordered here.
func compareScalars(sa, sb scalar) int {
	switch sa.class {
	case classBool:
		switch {
		case sa.b == sb.b:
			return 0
		case !sa.b:
			return -1
		default:
			return 1
		}
	case classString:
		return CompareStrings(sa.s, sb.s)
	case classNumber:
		return compareNumbers(sa.n, sb.n)
	}
	return 0
}

func compareNumbers(x, y number) int {
	switch {
	case x.kind == reflect.Int64 && y.kind == reflect.Int64:
		return cmp.Compare(x.i, y.i)
	case x.kind == reflect.Uint64 && y.kind == reflect.Uint64:
		return cmp.Compare(x.u, y.u)
	case x.kind == reflect.Int64 && y.kind == reflect.Uint64:
		if x.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(x.i), y.u)
	case x.kind == reflect.Uint64 && y.kind == reflect.Int64:
		return -compareNumbers(y, x)
	}
	return cmp.Compare(x.float(), y.float())
}

func (n number) float() float64 {
	switch n.kind {
	case reflect.Int64:
		return float64(n.i)
	case reflect.Uint64:
		return float64(n.u)
	}
	return n.f
}
