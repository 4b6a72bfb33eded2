package canon

import (
	"reflect"
	"strings"
	"sync"
)

type field struct {
	index     int
	name      string
	omitEmpty bool
}

var fieldCache sync.Map // map[reflect.Type][]field

// structFields lists the exported fields of t under their encoded names.
// A json tag renames a field, "-" skips it and omitempty makes an empty value
// count as absent.
func structFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		f := field{index: i, name: sf.Name}
		if tag, ok := sf.Tag.Lookup("json"); ok {
			if tag == "-" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")
			if name != "" {
				f.name = name
			}
			for opts != "" {
				var opt string
				opt, opts, _ = strings.Cut(opts, ",")
				if opt == "omitempty" {
					f.omitEmpty = true
				}
			}
		}
		fields = append(fields, f)
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]field)
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
