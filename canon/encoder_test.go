package canon

import (
	"reflect"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/objhash/identity"
)

type sample struct {
	Name   string `json:"name"`
	Count  int    `json:"count,omitempty"`
	Skip   string `json:"-"`
	Tags   []string
	hidden int
}

type link struct {
	Name string
	Next *link
}

type secret struct {
	v int
}

type point struct {
	X, Y int
}

type money struct {
	Cents int64
}

func namedFunc() {}

// testOptions returns default options with a registry whose tokens count up
// from 1, so labels are predictable.
func testOptions() Options {
	var n atomic.Int64
	opts := DefaultOptions()
	opts.Labeler = identity.New(identity.WithTokenFunc(func() int64 { return n.Add(1) }))
	return opts
}

func TestEncodeRecords(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "sorted keys", in: map[string]any{"b": 2, "a": 1}, want: `{"a":1,"b":2}`},
		{name: "empty", in: map[string]any{}, want: `{}`},
		{name: "nil map", in: map[string]int(nil), want: `{}`},
		{name: "keys are quoted", in: map[string]int{`a"b`: 1}, want: `{"a\"b":1}`},
		{
			name: "struct fields",
			in:   sample{Name: "x", Skip: "ignored", Tags: []string{"b", "a"}, hidden: 7},
			want: `{"Tags":["b","a"],"name":"x"}`,
		},
		{
			name: "omitempty keeps non-empty values",
			in:   sample{Name: "x", Count: 3},
			want: `{"Tags":[],"count":3,"name":"x"}`,
		},
		{name: "pointer to struct", in: &point{X: 1, Y: 2}, want: `{"X":1,"Y":2}`},
		{name: "struct without exported fields by value", in: secret{v: 1}, want: `{}`},
		{
			name: "nested",
			in: map[string]any{
				"b": map[string]any{"c": time.Date(2020, 1, 2, 3, 4, 5, 6_000_000, time.UTC)},
				"a": []any{1, "x", true, nil},
			},
			want: `{"a":[1,"x",true,null],"b":{"c":2020-01-02T03:04:05.006Z}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in, testOptions()))
		})
	}
}

func TestEncodeRecordOrderIndependence(t *testing.T) {
	a := map[string]any{}
	a["a"] = 1
	a["b"] = 2
	a["c"] = map[string]any{"y": 1, "x": 2}

	b := map[string]any{}
	b["c"] = map[string]any{"x": 2, "y": 1}
	b["b"] = 2
	b["a"] = 1

	assert.Equal(t, Encode(a, DefaultOptions()), Encode(b, DefaultOptions()))
}

func TestEncodeUndefined(t *testing.T) {
	record := map[string]any{"a": 1, "b": Undefined}

	t.Run("dropped by default", func(t *testing.T) {
		assert.Equal(t, `{"a":1}`, Encode(record, DefaultOptions()))
		assert.Equal(t, Encode(map[string]any{"a": 1}, DefaultOptions()), Encode(record, DefaultOptions()))
	})

	t.Run("kept when disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.IgnoreUndefinedProperties = false
		assert.Equal(t, `{"a":1,"b":}`, Encode(record, opts))
		assert.NotEqual(t, Encode(map[string]any{"a": 1}, opts), Encode(record, opts))
	})

	t.Run("omitempty fields count as absent", func(t *testing.T) {
		opts := DefaultOptions()
		opts.IgnoreUndefinedProperties = false
		assert.Equal(t, `{"Tags":[],"count":,"name":"x"}`, Encode(sample{Name: "x"}, opts))
	})

	t.Run("in sequences", func(t *testing.T) {
		assert.Equal(t, "[,1]", Encode([]any{Undefined, 1}, DefaultOptions()))
	})
}

func TestEncodeSequences(t *testing.T) {
	sorted := DefaultOptions()
	sorted.SortArrays = true

	tests := []struct {
		name string
		in   any
		opts Options
		want string
	}{
		{name: "order kept", in: []int{2, 1}, opts: DefaultOptions(), want: "[2,1]"},
		{name: "nil slice", in: []int(nil), opts: DefaultOptions(), want: "[]"},
		{name: "array", in: [3]uint8{1, 2, 3}, opts: DefaultOptions(), want: "[1,2,3]"},
		{name: "bytes", in: []byte("hi"), opts: DefaultOptions(), want: "[104,105]"},
		{name: "sorted numerically", in: []any{10, 9, 1.5}, opts: sorted, want: "[1.5,9,10]"},
		{name: "sorted by class", in: []any{"b", 1, "a", true, nil}, opts: sorted, want: `[1,"a","b",true,null]`},
		{name: "sorting reaches nested arrays", in: map[string]any{"k": []int{2, 1}}, opts: sorted, want: `{"k":[1,2]}`},
		{name: "records sorted by encoding", in: []any{map[string]int{"a": 2}, map[string]int{"a": 1}}, opts: sorted, want: `[{"a":1},{"a":2}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in, tt.opts))
		})
	}
}

func TestEncodeArrayOrder(t *testing.T) {
	opts := DefaultOptions()
	assert.NotEqual(t, Encode([]int{1, 2}, opts), Encode([]int{2, 1}, opts))

	opts.SortArrays = true
	assert.Equal(t, Encode([]int{1, 2}, opts), Encode([]int{2, 1}, opts))

	mixed := []any{time.Unix(0, 0), 100, 3, "x", point{X: 1}}
	reversed := []any{point{X: 1}, "x", 3, 100, time.Unix(0, 0)}
	assert.Equal(t, Encode(mixed, opts), Encode(reversed, opts))
}

func TestEncodeSets(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "sorted members", in: Set{3, 1, 2}, want: "Set(1,2,3)"},
		{name: "members sort by encoding", in: Set{9, 10}, want: "Set(10,9)"},
		{name: "map of empty struct", in: map[string]struct{}{"b": {}, "a": {}}, want: `Set("a","b")`},
		{name: "nil set", in: Set(nil), want: "Set()"},
		{name: "nested records", in: Set{map[string]int{"b": 1}, map[string]int{"a": 1}}, want: `Set({"a":1},{"b":1})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in, DefaultOptions()))
		})
	}

	assert.Equal(t, Encode(Set{"x", "y", "z"}, DefaultOptions()), Encode(Set{"z", "x", "y"}, DefaultOptions()))
}

func TestEncodeMaps(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "sorted keys", in: Map{2: "b", 1: "a"}, want: `Map(1:"a",2:"b")`},
		{name: "keys sort raw", in: map[int]string{10: "x", 9: "y"}, want: `Map(9:"y",10:"x")`},
		{name: "string keys in Map", in: Map{"b": 1, "a": 2}, want: `Map("a":2,"b":1)`},
		{name: "mixed key classes", in: Map{"a": 1, 2: 2}, want: `Map(2:2,"a":1)`},
		{name: "tied keys ordered by value", in: Map{1: "b", 1.0: "a"}, want: `Map(1:"a",1:"b")`},
		{
			name: "struct keys",
			in:   map[point]string{{X: 2, Y: 1}: "b", {X: 1, Y: 2}: "a"},
			want: `Map({"X":1,"Y":2}:"a",{"X":2,"Y":1}:"b")`,
		},
		{name: "nil map", in: map[int]int(nil), want: "Map()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.in, DefaultOptions()))
		})
	}
}

func TestEncodeCycles(t *testing.T) {
	t.Run("self-referencing record", func(t *testing.T) {
		m := map[string]any{"a": 1}
		m["self"] = m
		assert.Equal(t, `{"a":1,"self":*Circular*}`, Encode(m, DefaultOptions()))
	})

	t.Run("self-referencing struct", func(t *testing.T) {
		l := &link{Name: "a"}
		l.Next = l
		assert.Equal(t, `{"Name":"a","Next":*Circular*}`, Encode(l, DefaultOptions()))
	})

	t.Run("longer cycle", func(t *testing.T) {
		a, b := &link{Name: "a"}, &link{Name: "b"}
		a.Next, b.Next = b, a
		assert.Equal(t, `{"Name":"a","Next":{"Name":"b","Next":*Circular*}}`, Encode(a, DefaultOptions()))
	})

	t.Run("self-containing slice", func(t *testing.T) {
		s := make([]any, 1)
		s[0] = s
		assert.Equal(t, "[*Circular*]", Encode(s, DefaultOptions()))
	})

	t.Run("self-containing map", func(t *testing.T) {
		m := Map{}
		m[1] = m
		assert.Equal(t, "Map(1:*Circular*)", Encode(m, DefaultOptions()))
	})

	t.Run("shared value is not a cycle", func(t *testing.T) {
		shared := map[string]any{"x": 1}
		root := map[string]any{"l": shared, "r": shared}
		assert.Equal(t, `{"l":{"x":1},"r":{"x":1}}`, Encode(root, DefaultOptions()))
	})

	t.Run("shared slice is not a cycle", func(t *testing.T) {
		shared := []any{1}
		assert.Equal(t, "[[1],[1]]", Encode([]any{shared, shared}, DefaultOptions()))
	})

	t.Run("shared pointer is not a cycle", func(t *testing.T) {
		shared := &point{X: 1, Y: 2}
		in := []*point{shared, shared}
		assert.Equal(t, `[{"X":1,"Y":2},{"X":1,"Y":2}]`, Encode(in, DefaultOptions()))
	})
}

func TestEncodeReferences(t *testing.T) {
	opts := testOptions()

	t.Run("same func", func(t *testing.T) {
		got := Encode([]any{namedFunc, namedFunc}, opts)
		assert.Equal(t, "[function namedFunc_1,function namedFunc_1]", got)
	})

	t.Run("opaque pointer", func(t *testing.T) {
		s := &secret{v: 1}
		assert.Equal(t, "instance secret_2", Encode(s, opts))
		assert.Equal(t, `{"s":instance secret_2}`, Encode(map[string]any{"s": s}, opts))
		assert.NotEqual(t, Encode(s, opts), Encode(&secret{v: 1}, opts))
	})

	t.Run("channel", func(t *testing.T) {
		ch := make(chan int)
		got := Encode(ch, opts)
		assert.Regexp(t, `^instance chan int_\d+$`, got)
		assert.Equal(t, got, Encode(ch, opts))
	})
}

func TestEncodeDefaultLabeler(t *testing.T) {
	got := Encode(namedFunc, DefaultOptions())
	assert.Regexp(t, `^function namedFunc_\d+$`, got)
	assert.Equal(t, got, Encode(namedFunc, DefaultOptions()))

	label, found := identity.Default().Lookup(reflect.ValueOf(namedFunc))
	require.True(t, found)
	assert.Equal(t, got, label)
}

func TestEncodeTimesAndPatterns(t *testing.T) {
	ts := time.Date(2021, 6, 7, 8, 9, 10, 0, time.UTC)

	assert.Equal(t, "2021-06-07T08:09:10.000Z", Encode(ts, DefaultOptions()))
	assert.Equal(t, "2021-06-07T08:09:10.000Z", Encode(&ts, DefaultOptions()))
	assert.Equal(t, "/^a+$/", Encode(regexp.MustCompile(`^a+$`), DefaultOptions()))
	assert.Equal(t, "/(?i)abc/", Encode(regexp.MustCompile(`(?i)abc`), DefaultOptions()))
}

func TestEncodeCustomEncoder(t *testing.T) {
	t.Run("replaces matching values", func(t *testing.T) {
		opts := DefaultOptions()
		opts.CustomEncoder = func(v any) (string, bool) {
			if m, ok := v.(money); ok {
				return "$" + Encode(m.Cents, DefaultOptions()), true
			}
			return "", false
		}
		assert.Equal(t, `[$150,{"Cents":1}]`, Encode([]any{money{Cents: 150}, &money{Cents: 1}}, opts))
	})

	t.Run("sees pointers to opaque values", func(t *testing.T) {
		opts := DefaultOptions()
		opts.CustomEncoder = func(v any) (string, bool) {
			if s, ok := v.(*secret); ok {
				return Encode(s.v, DefaultOptions()), true
			}
			return "", false
		}
		assert.Equal(t, "[7]", Encode([]any{&secret{v: 7}}, opts))
	})

	t.Run("not consulted for scalars sets and maps", func(t *testing.T) {
		opts := DefaultOptions()
		opts.CustomEncoder = func(any) (string, bool) { return "X", true }

		assert.Equal(t, "1", Encode(1, opts))
		assert.Equal(t, `"s"`, Encode("s", opts))
		assert.Equal(t, "Set(1)", Encode(Set{1}, opts))
		assert.Equal(t, "Map(1:2)", Encode(Map{1: 2}, opts))
		assert.Equal(t, "X", Encode([]int{1}, opts))
		assert.Equal(t, "X", Encode(map[string]int{"a": 1}, opts))
		assert.Equal(t, "Set(X)", Encode(Set{[]int{1}}, opts))
	})

	t.Run("consulted before cycle detection", func(t *testing.T) {
		calls := 0
		opts := DefaultOptions()
		opts.CustomEncoder = func(any) (string, bool) {
			calls++
			return "", false
		}

		m := map[string]any{}
		m["self"] = m
		assert.Equal(t, `{"self":*Circular*}`, Encode(m, opts))
		assert.Equal(t, 2, calls)
	})
}

func TestEncodeDeterminism(t *testing.T) {
	value := map[string]any{
		"users": []any{
			map[string]any{"id": 1, "roles": Set{"admin", "dev"}},
			map[string]any{"id": 2, "roles": Set{"dev"}},
		},
		"limits": map[int]float64{3: 0.5, 1: 2, 2: 1e-9},
		"since":  time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
	}

	first := Encode(value, DefaultOptions())
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Encode(value, DefaultOptions()))
	}
	assert.Equal(t,
		`{"limits":Map(1:2,2:1e-9,3:0.5),"since":2024-02-29T12:00:00.000Z,"users":[{"id":1,"roles":Set("admin","dev")},{"id":2,"roles":Set("dev")}]}`,
		first)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		in   any
		want Kind
	}{
		{in: Undefined, want: KindAbsent},
		{in: nil, want: KindNull},
		{in: (*int)(nil), want: KindNull},
		{in: 1, want: KindScalar},
		{in: "s", want: KindScalar},
		{in: namedFunc, want: KindFunc},
		{in: time.Time{}, want: KindTime},
		{in: &time.Time{}, want: KindTime},
		{in: regexp.MustCompile("x"), want: KindPattern},
		{in: Set{}, want: KindSet},
		{in: map[int]struct{}{}, want: KindSet},
		{in: Map{}, want: KindMap},
		{in: map[int]int{}, want: KindMap},
		{in: []int{}, want: KindSequence},
		{in: [2]int{}, want: KindSequence},
		{in: map[string]int{}, want: KindRecord},
		{in: point{}, want: KindRecord},
		{in: &point{}, want: KindRecord},
		{in: &secret{}, want: KindOpaque},
		{in: make(chan int), want: KindOpaque},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.in), "%#v", tt.in)
		})
	}

	assert.Equal(t, "unknown", Kind(99).String())
}
