package identity

import (
	"bytes"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opaqueThing struct {
	n int
}

func (o *opaqueThing) Bump() { o.n++ }

func helperFunc() int { return 1 }

func counterTokens() func() int64 {
	var n atomic.Int64
	return func() int64 { return n.Add(1) }
}

func TestRegistryLabelStability(t *testing.T) {
	r := New(WithTokenFunc(counterTokens()))

	first := r.Label(reflect.ValueOf(helperFunc))
	second := r.Label(reflect.ValueOf(helperFunc))

	assert.Equal(t, "function helperFunc_1", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDistinctReferences(t *testing.T) {
	r := New()

	t.Run("closures from one literal", func(t *testing.T) {
		mk := func(n int) func() int { return func() int { return n } }
		f1, f2 := mk(1), mk(1)

		l1 := r.Label(reflect.ValueOf(f1))
		l2 := r.Label(reflect.ValueOf(f2))
		assert.NotEqual(t, l1, l2)
		assert.True(t, strings.HasPrefix(l1, "function _"), l1)
		assert.Equal(t, l1, r.Label(reflect.ValueOf(f1)))
	})

	t.Run("structurally equal instances", func(t *testing.T) {
		a, b := &opaqueThing{n: 1}, &opaqueThing{n: 1}

		la := r.Label(reflect.ValueOf(a))
		lb := r.Label(reflect.ValueOf(b))
		assert.NotEqual(t, la, lb)
		assert.True(t, strings.HasPrefix(la, "instance opaqueThing_"), la)
		assert.Equal(t, la, r.Label(reflect.ValueOf(a)))
	})
}

func TestRegistryTokenFormat(t *testing.T) {
	r := New()
	label := r.Label(reflect.ValueOf(&opaqueThing{}))

	_, token, ok := strings.Cut(label, "_")
	require.True(t, ok)
	require.NotEmpty(t, token)
	for _, c := range token {
		assert.True(t, c >= '0' && c <= '9', "token %q is not decimal", token)
	}
}

func TestRegistryWithoutAddress(t *testing.T) {
	r := New(WithTokenFunc(counterTokens()))

	l1 := r.Label(reflect.ValueOf(opaqueThing{}))
	l2 := r.Label(reflect.ValueOf(opaqueThing{}))
	assert.Equal(t, "instance opaqueThing_1", l1)
	assert.Equal(t, "instance opaqueThing_2", l2)
	assert.Equal(t, 0, r.Len())

	_, found := r.Lookup(reflect.ValueOf(opaqueThing{}))
	assert.False(t, found)
}

func TestRegistryLookupAndReset(t *testing.T) {
	r := New(WithTokenFunc(counterTokens()))
	obj := &opaqueThing{}
	v := reflect.ValueOf(obj)

	_, found := r.Lookup(v)
	assert.False(t, found)

	label := r.Label(v)
	got, found := r.Lookup(v)
	require.True(t, found)
	assert.Equal(t, label, got)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.NotEqual(t, label, r.Label(v))
}

func TestRegistryConcurrentFirstUse(t *testing.T) {
	r := New()
	obj := &opaqueThing{}

	const workers = 64
	labels := make([]string, workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			labels[i] = r.Label(reflect.ValueOf(obj))
		}(i)
	}
	close(start)
	wg.Wait()

	for _, l := range labels {
		assert.Equal(t, labels[0], l)
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLogsAllocation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(WithLogger(logger))

	r.Label(reflect.ValueOf(&opaqueThing{}))
	r.Label(reflect.ValueOf(helperFunc))

	out := buf.String()
	assert.Contains(t, out, "allocated identity label")
	assert.Equal(t, 2, strings.Count(out, "allocated identity label"))
}

func TestFuncName(t *testing.T) {
	closure := func() {}
	obj := &opaqueThing{}

	tests := []struct {
		name string
		fn   any
		want string
	}{
		{name: "top-level function", fn: helperFunc, want: "helperFunc"},
		{name: "closure", fn: closure, want: ""},
		{name: "method value", fn: obj.Bump, want: "Bump"},
		{name: "method expression", fn: (*opaqueThing).Bump, want: "Bump"},
		{name: "standard library", fn: strings.ToUpper, want: "ToUpper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := runtime.FuncForPC(reflect.ValueOf(tt.fn).Pointer())
			assert.Equal(t, tt.want, FuncName(fn))
		})
	}

	assert.Equal(t, "", FuncName(nil))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "opaqueThing", TypeName(reflect.TypeOf(&opaqueThing{})))
	assert.Equal(t, "opaqueThing", TypeName(reflect.TypeOf(opaqueThing{})))
	assert.Equal(t, "chan int", TypeName(reflect.TypeOf(make(chan int))))
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, Default(), Default())
}
