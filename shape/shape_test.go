package shape_test

import (
	"iter"
	"net"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-decoder/event"
	"yaml-decoder/primitive"
	"yaml-decoder/shape"
	"yaml-decoder/value"
)

type Color int

func (Color) Enumerants() []shape.Enumerant {
	return []shape.Enumerant{{Name: "Red", Value: 0}, {Name: "Green", Value: 1}}
}

type Custom struct{ Seen int }

func (c *Custom) UnmarshalEvents(src event.Source, _ func(any) error) error {
	c.Seen++
	return event.SkipNode(src)
}

type Bag struct{ items []string }

func (b *Bag) Append(s string) { b.items = append(b.items, s) }

type Registry struct{ m map[string]int }

func (r *Registry) Set(k string, v int) {
	if r.m == nil {
		r.m = map[string]int{}
	}
	r.m[k] = v
}

type Base struct {
	ID   int
	Name string
}

type Item struct {
	Base
	Name    string `yaml:"title"`
	Price   float64
	Hidden  string `yaml:"-"`
	private int
	Next    *Item
}

type Runner interface{ Run() }

func TestOfKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		typ  reflect.Type
		kind shape.Kind
	}{
		{"any", reflect.TypeFor[any](), shape.KindOpen},
		{"value", reflect.TypeFor[value.Value](), shape.KindOpen},
		{"int", reflect.TypeFor[int](), shape.KindScalar},
		{"time", reflect.TypeFor[time.Time](), shape.KindScalar},
		{"duration", reflect.TypeFor[time.Duration](), shape.KindScalar},
		{"enum", reflect.TypeFor[Color](), shape.KindEnum},
		{"text", reflect.TypeFor[net.IP](), shape.KindText},
		{"pointer", reflect.TypeFor[*Item](), shape.KindPointer},
		{"interface", reflect.TypeFor[Runner](), shape.KindInterface},
		{"record", reflect.TypeFor[Item](), shape.KindRecord},
		{"array", reflect.TypeFor[[3]int](), shape.KindArray},
		{"map", reflect.TypeFor[map[string]int](), shape.KindMap},
		{"set capability", reflect.TypeFor[Registry](), shape.KindMap},
		{"value mapping", reflect.TypeFor[value.Mapping](), shape.KindMap},
		{"slice", reflect.TypeFor[[]string](), shape.KindCollection},
		{"append capability", reflect.TypeFor[Bag](), shape.KindCollection},
		{"value sequence", reflect.TypeFor[value.Sequence](), shape.KindCollection},
		{"iterator", reflect.TypeFor[iter.Seq[int]](), shape.KindIterator},
		{"channel", reflect.TypeFor[chan int](), shape.KindInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.kind, shape.Of(tc.typ).Kind)
		})
	}
}

func TestOfCached(t *testing.T) {
	t.Parallel()

	assert.Same(t, shape.For[Item](), shape.Of(reflect.TypeFor[Item]()))
	assert.Same(t, shape.Open(), shape.Of(nil))
	assert.Equal(t, "any", shape.Open().String())
}

func TestElemAndKey(t *testing.T) {
	t.Parallel()

	s := shape.For[map[string][]int]()
	assert.Equal(t, primitive.KindString, s.Key().Primitive)
	assert.Equal(t, shape.KindCollection, s.Elem().Kind)
	assert.Equal(t, primitive.KindInt, s.Elem().Elem().Primitive)

	assert.Equal(t, reflect.TypeFor[value.Value](), shape.For[value.Sequence]().Elem().Type)
	assert.Equal(t, reflect.TypeFor[int](), shape.For[iter.Seq[int]]().Elem().Type)
	assert.Equal(t, 3, shape.For[[3]int]().Len)

	// recursive types resolve lazily
	next, ok := shape.For[Item]().Field("next")
	require.True(t, ok)
	assert.Same(t, shape.For[Item](), next.Shape().Elem())
}

func TestFields(t *testing.T) {
	t.Parallel()

	s := shape.For[Item]()

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"ID", "title", "Price", "Next"}, names)

	f, ok := s.Field("title")
	require.True(t, ok)
	assert.Equal(t, "Name", f.GoName)
	assert.Equal(t, []int{1}, f.Index)

	f, ok = s.Field("id")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, f.Index)

	f, ok = s.Field("PRICE")
	require.True(t, ok)
	assert.Equal(t, "Price", f.GoName)

	f, ok = s.Field("NAME")
	require.True(t, ok)
	assert.Equal(t, "title", f.Name)

	_, ok = s.Field("Hidden")
	assert.False(t, ok)

	_, ok = s.Field("private")
	assert.False(t, ok)
}

func TestCustomAndEnum(t *testing.T) {
	t.Parallel()

	assert.True(t, shape.For[Custom]().Custom)
	assert.False(t, shape.For[*Custom]().Custom)
	assert.Equal(t, []string{"Red", "Green"}, shape.For[Color]().Names())
}

func TestNullable(t *testing.T) {
	t.Parallel()

	assert.True(t, shape.For[*int]().Nullable())
	assert.True(t, shape.For[[]int]().Nullable())
	assert.True(t, shape.For[map[string]int]().Nullable())
	assert.True(t, shape.Open().Nullable())
	assert.False(t, shape.For[int]().Nullable())
	assert.False(t, shape.For[Bag]().Nullable())
	assert.False(t, shape.For[Item]().Nullable())
}

func TestAddPut(t *testing.T) {
	t.Parallel()

	t.Run("builtin", func(t *testing.T) {
		t.Parallel()

		var xs []int
		shape.For[[]int]().Add(reflect.ValueOf(&xs).Elem(), reflect.ValueOf(4))
		assert.Equal(t, []int{4}, xs)

		var m map[string]int
		shape.For[map[string]int]().Put(reflect.ValueOf(&m).Elem(), reflect.ValueOf("a"), reflect.ValueOf(1))
		assert.Equal(t, map[string]int{"a": 1}, m)
	})

	t.Run("capability", func(t *testing.T) {
		t.Parallel()

		var b Bag
		shape.For[Bag]().Add(reflect.ValueOf(&b).Elem(), reflect.ValueOf("x"))
		assert.Equal(t, []string{"x"}, b.items)

		var r Registry
		shape.For[Registry]().Put(reflect.ValueOf(&r).Elem(), reflect.ValueOf("k"), reflect.ValueOf(2))
		assert.Equal(t, map[string]int{"k": 2}, r.m)
		assert.False(t, shape.For[Registry]().IsBuiltin())
	})
}
