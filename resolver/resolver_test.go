package resolver_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-decoder/event"
	"yaml-decoder/options"
	"yaml-decoder/resolver"
	"yaml-decoder/shape"
	"yaml-decoder/value"
)

type Shape interface{ Area() float64 }

type Square struct{ Side float64 }

func (s Square) Area() float64 { return s.Side * s.Side }

type Circle struct{ R float64 }

func (c Circle) Area() float64 { return 3 * c.R * c.R }

type Ordered struct{}

func (*Ordered) UnmarshalEvents(src event.Source, _ func(any) error) error {
	return event.SkipNode(src)
}

func chain(cfg options.Config) resolver.Chain {
	return resolver.Chain{
		resolver.NewStructural(cfg),
		resolver.NewTag(cfg),
		resolver.Capability{},
		resolver.NewUnknownTag(cfg),
	}
}

func TestChainDefaults(t *testing.T) {
	t.Parallel()

	c := chain(options.Default())

	cases := []struct {
		name string
		ev   event.Event
		want reflect.Type
	}{
		{"mapping", event.Event{Kind: event.KindMappingStart}, reflect.TypeFor[*value.Mapping]()},
		{"sequence", event.Event{Kind: event.KindSequenceStart}, reflect.TypeFor[*value.Sequence]()},
		{"plain scalar stays open", event.Scalar("12"), reflect.TypeFor[value.Value]()},
		{"int tag", event.Scalar("12").Tagged(event.CoreTagPrefix + "int"), reflect.TypeFor[int64]()},
		{"float tag", event.Scalar("1").Tagged(event.CoreTagPrefix + "float"), reflect.TypeFor[float64]()},
		{"str tag", event.Scalar("true").Tagged(event.CoreTagPrefix + "str"), reflect.TypeFor[string]()},
		{"non-specific tag", event.Scalar("12").Tagged("!"), reflect.TypeFor[string]()},
		{"seq tag", event.Event{Kind: event.KindSequenceStart, Tag: event.CoreTagPrefix + "seq"}, reflect.TypeFor[*value.Sequence]()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.Resolve(tc.ev, shape.Open())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Type)
		})
	}
}

func TestUnknownTag(t *testing.T) {
	t.Parallel()

	ev := event.Scalar("x").Tagged("!custom")

	_, err := chain(options.Default()).Resolve(ev, shape.Open())
	assert.ErrorIs(t, err, resolver.ErrUnknownTag)

	cfg := options.Default()
	cfg.RejectUnknownTags = false

	got, err := chain(cfg).Resolve(ev, shape.Open())
	require.NoError(t, err)
	assert.Equal(t, shape.KindOpen, got.Kind)
}

func TestTagTable(t *testing.T) {
	t.Parallel()

	tags := options.DefaultTags()
	tags["!square"] = reflect.TypeFor[Square]()
	tags["!ordered"] = reflect.TypeFor[Ordered]()
	overrides := map[reflect.Type]reflect.Type{
		reflect.TypeFor[Shape](): reflect.TypeFor[Circle](),
	}

	c := chain(options.Default().WithTables(tags, overrides, nil))

	t.Run("open target", func(t *testing.T) {
		t.Parallel()

		got, err := c.Resolve(event.Event{Kind: event.KindMappingStart, Tag: "!square"}, shape.Open())
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeFor[Square](), got.Type)
	})

	t.Run("interface override", func(t *testing.T) {
		t.Parallel()

		got, err := c.Resolve(event.Event{Kind: event.KindMappingStart}, shape.For[Shape]())
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeFor[Circle](), got.Type)
	})

	t.Run("interface tag", func(t *testing.T) {
		t.Parallel()

		got, err := c.Resolve(event.Event{Kind: event.KindMappingStart, Tag: "!square"}, shape.For[Shape]())
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeFor[Square](), got.Type)
	})

	t.Run("custom type stops the chain", func(t *testing.T) {
		t.Parallel()

		got, err := c.Resolve(event.Event{Kind: event.KindMappingStart, Tag: "!ordered"}, shape.Open())
		require.NoError(t, err)
		assert.True(t, got.Custom)
	})
}

func TestChainStops(t *testing.T) {
	t.Parallel()

	var calls []string
	record := func(name string, stop bool) resolver.Func {
		return func(_ event.Event, current *shape.Shape) (*shape.Shape, bool, error) {
			calls = append(calls, name)
			return current, stop, nil
		}
	}

	c := resolver.Chain{record("a", false), record("b", true), record("c", false)}
	_, err := c.Resolve(event.Scalar("x"), shape.Open())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, calls)
}
