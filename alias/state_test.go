package alias_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-decoder/alias"
	"yaml-decoder/event"
)

func set(slot, bound reflect.Value) error {
	slot.Set(bound)
	return nil
}

func TestResolveBound(t *testing.T) {
	t.Parallel()

	s := alias.NewState(nil)
	src := 7
	s.Bind("a", reflect.ValueOf(&src).Elem())

	var dst int
	require.NoError(t, s.Resolve(reflect.ValueOf(&dst).Elem(), "a", event.Mark{}, set))
	assert.Equal(t, 7, dst)
	assert.Equal(t, 0, s.Deferred())
}

func TestResolveForward(t *testing.T) {
	t.Parallel()

	s := alias.NewState(nil)

	var dst string
	require.NoError(t, s.Resolve(reflect.ValueOf(&dst).Elem(), "later", event.Mark{Line: 1, Column: 3}, set))
	assert.Equal(t, 1, s.Deferred())
	assert.Empty(t, dst)

	first, second := "first", "second"
	s.Bind("later", reflect.ValueOf(&first).Elem())
	s.Bind("later", reflect.ValueOf(&second).Elem())

	require.NoError(t, s.Finalize())
	assert.Equal(t, "first", dst, "a forward alias takes the first definition that follows it")
	assert.Equal(t, alias.PhaseDone, s.Phase())
}

func TestRedefinition(t *testing.T) {
	t.Parallel()

	s := alias.NewState(nil)
	one, two := 1, 2

	var a, b int
	s.Bind("x", reflect.ValueOf(&one).Elem())
	require.NoError(t, s.Resolve(reflect.ValueOf(&a).Elem(), "x", event.Mark{}, set))
	s.Bind("x", reflect.ValueOf(&two).Elem())
	require.NoError(t, s.Resolve(reflect.ValueOf(&b).Elem(), "x", event.Mark{}, set))

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestUnresolved(t *testing.T) {
	t.Parallel()

	s := alias.NewState(nil)

	var dst int
	mark := event.Mark{Line: 4, Column: 2}
	require.NoError(t, s.Resolve(reflect.ValueOf(&dst).Elem(), "missing", mark, set))

	err := s.Finalize()
	require.ErrorIs(t, err, alias.ErrUnresolvedAnchor)

	var anchorErr *alias.AnchorError
	require.ErrorAs(t, err, &anchorErr)
	assert.Equal(t, "missing", anchorErr.Anchor)
	assert.Equal(t, mark, anchorErr.Mark)
}

func TestPendingAnchor(t *testing.T) {
	t.Parallel()

	s := alias.NewState(nil)

	var box []int
	s.BindPending("p", reflect.ValueOf(&box).Elem())

	var dst []int
	require.NoError(t, s.Resolve(reflect.ValueOf(&dst).Elem(), "p", event.Mark{}, set))
	assert.Nil(t, dst, "assignment to a pending anchor waits for finalization")
	assert.Equal(t, 1, s.Deferred())

	box = append(box, 1, 2)

	require.NoError(t, s.Finalize())
	assert.Equal(t, []int{1, 2}, dst)
}

func TestFinishOrder(t *testing.T) {
	t.Parallel()

	s := alias.NewState(nil)

	var order []string
	var dst int

	require.NoError(t, s.Resolve(reflect.ValueOf(&dst).Elem(), "n", event.Mark{}, set))
	s.OnFinish(func() error {
		order = append(order, "inner")
		assert.Equal(t, 5, dst, "fixups run before finishers")
		return nil
	})
	s.OnFinish(func() error {
		order = append(order, "outer")
		return nil
	})

	n := 5
	s.Bind("n", reflect.ValueOf(&n).Elem())

	require.NoError(t, s.Finalize())
	assert.Equal(t, []string{"inner", "outer"}, order)
}

func TestFinalizeOnce(t *testing.T) {
	t.Parallel()

	s := alias.NewState(nil)
	require.NoError(t, s.Finalize())

	assert.Panics(t, func() { _ = s.Finalize() })
	assert.Panics(t, func() { s.Bind("a", reflect.ValueOf(1)) })
	assert.NotEqual(t, alias.NewState(nil).ID, s.ID)
}
