package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-decoder/internal/registry"
)

func seeded(t *testing.T) *registry.List[int] {
	t.Helper()

	var l registry.List[int]
	require.NoError(t, l.Add("a", 1))
	require.NoError(t, l.Add("b", 2))
	require.NoError(t, l.Add("c", 3))

	return &l
}

func TestAdd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		placement registry.Placement
		want      []string
	}{
		{"last", registry.Last(), []string{"a", "b", "c", "x"}},
		{"first", registry.First(), []string{"x", "a", "b", "c"}},
		{"before", registry.Before("b"), []string{"a", "x", "b", "c"}},
		{"before first", registry.Before("a"), []string{"x", "a", "b", "c"}},
		{"after", registry.After("b"), []string{"a", "b", "x", "c"}},
		{"after last", registry.After("c"), []string{"a", "b", "c", "x"}},
		{"replace", registry.Replace("b"), []string{"a", "x", "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			l := seeded(t)
			require.NoError(t, l.Add("x", 9, tc.placement))
			assert.Equal(t, tc.want, l.Names())

			assert.Equal(t, 9, valueOf(l, "x"))
		})
	}
}

func TestAddErrors(t *testing.T) {
	t.Parallel()

	l := seeded(t)

	assert.ErrorIs(t, l.Add("a", 0), registry.ErrDuplicateName)
	assert.ErrorIs(t, l.Add("x", 0, registry.Before("missing")), registry.ErrUnknownName)
	assert.ErrorIs(t, l.Add("x", 0, registry.Replace("missing")), registry.ErrUnknownName)
	assert.ErrorIs(t, l.Add("a", 0, registry.Replace("b")), registry.ErrDuplicateName)
	assert.Equal(t, []string{"a", "b", "c"}, l.Names(), "failed additions leave the list untouched")

	require.NoError(t, l.Add("b", 20, registry.Replace("b")))
	assert.Equal(t, 20, valueOf(l, "b"))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	l := seeded(t)

	var sum int
	for _, v := range l.All() {
		sum += v
	}
	assert.Equal(t, 6, sum)

	require.NoError(t, l.Remove("b"))
	assert.ErrorIs(t, l.Remove("b"), registry.ErrUnknownName)

	assert.Equal(t, []string{"a", "c"}, l.Names())
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "before b", registry.Before("b").String())
}

func valueOf(l *registry.List[int], name string) int {
	for n, v := range l.All() {
		if n == name {
			return v
		}
	}

	return -1
}
