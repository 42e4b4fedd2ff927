package value

import (
	"iter"
	"math"
	"reflect"
	"slices"
	"time"
)

// Sequence is an ordered, append-only list of values. It is shared by
// reference, so an alias to an anchored sequence observes the same instance.
type Sequence struct {
	items []Value
}

func NewSequence(capacity int) *Sequence {
	return &Sequence{items: make([]Value, 0, max(capacity, 0))}
}

// SequenceOf builds a sequence from Go values wrapped with From.
func SequenceOf(items ...any) *Sequence {
	s := NewSequence(len(items))
	for _, item := range items {
		s.Append(From(item))
	}

	return s
}

func (s *Sequence) Append(v Value) {
	s.items = append(s.items, v)
}

func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}

	return len(s.items)
}

func (s *Sequence) At(i int) Value {
	return s.items[i]
}

func (s *Sequence) All() iter.Seq2[int, Value] {
	return slices.All(s.items)
}

// Mapping is a key-ordered dictionary of values. Setting an existing key
// replaces its value and keeps the position of the first occurrence.
type Mapping struct {
	keys   []Value
	values []Value
	index  map[indexKey]int
}

type nanKey struct{}

type indexKey struct {
	kind Kind
	v    any
}

func NewMapping(capacity int) *Mapping {
	capacity = max(capacity, 0)

	return &Mapping{
		keys:   make([]Value, 0, capacity),
		values: make([]Value, 0, capacity),
		index:  make(map[indexKey]int, capacity),
	}
}

// keyOf returns the hashable identity of v. Containers are keyed by
// reference; every NaN is the same key.
func keyOf(v Value) (indexKey, bool) {
	switch v.kind {
	case KindFloat:
		if math.IsNaN(v.v.(float64)) {
			return indexKey{kind: KindFloat, v: nanKey{}}, true
		}
	case KindTime:
		return indexKey{kind: KindTime, v: v.v.(time.Time).UTC().Format(time.RFC3339Nano)}, true
	case KindNative:
		if !reflect.ValueOf(v.v).Comparable() {
			return indexKey{}, false
		}
	}

	return indexKey{kind: v.kind, v: v.v}, true
}

func (m *Mapping) Set(k, v Value) {
	key, hashable := keyOf(k)
	if hashable {
		if i, ok := m.index[key]; ok {
			m.values[i] = v
			return
		}

		if m.index == nil {
			m.index = make(map[indexKey]int)
		}

		m.index[key] = len(m.keys)
	}

	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

func (m *Mapping) Get(k Value) (Value, bool) {
	key, hashable := keyOf(k)
	if !hashable {
		return Value{}, false
	}

	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}

	return m.values[i], true
}

// Lookup is Get for string keys.
func (m *Mapping) Lookup(key string) (Value, bool) {
	return m.Get(String(key))
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

func (m *Mapping) Keys() []Value {
	return slices.Clone(m.keys)
}

// All yields the entries in key order.
func (m *Mapping) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}
