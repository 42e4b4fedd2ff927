// Package registry keeps named entries in a caller-controlled order. The
// deserializer builder uses it for both the type resolver and the node
// strategy chains.
package registry

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"yaml-decoder/internal/common"
)

var (
	ErrDuplicateName = errors.New("entry name is already registered")
	ErrUnknownName   = errors.New("no entry with this name")
)

type placementKind int

const (
	placeLast placementKind = iota
	placeFirst
	placeBefore
	placeAfter
	placeReplace
)

// Placement says where Add puts a new entry.
type Placement struct {
	kind placementKind
	name string
}

func Last() Placement               { return Placement{kind: placeLast} }
func First() Placement              { return Placement{kind: placeFirst} }
func Before(name string) Placement  { return Placement{kind: placeBefore, name: name} }
func After(name string) Placement   { return Placement{kind: placeAfter, name: name} }
func Replace(name string) Placement { return Placement{kind: placeReplace, name: name} }

func (p Placement) String() string {
	switch p.kind {
	case placeFirst:
		return "first"
	case placeBefore:
		return "before " + p.name
	case placeAfter:
		return "after " + p.name
	case placeReplace:
		return "replacing " + p.name
	default:
		return "last"
	}
}

type Entry[T any] struct {
	Name  string
	Value T
}

// List is an ordered set of uniquely named entries. The zero List is empty
// and ready to use.
type List[T any] struct {
	entries []Entry[T]
}

func (l *List[T]) index(name string) int {
	return slices.IndexFunc(l.entries, func(e Entry[T]) bool { return e.Name == name })
}

// Add inserts value under name at the given placement; without a placement
// the entry is appended.
func (l *List[T]) Add(name string, value T, placement ...Placement) error {
	p, _ := common.First(placement)
	entry := Entry[T]{Name: name, Value: value}

	if p.kind == placeReplace {
		at := l.index(p.name)
		if at < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownName, p.name)
		}

		if other := l.index(name); other >= 0 && other != at {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		l.entries[at] = entry
		return nil
	}

	if l.index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	at := len(l.entries)
	switch p.kind {
	case placeFirst:
		at = 0
	case placeBefore, placeAfter:
		at = l.index(p.name)
		if at < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownName, p.name)
		}

		if p.kind == placeAfter {
			at++
		}
	}

	l.entries = slices.Insert(l.entries, at, entry)

	return nil
}

func (l *List[T]) Remove(name string) error {
	at := l.index(name)
	if at < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownName, name)
	}

	l.entries = slices.Delete(l.entries, at, at+1)

	return nil
}

func (l *List[T]) Len() int {
	return len(l.entries)
}

func (l *List[T]) Names() []string {
	names := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		names = append(names, e.Name)
	}

	return names
}

// All yields the entries in order.
func (l *List[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, e := range l.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}
