// Package shape describes the runtime shape a decoded node is built into.
//
// A Shape is derived once per reflect.Type and cached; the descriptor is
// immutable afterwards and safe for concurrent use. Element, key and field
// shapes are resolved lazily, which lets recursive types describe
// themselves.
package shape

import (
	"encoding"
	"reflect"
	"sync"
	"time"

	"yaml-decoder/event"
	"yaml-decoder/primitive"
	"yaml-decoder/value"
)

// Unmarshaler is implemented by types that consume their own node. The
// implementation must consume exactly one node from src; decode runs the
// regular pipeline for a nested node into target, which must be a pointer.
type Unmarshaler interface {
	UnmarshalEvents(src event.Source, decode func(target any) error) error
}

// Enumerant is a named member of an enumerated type.
type Enumerant struct {
	Name  string
	Value any
}

// Enumerated is implemented by types decoded from a closed set of names.
type Enumerated interface {
	Enumerants() []Enumerant
}

var (
	openType        = reflect.TypeFor[value.Value]()
	timeType        = reflect.TypeFor[time.Time]()
	unmarshalerType = reflect.TypeFor[Unmarshaler]()
	enumeratedType  = reflect.TypeFor[Enumerated]()
	textType        = reflect.TypeFor[encoding.TextUnmarshaler]()
)

type Shape struct {
	Type      reflect.Type
	Kind      Kind
	Primitive primitive.KindEnum // set for KindScalar
	Custom    bool               // *Type implements Unmarshaler
	Len       int                // set for KindArray

	enumerants []Enumerant
	names      []string
	fields     []Field
	byName     map[string]int
	byFold     map[string]int

	// capability method indexes in the method set of *Type, -1 when the
	// container is a builtin slice or map
	appendIndex int
	setIndex    int

	elemType reflect.Type
	keyType  reflect.Type
}

var cache sync.Map // reflect.Type -> *Shape

// Of returns the shape of t. A nil t yields the open shape.
func Of(t reflect.Type) *Shape {
	if t == nil {
		t = openType
	}

	if s, ok := cache.Load(t); ok {
		return s.(*Shape)
	}

	s, _ := cache.LoadOrStore(t, build(t))

	return s.(*Shape)
}

// For returns the shape of T.
func For[T any]() *Shape {
	return Of(reflect.TypeFor[T]())
}

// Open is the shape of value.Value.
func Open() *Shape {
	return Of(openType)
}

func build(t reflect.Type) *Shape {
	s := &Shape{Type: t, appendIndex: -1, setIndex: -1}

	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		s.Custom = reflect.PointerTo(t).Implements(unmarshalerType)
	}

	switch {
	case t == openType || t.Kind() == reflect.Interface && t.NumMethod() == 0:
		s.Kind = KindOpen

	case t.Kind() == reflect.Pointer:
		s.Kind = KindPointer
		s.elemType = t.Elem()

	case t.Kind() == reflect.Interface:
		s.Kind = KindInterface

	case reflect.PointerTo(t).Implements(enumeratedType):
		s.Kind = KindEnum
		s.enumerants = reflect.New(t).Interface().(Enumerated).Enumerants()
		for _, e := range s.enumerants {
			s.names = append(s.names, e.Name)
		}

	case t != timeType && reflect.PointerTo(t).Implements(textType):
		s.Kind = KindText

	case primitive.FromReflectType(t) != 0:
		s.Kind = KindScalar
		s.Primitive = primitive.FromReflectType(t)

	case t.Kind() == reflect.Array:
		s.Kind = KindArray
		s.Len = t.Len()
		s.elemType = t.Elem()

	case t.Kind() == reflect.Slice:
		s.Kind = KindCollection
		s.elemType = t.Elem()

	case t.Kind() == reflect.Map:
		s.Kind = KindMap
		s.keyType, s.elemType = t.Key(), t.Elem()

	case t.Kind() == reflect.Func:
		if elem, ok := seqElem(t); ok {
			s.Kind = KindIterator
			s.elemType = elem
		}

	case t.Kind() == reflect.Struct:
		s.buildStruct()
	}

	return s
}

// buildStruct classifies a struct by capability first: Set(K, V) makes it a
// map, Append(T) a collection, anything else is a record.
func (s *Shape) buildStruct() {
	ptr := reflect.PointerTo(s.Type)

	if m, ok := ptr.MethodByName("Set"); ok && m.Type.NumIn() == 3 && m.Type.NumOut() == 0 {
		s.Kind = KindMap
		s.setIndex = m.Index
		s.keyType, s.elemType = m.Type.In(1), m.Type.In(2)
		return
	}

	if m, ok := ptr.MethodByName("Append"); ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 0 {
		s.Kind = KindCollection
		s.appendIndex = m.Index
		s.elemType = m.Type.In(1)
		return
	}

	s.Kind = KindRecord
	s.buildFields()
}

// seqElem recognizes func(yield func(T) bool), the shape of iter.Seq[T].
func seqElem(t reflect.Type) (reflect.Type, bool) {
	if t.NumIn() != 1 || t.NumOut() != 0 || t.IsVariadic() {
		return nil, false
	}

	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}

	return yield.In(0), true
}

func (s *Shape) String() string {
	if s.Type == openType {
		return "any"
	}

	return s.Type.String()
}

// Nullable reports whether the zero value of the shape stands for null.
func (s *Shape) Nullable() bool {
	switch s.Kind {
	default:
		return false
	case KindOpen, KindPointer, KindInterface, KindIterator:
		return true
	case KindMap, KindCollection:
		return s.setIndex < 0 && s.appendIndex < 0
	}
}

// Elem is the pointee, element or map value shape.
func (s *Shape) Elem() *Shape {
	if s.elemType == nil {
		return nil
	}

	return Of(s.elemType)
}

// Key is the map key shape.
func (s *Shape) Key() *Shape {
	if s.keyType == nil {
		return nil
	}

	return Of(s.keyType)
}

// Enumerants returns the members of an enumerated shape.
func (s *Shape) Enumerants() []Enumerant {
	return s.enumerants
}

// Names returns the enumerant names, in declaration order.
func (s *Shape) Names() []string {
	return s.names
}

// Add appends elem to the collection held by container, which must be
// addressable.
func (s *Shape) Add(container, elem reflect.Value) {
	if s.appendIndex >= 0 {
		container.Addr().Method(s.appendIndex).Call([]reflect.Value{elem})
		return
	}

	container.Set(reflect.Append(container, elem))
}

// Put stores key and val into the map held by container, which must be
// addressable. A nil builtin map is allocated first.
func (s *Shape) Put(container, key, val reflect.Value) {
	if s.setIndex >= 0 {
		container.Addr().Method(s.setIndex).Call([]reflect.Value{key, val})
		return
	}

	if container.IsNil() {
		container.Set(reflect.MakeMap(s.Type))
	}

	container.SetMapIndex(key, val)
}

// IsBuiltin reports whether a map or collection shape is a builtin map or
// slice rather than a type with a Set or Append method.
func (s *Shape) IsBuiltin() bool {
	return s.setIndex < 0 && s.appendIndex < 0
}
