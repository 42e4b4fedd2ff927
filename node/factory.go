package node

import (
	"fmt"
	"reflect"

	"yaml-decoder/options"
	"yaml-decoder/shape"
)

// ObjectFactory creates the empty values strategies fill in. Interfaces are
// instantiated through the type mapping table of the configuration.
type ObjectFactory struct {
	cfg options.Config
}

func NewObjectFactory(cfg options.Config) *ObjectFactory {
	return &ObjectFactory{cfg: cfg}
}

// Concrete returns the shape that is instantiated for s.
func (f *ObjectFactory) Concrete(s *shape.Shape) (*shape.Shape, error) {
	switch s.Kind {
	case shape.KindInvalid:
		return nil, fmt.Errorf("%w for %s", ErrNoSuitableConstructor, s)

	case shape.KindInterface:
		t := f.cfg.Override(s.Type)
		if t == s.Type || !t.Implements(s.Type) {
			return nil, fmt.Errorf("%w for %s: no concrete type registered", ErrNoSuitableConstructor, s)
		}

		return shape.Of(t), nil

	default:
		return s, nil
	}
}

// Create returns a pointer to a new zero value of the concrete shape of s.
func (f *ObjectFactory) Create(s *shape.Shape) (reflect.Value, error) {
	c, err := f.Concrete(s)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.New(c.Type), nil
}

// CreateContainer returns an empty container value. Builtin maps and slices
// are allocated with the given capacity.
func (f *ObjectFactory) CreateContainer(s *shape.Shape, capacity int) (reflect.Value, error) {
	switch {
	case s.Kind == shape.KindMap && s.IsBuiltin():
		return reflect.MakeMapWithSize(s.Type, capacity), nil
	case s.Kind == shape.KindCollection && s.IsBuiltin():
		return reflect.MakeSlice(s.Type, 0, capacity), nil
	case s.Kind == shape.KindMap, s.Kind == shape.KindCollection:
		p, err := f.Create(s)
		if err != nil {
			return reflect.Value{}, err
		}

		return p.Elem(), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s is not a container", ErrNoSuitableConstructor, s)
	}
}
