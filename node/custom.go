package node

import (
	"fmt"
	"reflect"

	"yaml-decoder/shape"
)

// Custom hands the node to a type implementing shape.Unmarshaler.
type Custom struct{}

func (Custom) Deserialize(req *Request) (bool, error) {
	if !req.Shape.Custom {
		return false, nil
	}

	u := req.Dst.Addr().Interface().(shape.Unmarshaler)

	decode := func(target any) error {
		rv := reflect.ValueOf(target)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return fmt.Errorf("%w: decode target must be a non-nil pointer, got %T", ErrNoSuitableConstructor, target)
		}

		return req.Decode(rv.Elem(), shape.Of(rv.Elem().Type()))
	}

	return true, u.UnmarshalEvents(req.Source, decode)
}

// Pointer allocates the pointee and decodes the node into it. The anchor is
// bound to the pointer first, so the node may refer to itself.
type Pointer struct{}

func (Pointer) Deserialize(req *Request) (bool, error) {
	if req.Shape.Kind != shape.KindPointer {
		return false, nil
	}

	elem := req.Shape.Elem()

	var p reflect.Value
	switch elem.Kind {
	case shape.KindOpen, shape.KindInterface:
		p = reflect.New(elem.Type)
	default:
		var err error
		if p, err = req.Factory.Create(elem); err != nil {
			return true, err
		}
	}

	req.Dst.Set(p)
	req.Bind()

	return true, req.Inner(p.Elem(), elem)
}
