package node

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"yaml-decoder/event"
	"yaml-decoder/shape"
)

// decodeBox decodes the next node into a fresh value of s. pending reports
// whether the node registered deferred work, in which case the box is not
// final until the document is finalized.
func decodeBox(req *Request, s *shape.Shape, decode func(box reflect.Value) error) (box reflect.Value, pending bool, err error) {
	before := req.State.Deferred()
	box = reflect.New(s.Type).Elem()

	if decode == nil {
		err = req.Decode(box, s)
	} else {
		err = decode(box)
	}

	return box, req.State.Deferred() != before, err
}

// Array fills a fixed-length array in place. Missing trailing elements stay
// zero.
type Array struct{}

func (Array) Deserialize(req *Request) (bool, error) {
	s := req.Shape
	if s.Kind != shape.KindArray || req.Event.Kind != event.KindSequenceStart {
		return false, nil
	}

	if _, err := req.Source.Consume(event.KindSequenceStart); err != nil {
		return true, err
	}

	req.Dst.SetZero()
	req.Bind()

	elem := s.Elem()

	for i := 0; ; i++ {
		if _, ok, err := req.Source.TryConsume(event.KindSequenceEnd); err != nil || ok {
			return true, err
		}

		if i >= s.Len {
			return true, fmt.Errorf("%w: %s holds %d", ErrArity, s, s.Len)
		}

		if err := req.Decode(req.Dst.Index(i), elem); err != nil {
			return true, err
		}
	}
}

// Collection appends sequence items to a slice or to a type with an Append
// method. A mapping is accepted too when the element is a pair, in which
// case every entry becomes one element.
//
// Elements are committed in document order. Once an element waits on
// deferred work, it and every element after it are appended at
// finalization.
type Collection struct{}

func (Collection) Deserialize(req *Request) (bool, error) {
	s := req.Shape
	if s.Kind != shape.KindCollection {
		return false, nil
	}

	elem := s.Elem()

	var end event.Kind
	switch {
	case req.Event.Kind == event.KindSequenceStart:
		end = event.KindSequenceEnd
	case req.Event.Kind == event.KindMappingStart && isPair(elem):
		end = event.KindMappingEnd
	default:
		return false, nil
	}

	if _, err := req.Source.Consume(req.Event.Kind); err != nil {
		return true, err
	}

	if s.IsBuiltin() {
		c, err := req.Factory.CreateContainer(s, 0)
		if err != nil {
			return true, err
		}

		req.Dst.Set(c)
	}

	req.Bind()

	var decode func(box reflect.Value) error
	if end == event.KindMappingEnd {
		decode = func(box reflect.Value) error { return decodePair(req, box, elem) }
	}

	var pending []reflect.Value

	for {
		_, ok, err := req.Source.TryConsume(end)
		if err != nil {
			return true, err
		}

		if ok {
			break
		}

		box, deferred, err := decodeBox(req, elem, decode)
		if err != nil {
			return true, err
		}

		if deferred || len(pending) > 0 {
			pending = append(pending, box)
			continue
		}

		s.Add(req.Dst, box)
	}

	if len(pending) > 0 {
		dst := req.Dst
		req.State.OnFinish(func() error {
			for _, box := range pending {
				s.Add(dst, box)
			}

			return nil
		})
	}

	return true, nil
}

// isPair reports whether elem can hold one mapping entry: a two element
// array, or a record with key and value fields.
func isPair(elem *shape.Shape) bool {
	switch elem.Kind {
	case shape.KindArray:
		return elem.Len == 2
	case shape.KindRecord:
		_, hasKey := elem.Field("key")
		_, hasValue := elem.Field("value")

		return hasKey && hasValue
	default:
		return false
	}
}

func decodePair(req *Request, box reflect.Value, elem *shape.Shape) error {
	if elem.Kind == shape.KindArray {
		if err := req.Decode(box.Index(0), elem.Elem()); err != nil {
			return err
		}

		return req.Decode(box.Index(1), elem.Elem())
	}

	key, _ := elem.Field("key")
	val, _ := elem.Field("value")

	if err := req.Decode(box.FieldByIndex(key.Index), key.Shape()); err != nil {
		return err
	}

	return req.Decode(box.FieldByIndex(val.Index), val.Shape())
}

// Enumerable produces an iter.Seq over the decoded items. The sequence can
// be ranged over once; later calls yield nothing.
type Enumerable struct{}

func (Enumerable) Deserialize(req *Request) (bool, error) {
	s := req.Shape
	if s.Kind != shape.KindIterator {
		return false, nil
	}

	items := reflect.New(reflect.SliceOf(s.Elem().Type)).Elem()

	sub := *req
	sub.Shape = shape.Of(items.Type())
	sub.Dst = items
	sub.Event.Anchor = ""

	claimed, err := Collection{}.Deserialize(&sub)
	if !claimed || err != nil {
		return claimed, err
	}

	var consumed atomic.Bool

	seq := reflect.MakeFunc(s.Type, func(args []reflect.Value) []reflect.Value {
		if consumed.Swap(true) {
			return nil
		}

		yield := args[0]
		for i := range items.Len() {
			if !yield.Call([]reflect.Value{items.Index(i)})[0].Bool() {
				break
			}
		}

		return nil
	})

	req.Dst.Set(seq)

	return true, nil
}
