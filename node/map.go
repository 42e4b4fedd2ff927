package node

import (
	"reflect"

	"yaml-decoder/event"
	"yaml-decoder/shape"
)

// Dictionary fills a map, or a type with a Set method, from a mapping.
// Duplicate keys are stored in order, so the last value wins. Once an entry
// waits on deferred work, it and every entry after it are stored at
// finalization.
type Dictionary struct{}

func (Dictionary) Deserialize(req *Request) (bool, error) {
	s := req.Shape
	if s.Kind != shape.KindMap || req.Event.Kind != event.KindMappingStart {
		return false, nil
	}

	if _, err := req.Source.Consume(event.KindMappingStart); err != nil {
		return true, err
	}

	if s.IsBuiltin() && req.Dst.IsNil() {
		c, err := req.Factory.CreateContainer(s, 0)
		if err != nil {
			return true, err
		}

		req.Dst.Set(c)
	}

	req.Bind()

	type entry struct {
		key, val reflect.Value
	}

	keyShape, valShape := s.Key(), s.Elem()

	var pending []entry

	for {
		_, ok, err := req.Source.TryConsume(event.KindMappingEnd)
		if err != nil {
			return true, err
		}

		if ok {
			break
		}

		key, keyDeferred, err := decodeBox(req, keyShape, nil)
		if err != nil {
			return true, err
		}

		val, valDeferred, err := decodeBox(req, valShape, nil)
		if err != nil {
			return true, err
		}

		if keyDeferred || valDeferred || len(pending) > 0 {
			pending = append(pending, entry{key, val})
			continue
		}

		s.Put(req.Dst, key, val)
	}

	if len(pending) > 0 {
		dst := req.Dst
		req.State.OnFinish(func() error {
			for _, e := range pending {
				s.Put(dst, e.key, e.val)
			}

			return nil
		})
	}

	return true, nil
}
