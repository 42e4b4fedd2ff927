package node

import (
	"fmt"

	"yaml-decoder/event"
	"yaml-decoder/options"
	"yaml-decoder/shape"
)

var stringShape = shape.For[string]()

// Object fills the fields of a record from a mapping. Fields are decoded in
// place and keys are matched with shape.Field.
type Object struct {
	ignoreUnmatched bool
}

func NewObject(cfg options.Config) *Object {
	return &Object{ignoreUnmatched: cfg.IgnoreUnmatchedFields}
}

func (d *Object) Deserialize(req *Request) (bool, error) {
	s := req.Shape
	if s.Kind != shape.KindRecord || req.Event.Kind != event.KindMappingStart {
		return false, nil
	}

	if _, err := req.Source.Consume(event.KindMappingStart); err != nil {
		return true, err
	}

	req.Bind()

	for {
		_, ok, err := req.Source.TryConsume(event.KindMappingEnd)
		if err != nil {
			return true, err
		}

		if ok {
			return true, nil
		}

		keyEv, err := req.Source.Peek()
		if err != nil {
			return true, err
		}

		key, pending, err := decodeBox(req, stringShape, nil)
		if err != nil {
			return true, err
		}

		if pending {
			return true, &Error{
				Mark:  keyEv.Start,
				Shape: s,
				Text:  describe(keyEv),
				Err:   fmt.Errorf("%w: field names cannot refer forward", ErrUnknownField),
			}
		}

		f, ok := s.Field(key.String())
		if !ok {
			if d.ignoreUnmatched {
				if err := event.SkipNode(req.Source); err != nil {
					return true, err
				}

				continue
			}

			return true, &Error{Mark: keyEv.Start, Shape: s, Text: fmt.Sprintf("%q", key.String()), Err: ErrUnknownField}
		}

		if err := req.Decode(req.Dst.FieldByIndex(f.Index), f.Shape()); err != nil {
			return true, err
		}
	}
}
