package node

import (
	"encoding"
	"fmt"
	"reflect"

	"yaml-decoder/event"
	"yaml-decoder/options"
	"yaml-decoder/primitive"
	"yaml-decoder/shape"
	"yaml-decoder/utils"
	"yaml-decoder/value"
)

// IsNull reports whether a scalar event spells null: the !!null tag, or an
// untagged plain scalar that is empty, ~ or null.
func IsNull(ev event.Event) bool {
	if ev.Kind != event.KindScalar {
		return false
	}

	if ev.Tag == event.CoreTagPrefix+"null" {
		return true
	}

	if ev.Tag != "" || ev.Style != event.StylePlain {
		return false
	}

	return utils.IsOneOf(ev.Value, "", "~", "null", "Null", "NULL")
}

// Null sets nullable targets to their zero value.
type Null struct{}

func (Null) Deserialize(req *Request) (bool, error) {
	if !req.Shape.Nullable() || !IsNull(req.Event) {
		return false, nil
	}

	if _, err := req.Source.Consume(event.KindScalar); err != nil {
		return true, err
	}

	req.Dst.SetZero()

	return true, nil
}

// Scalar coerces scalar text into primitives, enumerants, text
// unmarshalers and types with a registered converter. An open target
// receives the text as a string.
type Scalar struct {
	cfg options.Config
}

func NewScalar(cfg options.Config) *Scalar {
	return &Scalar{cfg: cfg}
}

func (d *Scalar) Deserialize(req *Request) (bool, error) {
	if req.Event.Kind != event.KindScalar {
		return false, nil
	}

	conv, hasConv := d.cfg.Converter(req.Shape.Type)

	switch req.Shape.Kind {
	case shape.KindScalar, shape.KindEnum, shape.KindText, shape.KindOpen:
	default:
		if !hasConv {
			return false, nil
		}
	}

	ev, err := req.Source.Consume(event.KindScalar)
	if err != nil {
		return true, err
	}

	if hasConv {
		v, err := conv.Convert(ev.Value)
		if err != nil {
			return true, err
		}

		return true, Assign(req.Dst, v)
	}

	return true, d.set(req.Dst, req.Shape, ev.Value)
}

func (d *Scalar) set(dst reflect.Value, s *shape.Shape, text string) error {
	switch s.Kind {
	case shape.KindScalar:
		v, err := d.cfg.Coercer.Coerce(text, s.Primitive)
		if err != nil {
			return err
		}

		dst.Set(reflect.ValueOf(v).Convert(s.Type))

	case shape.KindEnum:
		i, err := primitive.MatchEnumerant(text, s.String(), s.Names())
		if err != nil {
			return err
		}

		member := reflect.ValueOf(s.Enumerants()[i].Value)
		if !member.IsValid() || !member.CanConvert(s.Type) {
			return fmt.Errorf("%w: enumerant %s of %s has value %v", ErrNoSuitableConstructor, s.Names()[i], s, member)
		}

		dst.Set(member.Convert(s.Type))

	case shape.KindText:
		return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text))

	case shape.KindOpen:
		dst.Set(reflect.ValueOf(value.String(text)))
	}

	return nil
}
