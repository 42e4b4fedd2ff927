package node

import (
	"fmt"
	"reflect"

	"yaml-decoder/primitive"
	"yaml-decoder/shape"
	"yaml-decoder/value"
)

var valueType = reflect.TypeFor[value.Value]()

// Assign stores a constructed value into slot. It is used for aliases and to
// move values out of the temporary boxes open and interface targets are
// decoded into.
//
// Open slots receive the value wrapped in value.Value. A pointer slot given
// an addressable value of its element type points at that value, which keeps
// aliases to records shared.
func Assign(slot, bound reflect.Value) error {
	st := slot.Type()

	if shape.Of(st).Kind == shape.KindOpen {
		v := value.From(bound.Interface())
		if v.IsNull() && st != valueType {
			slot.SetZero()
			return nil
		}

		slot.Set(reflect.ValueOf(v))
		return nil
	}

	if bound.Type() == valueType {
		inner := bound.Interface().(value.Value).Interface()
		if inner == nil {
			slot.SetZero()
			return nil
		}

		bound = reflect.ValueOf(inner)
	}

	bt := bound.Type()

	switch {
	case bt.AssignableTo(st):
		slot.Set(bound)

	case st.Kind() == reflect.Pointer && bt.AssignableTo(st.Elem()) && bound.CanAddr():
		slot.Set(bound.Addr())

	case bt.Kind() == reflect.Pointer && bt.Elem().AssignableTo(st) && !bound.IsNil():
		slot.Set(bound.Elem())

	case primitive.FromReflectType(bt) != 0 && primitive.FromReflectType(bt) == primitive.FromReflectType(st):
		slot.Set(bound.Convert(st))

	default:
		return fmt.Errorf("%w: cannot use %s as %s", ErrIncompatibleAlias, bt, st)
	}

	return nil
}
