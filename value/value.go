// Package value holds the open value produced for targets that declare no
// shape of their own: a variant over the YAML core schema plus sequences and
// key-ordered mappings that may reference each other, cycles included.
package value

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"yaml-decoder/primitive"
)

//go:generate go tool stringer -type=Kind -output=kind_string.go

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindSequence
	KindMapping
	KindNative
)

// Value is an immutable tagged variant. The zero Value is null.
type Value struct {
	kind Kind
	v    any
}

func Null() Value            { return Value{} }
func Bool(b bool) Value      { return Value{kind: KindBool, v: b} }
func Int(i int64) Value      { return Value{kind: KindInt, v: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, v: f} }
func String(s string) Value  { return Value{kind: KindString, v: s} }
func Time(t time.Time) Value { return Value{kind: KindTime, v: t} }
func Seq(s *Sequence) Value  { return nonNil(KindSequence, s, s == nil) }
func Map(m *Mapping) Value   { return nonNil(KindMapping, m, m == nil) }
func Native(v any) Value     { return nonNil(KindNative, v, v == nil) }

func nonNil(k Kind, v any, isNil bool) Value {
	if isNil {
		return Value{}
	}

	return Value{kind: k, v: v}
}

// From wraps a Go value. Values of the core schema types map onto their
// variant; anything else becomes a native value.
func From(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Null()
		}
		return *x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return fromUnsigned(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return fromUnsigned(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return String(x)
	case primitive.Char:
		return String(string(rune(x)))
	case time.Time:
		return Time(x)
	case *Sequence:
		return Seq(x)
	case *Mapping:
		return Map(x)
	default:
		return Native(v)
	}
}

func fromUnsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Native(u)
	}

	return Int(int64(u))
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns the wrapped Go value: nil, bool, int64, float64, string,
// time.Time, *Sequence, *Mapping or the native value.
func (v Value) Interface() any { return v.v }

func (v Value) AsBool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok && v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	i, ok := v.v.(int64)
	return i, ok && v.kind == KindInt
}

func (v Value) AsFloat() (float64, bool) {
	f, ok := v.v.(float64)
	return f, ok && v.kind == KindFloat
}

func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok && v.kind == KindString
}

func (v Value) AsTime() (time.Time, bool) {
	t, ok := v.v.(time.Time)
	return t, ok && v.kind == KindTime
}

func (v Value) AsSequence() (*Sequence, bool) {
	s, ok := v.v.(*Sequence)
	return s, ok && v.kind == KindSequence
}

func (v Value) AsMapping() (*Mapping, bool) {
	m, ok := v.v.(*Mapping)
	return m, ok && v.kind == KindMapping
}

// String renders scalars the way YAML spells them. Containers render as a
// short summary since they may be cyclic.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.v.(bool))
	case KindInt:
		return strconv.FormatInt(v.v.(int64), 10)
	case KindFloat:
		return formatFloat(v.v.(float64))
	case KindString:
		return v.v.(string)
	case KindTime:
		return v.v.(time.Time).Format(time.RFC3339Nano)
	case KindSequence:
		return fmt.Sprintf("!!seq[%d]", v.v.(*Sequence).Len())
	case KindMapping:
		return fmt.Sprintf("!!map[%d]", v.v.(*Mapping).Len())
	default:
		return fmt.Sprint(v.v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
