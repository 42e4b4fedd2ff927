package options

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"yaml-decoder/utils"
)

var (
	ErrIsNotAConverter         = errors.New("provided function is not a recognizable converter")
	ErrConverterIsNotAFunction = errors.New("provided converter is not a function")
	ErrDoublePointer           = errors.New("converter function does not support double pointers")
	ErrConversionDeclined      = errors.New("converter declined the value")
)

// Converter turns scalar text into a value of Dst with a user supplied
// function.
type Converter struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseConverter inspects the provided function and returns a Converter if
// it is a valid scalar converter. The parameter must have an underlying
// string type.
//
// Supports interfaces:
//   - func(text string) (dst Type)
//   - func(text string) (dst Type, bool)
//   - func(text string) (dst Type, error)
//   - func(text string) (dst Type, bool, error)
func ParseConverter(fn any) (Converter, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Converter{}, ErrConverterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Converter{}, ErrIsNotAConverter
	}

	src := fnType.In(0)
	if src.Kind() != reflect.String {
		return Converter{}, ErrIsNotAConverter
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Pointer && dst.Elem().Kind() == reflect.Pointer {
		return Converter{}, ErrDoublePointer
	}

	fnPC := runtime.FuncForPC(fnVal.Pointer())
	alias, name := utils.Unpack2(strings.SplitN(fnPC.Name(), ".", 2))

	conv := Converter{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: utils.Second(path.Split(alias)),
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Converter{}, ErrIsNotAConverter

	case 1:
		return conv, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Converter{}, ErrIsNotAConverter
		case last.Kind() == reflect.Bool:
			conv.HasBool = true
		case isError(last):
			conv.HasErr = true
		}
		return conv, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Converter{}, ErrIsNotAConverter
		}

		conv.HasBool = true
		conv.HasErr = true
		return conv, nil
	}
}

func (c Converter) String() string {
	return c.PackageAlias + "." + c.Name
}

// Convert calls the converter with text.
func (c Converter) Convert(text string) (reflect.Value, error) {
	out := c.fn.Call([]reflect.Value{reflect.ValueOf(text).Convert(c.Src)})

	if c.HasErr {
		if err, _ := out[len(out)-1].Interface().(error); err != nil {
			return reflect.Value{}, fmt.Errorf("%s: %w", c, err)
		}
	}

	if c.HasBool && !out[1].Bool() {
		return reflect.Value{}, fmt.Errorf("%s: %w", c, ErrConversionDeclined)
	}

	return out[0], nil
}

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	return t.Implements(reflect.TypeFor[error]())
}
