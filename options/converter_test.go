package options_test

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yaml-decoder/options"
)

type moreThanError interface {
	error
	More()
}

type Label string

func empty()                                  { panic("not implemented") }
func wrong(string) (string, error, bool)      { panic("not implemented") }
func notText(int) string                      { panic("not implemented") }
func full(string) (int, bool, error)          { panic("not implemented") }
func customError(string) (int, moreThanError) { panic("not implemented") }
func label(l Label) string                    { return strings.ToUpper(string(l)) }

func ExampleParseConverter() {
	desc, err := options.ParseConverter(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = options.ParseConverter(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = options.ParseConverter(url.Parse)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = options.ParseConverter(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	_, err = options.ParseConverter(empty)
	fmt.Println(err)

	_, err = options.ParseConverter(wrong)
	fmt.Println(err)

	_, err = options.ParseConverter(notText)
	fmt.Println(err)

	_, err = options.ParseConverter(42)
	fmt.Println(err)

	// Output:
	// <nil> options_test full string int true true
	// <nil> strconv Atoi string int false true
	// <nil> url Parse string ptr false true
	// <nil> options_test customError string int false true
	// provided function is not a recognizable converter
	// provided function is not a recognizable converter
	// provided function is not a recognizable converter
	// provided converter is not a function
}

func TestConvert(t *testing.T) {
	t.Parallel()

	t.Run("plain", func(t *testing.T) {
		t.Parallel()

		conv, err := options.ParseConverter(label)
		require.NoError(t, err)

		got, err := conv.Convert("abc")
		require.NoError(t, err)
		assert.Equal(t, "ABC", got.Interface())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		conv, err := options.ParseConverter(strconv.Atoi)
		require.NoError(t, err)

		_, err = conv.Convert("x")
		var numErr *strconv.NumError
		assert.True(t, errors.As(err, &numErr))
		assert.Contains(t, err.Error(), "strconv.Atoi")
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()

		conv, err := options.ParseConverter(func(s string) (int, bool) { return len(s), s != "" })
		require.NoError(t, err)

		got, err := conv.Convert("four")
		require.NoError(t, err)
		assert.Equal(t, 4, got.Interface())

		_, err = conv.Convert("")
		assert.ErrorIs(t, err, options.ErrConversionDeclined)
	})
}
