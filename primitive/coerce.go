package primitive

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"yaml-decoder/utils"
)

var defaultTimeLayouts = []string{
	"2006-1-2T15:4:5.999999999Z07:00", // RFC3339Nano with short date fields
	"2006-1-2t15:4:5.999999999Z07:00", // RFC3339Nano with short date fields and lower-case "t"
	"2006-1-2 15:4:5.999999999Z07:00", // space separated with time zone
	"2006-1-2 15:4:5.999999999",       // space separated with no time zone
	"2006-1-2",                        // date only
}

// DefaultTimeLayouts returns the timestamp layouts tried by NewCoercer, in
// order. The list is a best-effort superset of the YAML timestamp grammar.
func DefaultTimeLayouts() []string {
	return slices.Clone(defaultTimeLayouts)
}

// Coercer converts scalar text into native values. It holds no state, so a
// single value may be shared freely. The zero Coercer applies only the plain
// spellings and the default timestamp layouts.
type Coercer struct {
	Categories  CategoryEnum
	TimeLayouts []string
}

// NewCoercer returns a Coercer applying the default YAML 1.1 rule set.
func NewCoercer() Coercer {
	return Coercer{
		Categories:  CategoryDefault,
		TimeLayouts: DefaultTimeLayouts(),
	}
}

var defaultCoercer = NewCoercer()

// Coerce converts text using the default rule set.
func Coerce(text string, kind KindEnum) (any, error) {
	return defaultCoercer.Coerce(text, kind)
}

// Coerce converts text into a value of kind. The result has the canonical Go
// type of the kind (see KindEnum.Type). Failures are *CoercionError.
func (c Coercer) Coerce(text string, kind KindEnum) (any, error) {
	v, err := c.coerce(text, kind)
	if err != nil {
		return nil, &CoercionError{Err: err, Text: text, Target: kind.String()}
	}

	return v, nil
}

func (c Coercer) coerce(text string, kind KindEnum) (any, error) {
	switch {
	case kind == KindBool:
		return c.parseBool(text)

	case kind.IsInteger():
		neg, mag, err := c.parseInteger(text)
		if err != nil {
			return nil, err
		}

		return castInteger(neg, mag, kind)

	case kind.IsFloat():
		f, err := c.parseFloat(text, kind.Bits())
		if err != nil {
			return nil, err
		}

		if kind == KindFloat32 {
			return float32(f), nil
		}

		return f, nil

	case kind == KindString:
		return text, nil

	case kind == KindChar:
		r, size := utf8.DecodeRuneInString(text)
		if size != len(text) || (r == utf8.RuneError && size <= 1) {
			return nil, fmt.Errorf("%w: want exactly one code point, got %d", ErrInvalidCharacter, utf8.RuneCountInString(text))
		}

		return Char(r), nil

	case kind == KindTime:
		return c.parseTime(text)

	case kind == KindDuration:
		return c.parseDuration(text)

	default:
		return nil, ErrUnsupportedKind
	}
}

func (c Coercer) parseBool(text string) (bool, error) {
	lower := strings.ToLower(text)

	switch lower {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	if c.Categories.Has(CategoryTextualBool) {
		switch lower {
		case "y", "yes", "on":
			return true, nil
		case "n", "no", "off":
			return false, nil
		}
	}

	if c.Categories.Has(CategoryNumericBool) {
		switch lower {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	}

	return false, ErrInvalidBoolean
}

// parseInteger splits text into its sign and unsigned magnitude.
func (c Coercer) parseInteger(text string) (neg bool, mag uint64, err error) {
	s := text
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	if s == "" {
		return false, 0, ErrInvalidInteger
	}

	if c.Categories.Has(CategorySexagesimal) && strings.Contains(s, ":") {
		mag, err = c.parseSexagesimal(s)
		return neg, mag, err
	}

	if c.Categories.Has(CategoryBasePrefix) && len(s) > 1 && s[0] == '0' {
		base, digits := 8, s[1:]
		switch s[1] {
		case 'b':
			base, digits = 2, s[2:]
		case 'x':
			base, digits = 16, s[2:]
		case 'o':
			digits = s[2:]
		}

		mag, err = c.parseDigits(digits, base)
		return neg, mag, err
	}

	mag, err = c.parseDigits(s, 10)

	return neg, mag, err
}

// parseSexagesimal reads colon separated base 60 chunks, most significant
// first. Every chunk after the first must be below 60.
func (c Coercer) parseSexagesimal(s string) (uint64, error) {
	var mag uint64

	for i, chunk := range strings.Split(s, ":") {
		v, err := c.parseDigits(chunk, 10)
		if err != nil {
			return 0, err
		}

		if i > 0 && !utils.IsInRange(0, v, 59) {
			return 0, fmt.Errorf("%w: sexagesimal chunk %q is not below 60", ErrInvalidInteger, chunk)
		}

		hi, lo := bits.Mul64(mag, 60)
		sum, carry := bits.Add64(lo, v, 0)
		if hi != 0 || carry != 0 {
			return 0, ErrOverflow
		}

		mag = sum
	}

	return mag, nil
}

func (c Coercer) parseDigits(digits string, base int) (uint64, error) {
	if c.Categories.Has(CategoryDigitSeparators) {
		digits = strings.ReplaceAll(digits, "_", "")
	}

	if digits == "" {
		return 0, ErrInvalidInteger
	}

	v, err := strconv.ParseUint(digits, base, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, ErrOverflow
	case err != nil:
		return 0, fmt.Errorf("%w: %q is not a base %d number", ErrInvalidInteger, digits, base)
	}

	return v, nil
}

// castInteger range-checks a signed magnitude against the width of kind.
func castInteger(neg bool, mag uint64, kind KindEnum) (any, error) {
	width := kind.Bits()

	if kind.IsSigned() {
		limit := uint64(1) << (width - 1)

		var v int64
		switch {
		case neg && mag > limit, !neg && mag >= limit:
			return nil, fmt.Errorf("%w: does not fit in %d bits", ErrOverflow, width)
		case neg:
			v = int64(-mag)
		default:
			v = int64(mag)
		}

		switch kind {
		case KindInt8:
			return int8(v), nil
		case KindInt16:
			return int16(v), nil
		case KindInt32:
			return int32(v), nil
		case KindInt64:
			return v, nil
		default:
			return int(v), nil
		}
	}

	if neg && mag != 0 {
		return nil, fmt.Errorf("%w: negative value for unsigned kind", ErrOverflow)
	}

	if width < 64 && mag >= uint64(1)<<width {
		return nil, fmt.Errorf("%w: does not fit in %d bits", ErrOverflow, width)
	}

	switch kind {
	case KindUint8:
		return uint8(mag), nil
	case KindUint16:
		return uint16(mag), nil
	case KindUint32:
		return uint32(mag), nil
	case KindUint64:
		return mag, nil
	default:
		return uint(mag), nil
	}
}

func (c Coercer) parseFloat(text string, bitSize int) (float64, error) {
	if c.Categories.Has(CategoryFloatSentinels) {
		switch strings.ToLower(text) {
		case ".nan":
			return math.NaN(), nil
		case ".inf", "+.inf":
			return math.Inf(1), nil
		case "-.inf":
			return math.Inf(-1), nil
		}
	}

	s := text
	if c.Categories.Has(CategoryDigitSeparators) {
		s = strings.ReplaceAll(s, "_", "")
	}

	if !isDecimal(s) {
		return 0, ErrInvalidFloat
	}

	f, err := strconv.ParseFloat(s, bitSize)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, fmt.Errorf("%w: does not fit in float%d", ErrOverflow, bitSize)
	case err != nil:
		return 0, ErrInvalidFloat
	}

	return f, nil
}

// isDecimal rejects the spellings strconv accepts but YAML does not: inf,
// nan, hexadecimal mantissas and underscores.
func isDecimal(s string) bool {
	digits := 0

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.', r == 'e', r == 'E', r == '+', r == '-':
		default:
			return false
		}
	}

	return digits > 0
}

func (c Coercer) parseTime(text string) (time.Time, error) {
	layouts := c.TimeLayouts
	if len(layouts) == 0 {
		layouts = defaultTimeLayouts
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}

	if c.Categories.Has(CategoryTimestamp) {
		if neg, mag, err := c.parseInteger(text); err == nil {
			sec, err := castInteger(neg, mag, KindInt64)
			if err != nil {
				return time.Time{}, err
			}

			return time.Unix(sec.(int64), 0).UTC(), nil
		}
	}

	return time.Time{}, ErrInvalidTimestamp
}

func (c Coercer) parseDuration(text string) (time.Duration, error) {
	if c.Categories.Has(CategoryDuration) {
		if d, err := time.ParseDuration(text); err == nil {
			return d, nil
		}
	}

	if c.Categories.Has(CategoryNanoseconds) {
		if neg, mag, err := c.parseInteger(text); err == nil {
			ns, err := castInteger(neg, mag, KindInt64)
			if err != nil {
				return 0, err
			}

			return time.Duration(ns.(int64)), nil
		}
	}

	return 0, ErrInvalidDuration
}

// MatchEnumerant returns the index of the member whose name equals text,
// ignoring case.
func MatchEnumerant(text, target string, members []string) (int, error) {
	for i, name := range members {
		if strings.EqualFold(name, text) {
			return i, nil
		}
	}

	return -1, &CoercionError{
		Err:    fmt.Errorf("%w: want one of %s", ErrUnknownEnumerant, strings.Join(members, ", ")),
		Text:   text,
		Target: target,
	}
}
