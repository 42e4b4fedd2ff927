package primitive

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoolean   = errors.New("invalid boolean")
	ErrInvalidInteger   = errors.New("invalid integer")
	ErrOverflow         = errors.New("value out of range")
	ErrInvalidFloat     = errors.New("invalid float")
	ErrUnknownEnumerant = errors.New("unknown enumerant")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrUnsupportedKind  = errors.New("no coercion rule for kind")
)

// CoercionError reports a scalar whose text does not spell a value of the
// requested kind. Err is one of the sentinel errors of this package,
// possibly wrapped with detail.
type CoercionError struct {
	Err    error
	Text   string
	Target string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %q to %s: %v", e.Text, e.Target, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}
