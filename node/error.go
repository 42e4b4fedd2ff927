package node

import (
	"errors"
	"fmt"
	"strings"

	"yaml-decoder/event"
	"yaml-decoder/shape"
)

// Error locates a failure in the document. Err carries the cause and
// matches the sentinel errors with errors.Is.
type Error struct {
	Mark  event.Mark
	Shape *shape.Shape
	Text  string
	Err   error
}

func (e *Error) Error() string {
	var prefix []string
	if !e.Mark.IsZero() {
		prefix = append(prefix, e.Mark.String())
	}

	if e.Shape != nil {
		prefix = append(prefix, fmt.Sprintf("decoding %s into %s", e.Text, e.Shape))
	} else if e.Text != "" {
		prefix = append(prefix, e.Text)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, ": ") + ": " + e.Err.Error()
	}

	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches the position of ev to err. Errors that already carry a
// position are returned unchanged.
func Wrap(ev event.Event, s *shape.Shape, err error) error {
	if err == nil {
		return nil
	}

	var located *Error
	if errors.As(err, &located) {
		return err
	}

	return &Error{Mark: ev.Start, Shape: s, Text: describe(ev), Err: err}
}

func describe(ev event.Event) string {
	switch ev.Kind {
	case event.KindScalar:
		return fmt.Sprintf("%q", ev.Value)
	case event.KindAlias:
		return "*" + ev.Value
	case event.KindMappingStart:
		return "mapping"
	case event.KindSequenceStart:
		return "sequence"
	default:
		return ev.Kind.String()
	}
}
