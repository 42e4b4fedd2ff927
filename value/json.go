package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrCyclic = errors.New("value graph is cyclic")

// MarshalJSON encodes the value graph. Mapping keys are rendered with
// Value.String; non-finite floats become the YAML sentinel strings. Shared
// containers are repeated, cycles are an error.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	enc := encoder{buf: &buf, visiting: map[any]bool{}}
	if err := enc.encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *Sequence) MarshalJSON() ([]byte, error) { return Seq(s).MarshalJSON() }
func (m *Mapping) MarshalJSON() ([]byte, error)  { return Map(m).MarshalJSON() }

type encoder struct {
	buf      *bytes.Buffer
	visiting map[any]bool
}

func (e *encoder) encode(v Value) error {
	switch v.kind {
	case KindNull:
		e.buf.WriteString("null")
		return nil

	case KindFloat:
		f := v.v.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return e.scalar(formatFloat(f))
		}

		return e.scalar(f)

	case KindTime:
		return e.scalar(v.v.(time.Time).Format(time.RFC3339Nano))

	case KindSequence:
		s := v.v.(*Sequence)
		return e.enter(s, func() error {
			e.buf.WriteByte('[')
			for i, item := range s.items {
				if i > 0 {
					e.buf.WriteByte(',')
				}

				if err := e.encode(item); err != nil {
					return err
				}
			}
			e.buf.WriteByte(']')

			return nil
		})

	case KindMapping:
		m := v.v.(*Mapping)
		return e.enter(m, func() error {
			e.buf.WriteByte('{')
			for i, k := range m.keys {
				if i > 0 {
					e.buf.WriteByte(',')
				}

				if err := e.scalar(k.String()); err != nil {
					return err
				}

				e.buf.WriteByte(':')
				if err := e.encode(m.values[i]); err != nil {
					return err
				}
			}
			e.buf.WriteByte('}')

			return nil
		})

	default:
		return e.scalar(v.v)
	}
}

func (e *encoder) enter(container any, body func() error) error {
	if e.visiting[container] {
		return fmt.Errorf("failed to encode json: %w", ErrCyclic)
	}

	e.visiting[container] = true
	defer delete(e.visiting, container)

	return body()
}

func (e *encoder) scalar(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	e.buf.Write(data)

	return nil
}
