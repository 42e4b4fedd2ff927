package decoder

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"yaml-decoder/alias"
	"yaml-decoder/event"
	"yaml-decoder/node"
	"yaml-decoder/shape"
	"yaml-decoder/value"
)

var (
	ErrMalformedEnvelope = errors.New("malformed stream envelope")
	ErrDepthLimit        = errors.New("nesting exceeds the depth limit")
	ErrInvalidTarget     = errors.New("target must be a non-nil pointer")
)

// Deserializer turns event streams into values. It is immutable and safe
// for concurrent use; every call gets its own alias state.
type Deserializer struct {
	pipeline *pipeline
	logger   *slog.Logger
}

// Deserialize decodes the next document of src into an open value.
func (d *Deserializer) Deserialize(src event.Source) (value.Value, error) {
	var v value.Value
	if err := d.DeserializeInto(src, &v); err != nil {
		return value.Value{}, err
	}

	return v, nil
}

// DeserializeInto decodes the document of src into the value out points
// to. The stream and document markers are optional, but a start marker
// requires its end marker. An empty document stores the zero value.
func (d *Deserializer) DeserializeInto(src event.Source, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w, got %T", ErrInvalidTarget, out)
	}

	ev, stream, err := src.TryConsume(event.KindStreamStart)
	if err != nil {
		return envelope(ev, err)
	}

	if err := d.document(src, rv.Elem()); err != nil {
		return err
	}

	if stream {
		if ev, err := src.Consume(event.KindStreamEnd); err != nil {
			return envelope(ev, err)
		}
	}

	return nil
}

// DeserializeAll decodes every document of a stream into open values.
func (d *Deserializer) DeserializeAll(src event.Source) ([]value.Value, error) {
	ev, stream, err := src.TryConsume(event.KindStreamStart)
	if err != nil {
		return nil, envelope(ev, err)
	}

	var docs []value.Value

	for {
		next, err := src.Peek()

		switch {
		case errors.Is(err, event.ErrEndOfEvents) && !stream:
			return docs, nil

		case err != nil:
			return nil, envelope(next, err)

		case next.Kind == event.KindStreamEnd:
			if !stream {
				return nil, envelope(next, fmt.Errorf("%w: stream end without start", event.ErrUnexpectedEvent))
			}

			if _, err := src.Consume(event.KindStreamEnd); err != nil {
				return nil, envelope(next, err)
			}

			return docs, nil

		case next.Kind == event.KindDocumentEnd:
			return nil, envelope(next, fmt.Errorf("%w: document end without start", event.ErrUnexpectedEvent))
		}

		var v value.Value
		if err := d.document(src, reflect.ValueOf(&v).Elem()); err != nil {
			return nil, err
		}

		docs = append(docs, v)
	}
}

// Unmarshal decodes YAML text into out.
func (d *Deserializer) Unmarshal(data []byte, out any) error {
	src, err := Parse(data)
	if err != nil {
		return err
	}

	return d.DeserializeInto(src, out)
}

func (d *Deserializer) document(src event.Source, dst reflect.Value) error {
	start, doc, err := src.TryConsume(event.KindDocumentStart)
	if err != nil {
		return envelope(start, err)
	}

	// A source without any events holds one empty document.
	ev, err := src.Peek()
	drained := !doc && errors.Is(err, event.ErrEndOfEvents)
	if err != nil && !drained {
		return envelope(ev, err)
	}

	state := alias.NewState(d.logger)
	logger := d.logger.With(slog.String("document", state.ID.String()))

	if drained || ev.Kind == event.KindDocumentEnd || ev.Kind == event.KindStreamEnd {
		logger.Debug("empty document")
		dst.SetZero()
	} else {
		logger.Debug("decoding document", slog.String("target", shape.Of(dst.Type()).String()))

		if err := d.root(src, state, dst); err != nil {
			logger.Warn("decoding failed", slog.Any("error", err))
			return err
		}
	}

	if doc {
		if ev, err := src.Consume(event.KindDocumentEnd); err != nil {
			return envelope(ev, err)
		}
	}

	return nil
}

func (d *Deserializer) root(src event.Source, state *alias.State, dst reflect.Value) error {
	r := &run{pipeline: d.pipeline, src: src, state: state}
	if err := r.decode(dst, shape.Of(dst.Type())); err != nil {
		return err
	}

	err := state.Finalize()

	var anchorErr *alias.AnchorError
	if errors.As(err, &anchorErr) {
		return &node.Error{Mark: anchorErr.Mark, Err: err}
	}

	return err
}

func envelope(ev event.Event, err error) error {
	return &node.Error{Mark: ev.Start, Err: fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)}
}

// Parse turns YAML text into an event stream. An alias the parser cannot
// match to an anchor is reported like one left unresolved by a document.
func Parse(data []byte) (*event.Stream, error) {
	src, err := event.FromYAML(data)

	var unknown *event.UnknownAnchorError
	if errors.As(err, &unknown) {
		return nil, &node.Error{
			Mark: unknown.Mark,
			Err:  &alias.AnchorError{Anchor: unknown.Anchor, Mark: unknown.Mark},
		}
	}

	return src, err
}

var defaultDeserializer = sync.OnceValue(func() *Deserializer {
	d, err := NewBuilder().Build()
	if err != nil {
		panic(err)
	}

	return d
})

// Unmarshal decodes YAML text into out with the default pipeline.
func Unmarshal(data []byte, out any) error {
	return defaultDeserializer().Unmarshal(data, out)
}
