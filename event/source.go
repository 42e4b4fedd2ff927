package event

import (
	"errors"
	"fmt"
)

//go:generate go tool mockgen -source=source.go -destination=source_mock.go -package=event

var (
	// ErrEndOfEvents is returned when the source has no more events.
	ErrEndOfEvents = errors.New("end of event stream")
	// ErrUnexpectedEvent is returned by Consume when the next event has a different kind.
	ErrUnexpectedEvent = errors.New("unexpected event")
)

// Source is a synchronous pull interface over an event stream. The decoder
// never pushes events back.
type Source interface {
	// Peek returns the next event without consuming it.
	Peek() (Event, error)
	// TryConsume consumes and returns the next event if it has the given kind.
	TryConsume(kind Kind) (Event, bool, error)
	// Consume consumes the next event, failing if it has a different kind.
	Consume(kind Kind) (Event, error)
}

// Stream is an in-memory Source over a fixed slice of events.
type Stream struct {
	events []Event
	pos    int
}

// NewStream returns a Stream yielding events in order.
func NewStream(events ...Event) *Stream {
	return &Stream{events: events}
}

// Peek implements Source.
func (s *Stream) Peek() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, ErrEndOfEvents
	}

	return s.events[s.pos], nil
}

// TryConsume implements Source.
func (s *Stream) TryConsume(kind Kind) (Event, bool, error) {
	ev, err := s.Peek()
	if err != nil {
		if errors.Is(err, ErrEndOfEvents) {
			return Event{}, false, nil
		}

		return Event{}, false, err
	}

	if ev.Kind != kind {
		return Event{}, false, nil
	}

	s.pos++

	return ev, true, nil
}

// Consume implements Source.
func (s *Stream) Consume(kind Kind) (Event, error) {
	ev, err := s.Peek()
	if err != nil {
		return Event{}, fmt.Errorf("expected %s: %w", kind, err)
	}

	if ev.Kind != kind {
		return Event{}, fmt.Errorf("%w: expected %s, got %s at %s", ErrUnexpectedEvent, kind, ev, ev.Start)
	}

	s.pos++

	return ev, nil
}

// Remaining returns the number of events not yet consumed.
func (s *Stream) Remaining() int {
	return len(s.events) - s.pos
}

// SkipNode consumes one complete node, including every nested event of a
// collection.
func SkipNode(src Source) error {
	ev, err := src.Peek()
	if err != nil {
		return err
	}

	if !ev.Kind.IsNodeStart() {
		return fmt.Errorf("%w: expected a node, got %s at %s", ErrUnexpectedEvent, ev, ev.Start)
	}

	if _, err := src.Consume(ev.Kind); err != nil {
		return err
	}

	end := ev.Kind.End()
	if end == 0 {
		return nil
	}

	for {
		if _, ok, err := src.TryConsume(end); err != nil || ok {
			return err
		}

		if err := SkipNode(src); err != nil {
			return err
		}
	}
}
