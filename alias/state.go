// Package alias keeps the anchor table of one document and the work that has
// to wait until the whole document has been read.
//
// Decoding runs in two phases. While collecting, anchored nodes are bound as
// they are constructed and aliases either resolve to a bound node or leave a
// fixup behind. Finalize then writes every fixup and runs the finishers
// (deferred container commits and completion callbacks) in the order they
// were registered, which is node completion order.
package alias

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"yaml-decoder/event"
)

var (
	ErrUnresolvedAnchor = errors.New("unresolved anchor")
	ErrNotCollecting    = errors.New("document state is no longer collecting")
)

//go:generate go tool stringer -type=Phase -output=phase_string.go

type Phase int

const (
	PhaseCollecting Phase = iota
	PhaseFinalizing
	PhaseDone
)

// AnchorError reports an alias whose anchor is never defined in the
// document.
type AnchorError struct {
	Anchor string
	Mark   event.Mark
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("%v *%s", ErrUnresolvedAnchor, e.Anchor)
}

func (e *AnchorError) Unwrap() error {
	return ErrUnresolvedAnchor
}

// Assign stores the value bound to an anchor into the slot of an alias.
type Assign func(slot, bound reflect.Value) error

type binding struct {
	value   reflect.Value
	settled bool
}

type fixup struct {
	slot   reflect.Value
	anchor string
	mark   event.Mark
	assign Assign
	target reflect.Value
	bound  bool
}

// State is the per-document alias table. It is used by a single goroutine
// and discarded after Finalize.
type State struct {
	ID uuid.UUID

	anchors   map[string]binding
	fixups    []*fixup
	waiting   map[string][]*fixup
	finishers []func() error
	deferred  int
	phase     Phase
	logger    *slog.Logger
}

func NewState(logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := uuid.New()

	return &State{
		ID:      id,
		anchors: map[string]binding{},
		waiting: map[string][]*fixup{},
		logger:  logger.With(slog.String("document", id.String())),
	}
}

func (s *State) Phase() Phase {
	return s.phase
}

func (s *State) mustCollect() {
	if s.phase != PhaseCollecting {
		panic(fmt.Sprintf("alias: %v (phase %s)", ErrNotCollecting, s.phase))
	}
}

// Bind associates anchor with the node constructed at v. Binding an anchor
// again replaces the previous value for aliases that follow.
func (s *State) Bind(anchor string, v reflect.Value) {
	s.bind(anchor, v, true)
}

// BindPending binds anchor to a node whose construction still waits on
// deferred work. Aliases to it are assigned after that work has run.
func (s *State) BindPending(anchor string, v reflect.Value) {
	s.bind(anchor, v, false)
}

func (s *State) bind(anchor string, v reflect.Value, settled bool) {
	s.mustCollect()

	s.anchors[anchor] = binding{value: v, settled: settled}

	for _, f := range s.waiting[anchor] {
		f.target, f.bound = v, true
	}
	delete(s.waiting, anchor)
}

// Resolve handles an alias into slot. A settled anchor is assigned at once;
// otherwise the assignment is deferred and Deferred grows.
func (s *State) Resolve(slot reflect.Value, anchor string, mark event.Mark, assign Assign) error {
	s.mustCollect()

	b, ok := s.anchors[anchor]
	switch {
	case !ok:
		f := &fixup{slot: slot, anchor: anchor, mark: mark, assign: assign}
		s.fixups = append(s.fixups, f)
		s.waiting[anchor] = append(s.waiting[anchor], f)
		s.deferred++

		return nil

	case !b.settled:
		target := b.value
		s.OnFinish(func() error { return assign(slot, target) })

		return nil

	default:
		return assign(slot, b.value)
	}
}

// OnFinish registers fn to run during finalization, after every fixup has
// been written.
func (s *State) OnFinish(fn func() error) {
	s.mustCollect()

	s.finishers = append(s.finishers, fn)
	s.deferred++
}

// Deferred counts fixups and finishers registered so far. A node whose
// construction changed the count is not final until Finalize.
func (s *State) Deferred() int {
	return s.deferred
}

// Finalize writes the fixups and runs the finishers once each. The state
// is unusable afterwards.
func (s *State) Finalize() error {
	s.mustCollect()
	s.phase = PhaseFinalizing

	defer func() {
		s.phase = PhaseDone
		s.anchors, s.waiting, s.fixups, s.finishers = nil, nil, nil, nil
	}()

	s.logger.Debug("finalizing document",
		slog.Int("anchors", len(s.anchors)),
		slog.Int("fixups", len(s.fixups)),
		slog.Int("finishers", len(s.finishers)))

	for _, f := range s.fixups {
		if !f.bound {
			return &AnchorError{Anchor: f.anchor, Mark: f.mark}
		}

		if err := f.assign(f.slot, f.target); err != nil {
			return err
		}
	}

	for _, fn := range s.finishers {
		if err := fn(); err != nil {
			return err
		}
	}

	return nil
}
