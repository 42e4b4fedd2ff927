package decoder

import (
	"fmt"
	"reflect"

	"yaml-decoder/alias"
	"yaml-decoder/event"
	"yaml-decoder/node"
	"yaml-decoder/resolver"
	"yaml-decoder/shape"
)

// pipeline is the frozen product of a Builder.
type pipeline struct {
	resolvers  resolver.Chain
	strategies []node.NodeDeserializer
	factory    *node.ObjectFactory
	maxDepth   int
}

// run decodes the nodes of one document.
type run struct {
	*pipeline

	src   event.Source
	state *alias.State
	depth int
	inner bool
}

// decode is the pipeline entry point for the next node of the source.
func (r *run) decode(dst reflect.Value, s *shape.Shape) error {
	inner := r.inner
	r.inner = false

	ev, err := r.src.Peek()
	if err != nil {
		return &node.Error{Shape: s, Text: "next node", Err: err}
	}

	if r.depth >= r.maxDepth {
		return node.Wrap(ev, s, fmt.Errorf("%w of %d", ErrDepthLimit, r.maxDepth))
	}

	r.depth++
	defer func() { r.depth-- }()

	if ev.Kind == event.KindAlias {
		if _, err := r.src.Consume(event.KindAlias); err != nil {
			return node.Wrap(ev, s, err)
		}

		assign := func(slot, bound reflect.Value) error {
			return node.Wrap(ev, s, node.Assign(slot, bound))
		}

		return r.state.Resolve(dst, ev.Value, ev.Start, assign)
	}

	if !ev.Kind.IsNodeStart() {
		return node.Wrap(ev, s, fmt.Errorf("%w: expected a node", event.ErrUnexpectedEvent))
	}

	if inner {
		ev.Anchor = ""
	}

	target := s
	if s.Kind == shape.KindOpen || s.Kind == shape.KindInterface {
		if target, err = r.resolvers.Resolve(ev, s); err != nil {
			return node.Wrap(ev, s, err)
		}

		if target.Kind == shape.KindInterface && !node.IsNull(ev) {
			if target, err = r.factory.Concrete(target); err != nil {
				return node.Wrap(ev, s, err)
			}
		}
	}

	slot, boxed := dst, target.Type != s.Type
	if boxed {
		slot = reflect.New(target.Type).Elem()
	}

	before := r.state.Deferred()

	if err := r.construct(ev, slot, target); err != nil {
		return err
	}

	pending := r.state.Deferred() != before

	if boxed {
		commit := func() error { return node.Wrap(ev, s, node.Assign(dst, slot)) }

		if pending {
			r.state.OnFinish(commit)
		} else if err := commit(); err != nil {
			return err
		}
	}

	if ev.Anchor != "" {
		if pending {
			r.state.BindPending(ev.Anchor, slot)
		} else {
			r.state.Bind(ev.Anchor, slot)
		}
	}

	return nil
}

// decodeInner decodes the current node again without rebinding its anchor.
func (r *run) decodeInner(dst reflect.Value, s *shape.Shape) error {
	r.inner = true
	return r.decode(dst, s)
}

// construct offers the node to the strategies in order.
func (r *run) construct(ev event.Event, dst reflect.Value, s *shape.Shape) error {
	req := &node.Request{
		Source:  r.src,
		Event:   ev,
		Shape:   s,
		Dst:     dst,
		Factory: r.factory,
		State:   r.state,
		Nested:  r.decode,
		Inner:   r.decodeInner,
	}

	for _, strategy := range r.strategies {
		claimed, err := strategy.Deserialize(req)
		if err != nil {
			return node.Wrap(ev, s, err)
		}

		if !claimed {
			continue
		}

		if dst.CanAddr() {
			if c, ok := dst.Addr().Interface().(node.Completer); ok {
				r.state.OnFinish(c.DecodeCompleted)
			}
		}

		return nil
	}

	return node.Wrap(ev, s, node.ErrNoApplicableStrategy)
}
