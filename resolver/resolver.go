// Package resolver decides which concrete shape an open or interface target
// is built as, from the node's kind and tag.
package resolver

import (
	"errors"
	"fmt"

	"yaml-decoder/event"
	"yaml-decoder/options"
	"yaml-decoder/shape"
)

var ErrUnknownTag = errors.New("unknown tag")

const (
	NameStructural = "structural"
	NameTag        = "tag"
	NameCapability = "capability"
	NameUnknownTag = "unknown-tag"
)

// TypeResolver refines current for the node starting with ev. Returning
// stop ends the chain with the returned shape.
type TypeResolver interface {
	Resolve(ev event.Event, current *shape.Shape) (resolved *shape.Shape, stop bool, err error)
}

type Func func(ev event.Event, current *shape.Shape) (*shape.Shape, bool, error)

func (f Func) Resolve(ev event.Event, current *shape.Shape) (*shape.Shape, bool, error) {
	return f(ev, current)
}

// Chain runs resolvers in order.
type Chain []TypeResolver

func (c Chain) Resolve(ev event.Event, current *shape.Shape) (*shape.Shape, error) {
	for _, r := range c {
		next, stop, err := r.Resolve(ev, current)
		if err != nil {
			return nil, err
		}

		current = next
		if stop {
			break
		}
	}

	return current, nil
}

// Structural picks the default container for mappings and sequences
// decoded into an open target, and the registered stand-in for interfaces.
type Structural struct {
	cfg options.Config
}

func NewStructural(cfg options.Config) *Structural {
	return &Structural{cfg: cfg}
}

func (r *Structural) Resolve(ev event.Event, current *shape.Shape) (*shape.Shape, bool, error) {
	switch current.Kind {
	case shape.KindInterface:
		if o := r.cfg.Override(current.Type); o != current.Type {
			return shape.Of(o), false, nil
		}

	case shape.KindOpen:
		var tag string
		switch ev.Kind {
		case event.KindMappingStart:
			tag = event.CoreTagPrefix + "map"
		case event.KindSequenceStart:
			tag = event.CoreTagPrefix + "seq"
		default:
			return current, false, nil
		}

		if t, ok := r.cfg.TagType(tag); ok {
			return shape.Of(r.cfg.Override(t)), false, nil
		}
	}

	return current, false, nil
}

// Tag maps an explicit tag through the tag table.
type Tag struct {
	cfg options.Config
}

func NewTag(cfg options.Config) *Tag {
	return &Tag{cfg: cfg}
}

func (r *Tag) Resolve(ev event.Event, current *shape.Shape) (*shape.Shape, bool, error) {
	if ev.Tag == "" {
		return current, false, nil
	}

	t, ok := r.cfg.TagType(ev.Tag)
	if !ok {
		return current, false, nil
	}

	t = r.cfg.Override(t)

	// an interface target only accepts tags naming one of its implementations
	if current.Kind == shape.KindInterface && !t.Implements(current.Type) {
		return current, false, nil
	}

	return shape.Of(t), true, nil
}

// Capability stops the chain for shapes that construct themselves.
type Capability struct{}

func (Capability) Resolve(_ event.Event, current *shape.Shape) (*shape.Shape, bool, error) {
	return current, current.Custom, nil
}

// UnknownTag rejects tags no earlier resolver accounted for.
type UnknownTag struct {
	reject bool
}

func NewUnknownTag(cfg options.Config) *UnknownTag {
	return &UnknownTag{reject: cfg.RejectUnknownTags}
}

func (r *UnknownTag) Resolve(ev event.Event, current *shape.Shape) (*shape.Shape, bool, error) {
	if r.reject && ev.Tag != "" {
		return nil, false, fmt.Errorf("%w %q", ErrUnknownTag, ev.Tag)
	}

	return current, false, nil
}
