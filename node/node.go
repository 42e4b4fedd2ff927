// Package node builds values from the events of one document node.
//
// A NodeDeserializer is a strategy: given the peeked start event of a node
// and the shape it has to produce, it either claims the node and consumes
// all of its events, or declines without consuming anything. Strategies are
// tried in order and the first claim wins. Composite strategies decode
// their children through Request.Decode, which runs the whole pipeline
// again for the next node.
package node

import (
	"errors"
	"reflect"

	"yaml-decoder/alias"
	"yaml-decoder/event"
	"yaml-decoder/options"
	"yaml-decoder/shape"
)

var (
	ErrNoApplicableStrategy  = errors.New("no strategy can construct this node")
	ErrNoSuitableConstructor = errors.New("no suitable constructor")
	ErrUnknownField          = errors.New("unknown field")
	ErrArity                 = errors.New("too many elements")
	ErrIncompatibleAlias     = errors.New("aliased value does not fit the target")
)

// Strategy names of the default chain, in order.
const (
	NameCustom     = "custom"
	NameNull       = "null"
	NamePointer    = "pointer"
	NameScalar     = "scalar"
	NameArray      = "array"
	NameDictionary = "dictionary"
	NameCollection = "collection"
	NameEnumerable = "enumerable"
	NameObject     = "object"
)

type NodeDeserializer interface {
	Deserialize(req *Request) (claimed bool, err error)
}

type Func func(req *Request) (bool, error)

func (f Func) Deserialize(req *Request) (bool, error) {
	return f(req)
}

// Factory creates a strategy from the frozen configuration of a
// deserializer. It runs once per Build.
type Factory func(cfg options.Config) NodeDeserializer

type Registration struct {
	Name string
	New  Factory
}

// Defaults returns the default strategy chain.
func Defaults() []Registration {
	return []Registration{
		{NameCustom, func(options.Config) NodeDeserializer { return Custom{} }},
		{NameNull, func(options.Config) NodeDeserializer { return Null{} }},
		{NamePointer, func(options.Config) NodeDeserializer { return Pointer{} }},
		{NameScalar, func(cfg options.Config) NodeDeserializer { return NewScalar(cfg) }},
		{NameArray, func(options.Config) NodeDeserializer { return Array{} }},
		{NameDictionary, func(options.Config) NodeDeserializer { return Dictionary{} }},
		{NameCollection, func(options.Config) NodeDeserializer { return Collection{} }},
		{NameEnumerable, func(options.Config) NodeDeserializer { return Enumerable{} }},
		{NameObject, func(cfg options.Config) NodeDeserializer { return NewObject(cfg) }},
	}
}

// Completer is implemented by types that want a callback once the whole
// document, aliases included, has been constructed.
type Completer interface {
	DecodeCompleted() error
}

// Decoder runs the pipeline for the next node of the source into dst.
type Decoder func(dst reflect.Value, s *shape.Shape) error

// Request is what a strategy sees of the node it is offered.
type Request struct {
	Source  event.Source
	Event   event.Event // peeked, not consumed
	Shape   *shape.Shape
	Dst     reflect.Value // settable, of type Shape.Type
	Factory *ObjectFactory
	State   *alias.State
	Nested  Decoder

	// Inner decodes the node of this request again, into dst as s, leaving
	// its anchor bound to Dst.
	Inner Decoder
}

func (r *Request) Decode(dst reflect.Value, s *shape.Shape) error {
	return r.Nested(dst, s)
}

// Bind binds the node's anchor to Dst before its children are decoded, so
// that aliases inside the node observe the same instance.
func (r *Request) Bind() {
	if r.Event.Anchor != "" {
		r.State.Bind(r.Event.Anchor, r.Dst)
	}
}
