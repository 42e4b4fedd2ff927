// Package event defines the parsed-document event stream consumed by the
// decoder, the pull interface over it, and an adapter that produces events
// from YAML text using gopkg.in/yaml.v3.
//
// Events arrive strictly in document order and are never replayed:
//
//	StreamStart
//	  DocumentStart
//	    MappingStart(anchor, tag)
//	      Scalar("name") Scalar("value")
//	      Scalar("self") Alias("anchor")
//	    MappingEnd
//	  DocumentEnd
//	StreamEnd
package event

import "fmt"

//go:generate go tool stringer -type=Kind -output=kind_string.go

// Kind identifies the type of an Event.
type Kind int

const (
	_ Kind = iota // zero value is not a valid event kind

	KindStreamStart
	KindStreamEnd
	KindDocumentStart
	KindDocumentEnd
	KindScalar
	KindSequenceStart
	KindSequenceEnd
	KindMappingStart
	KindMappingEnd
	KindAlias

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// IsNodeStart reports whether the kind opens a node: a scalar, an alias or
// the start of a collection.
func (k Kind) IsNodeStart() bool {
	switch k {
	default:
		return false
	case KindScalar, KindAlias, KindSequenceStart, KindMappingStart:
		return true
	}
}

// End returns the matching end kind for a start kind, or zero.
func (k Kind) End() Kind {
	switch k {
	default:
		return 0
	case KindStreamStart:
		return KindStreamEnd
	case KindDocumentStart:
		return KindDocumentEnd
	case KindSequenceStart:
		return KindSequenceEnd
	case KindMappingStart:
		return KindMappingEnd
	}
}

// Style is the presentation style of a scalar or collection.
type Style int

const (
	StylePlain Style = iota
	StyleSingleQuoted
	StyleDoubleQuoted
	StyleLiteral
	StyleFolded
	StyleFlow
)

// Mark is a 1-based position in the source text. The zero Mark means the
// position is unknown.
type Mark struct {
	Line   int
	Column int
}

// IsZero reports whether the mark carries no position.
func (m Mark) IsZero() bool {
	return m.Line == 0 && m.Column == 0
}

func (m Mark) String() string {
	if m.IsZero() {
		return "-"
	}

	return fmt.Sprintf("%d:%d", m.Line, m.Column)
}

// Event is a single item of the parsed document stream.
type Event struct {
	Kind Kind
	// Anchor is set on node start events that introduce an anchor.
	Anchor string
	// Tag is the explicit, fully expanded tag of a node start event.
	Tag string
	// Value holds the scalar text, or the referenced anchor for aliases.
	Value string
	Style Style
	Start Mark
}

// Scalar returns a plain scalar event.
func Scalar(text string) Event {
	return Event{Kind: KindScalar, Value: text}
}

// Quoted returns a double-quoted scalar event.
func Quoted(text string) Event {
	return Event{Kind: KindScalar, Value: text, Style: StyleDoubleQuoted}
}

// Alias returns an alias event referencing anchor.
func Alias(anchor string) Event {
	return Event{Kind: KindAlias, Value: anchor}
}

// Anchored returns a copy of e carrying anchor.
func (e Event) Anchored(anchor string) Event {
	e.Anchor = anchor
	return e
}

// Tagged returns a copy of e carrying tag.
func (e Event) Tagged(tag string) Event {
	e.Tag = tag
	return e
}

func (e Event) String() string {
	switch e.Kind {
	case KindScalar:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Value)
	case KindAlias:
		return fmt.Sprintf("%s(*%s)", e.Kind, e.Value)
	default:
		return e.Kind.String()
	}
}
