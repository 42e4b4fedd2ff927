package event

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// CoreTagPrefix is the namespace of the YAML core schema tags.
const CoreTagPrefix = "tag:yaml.org,2002:"

// ErrUnknownAnchor reports an alias the YAML parser found no anchor for.
var ErrUnknownAnchor = errors.New("unknown anchor")

// UnknownAnchorError locates an alias whose anchor is not defined before it.
type UnknownAnchorError struct {
	Anchor string
	Mark   Mark
}

func (e *UnknownAnchorError) Error() string {
	return fmt.Sprintf("%s: %v *%s", e.Mark, ErrUnknownAnchor, e.Anchor)
}

func (e *UnknownAnchorError) Unwrap() error {
	return ErrUnknownAnchor
}

// yaml.v3 reports unknown anchors as plain text without a position.
var unknownAnchorMessage = regexp.MustCompile(`unknown anchor '([^']*)' referenced`)

// FromYAML parses every document in data and returns the resulting event
// stream, wrapped in stream start and end events.
//
// Only explicit tags are reported; tags the YAML resolver infers for plain
// scalars are left empty so that implicit typing stays with the decoder.
func FromYAML(data []byte) (*Stream, error) {
	w := walker{events: []Event{{Kind: KindStreamStart, Start: Mark{Line: 1, Column: 1}}}}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			if m := unknownAnchorMessage.FindStringSubmatch(err.Error()); m != nil {
				return nil, &UnknownAnchorError{Anchor: m[1], Mark: aliasMark(data, m[1])}
			}

			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}

		w.document(&doc)
	}

	w.emit(Event{Kind: KindStreamEnd})

	return NewStream(w.events...), nil
}

// aliasMark finds the first "*anchor" reference in data. It returns the zero
// Mark when there is none.
func aliasMark(data []byte, anchor string) Mark {
	re := regexp.MustCompile(`\*` + regexp.QuoteMeta(anchor) + `(?:[\s,\]}]|$)`)

	loc := re.FindIndex(data)
	if loc == nil {
		return Mark{}
	}

	before := data[:loc[0]]
	line := bytes.Count(before, []byte("\n")) + 1
	column := utf8.RuneCount(before[bytes.LastIndexByte(before, '\n')+1:]) + 1

	return Mark{Line: line, Column: column}
}

// ExpandTag turns a "!!suffix" shorthand into its core schema form. Other
// tags are returned unchanged.
func ExpandTag(tag string) string {
	if suffix, ok := strings.CutPrefix(tag, "!!"); ok {
		return CoreTagPrefix + suffix
	}

	return tag
}

type walker struct {
	events []Event
}

func (w *walker) emit(ev Event) {
	w.events = append(w.events, ev)
}

func (w *walker) document(doc *yaml.Node) {
	w.emit(Event{Kind: KindDocumentStart, Start: markOf(doc)})

	for _, child := range doc.Content {
		w.node(child)
	}

	w.emit(Event{Kind: KindDocumentEnd})
}

func (w *walker) node(n *yaml.Node) {
	ev := Event{
		Anchor: n.Anchor,
		Tag:    explicitTag(n),
		Style:  styleOf(n.Style),
		Start:  markOf(n),
	}

	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			w.node(child)
		}

	case yaml.ScalarNode:
		ev.Kind = KindScalar
		ev.Value = n.Value
		w.emit(ev)

	case yaml.AliasNode:
		w.emit(Event{Kind: KindAlias, Value: n.Value, Start: ev.Start})

	case yaml.SequenceNode:
		ev.Kind = KindSequenceStart
		w.emit(ev)

		for _, child := range n.Content {
			w.node(child)
		}

		w.emit(Event{Kind: KindSequenceEnd})

	case yaml.MappingNode:
		ev.Kind = KindMappingStart
		w.emit(ev)

		for _, child := range n.Content {
			w.node(child)
		}

		w.emit(Event{Kind: KindMappingEnd})
	}
}

func explicitTag(n *yaml.Node) string {
	if n.Style&yaml.TaggedStyle == 0 {
		return ""
	}

	return ExpandTag(n.Tag)
}

func styleOf(s yaml.Style) Style {
	switch {
	case s&yaml.DoubleQuotedStyle != 0:
		return StyleDoubleQuoted
	case s&yaml.SingleQuotedStyle != 0:
		return StyleSingleQuoted
	case s&yaml.LiteralStyle != 0:
		return StyleLiteral
	case s&yaml.FoldedStyle != 0:
		return StyleFolded
	case s&yaml.FlowStyle != 0:
		return StyleFlow
	default:
		return StylePlain
	}
}

func markOf(n *yaml.Node) Mark {
	return Mark{Line: n.Line, Column: n.Column}
}
