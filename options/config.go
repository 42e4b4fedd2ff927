// Package options holds the settings a deserializer is built with. A Config
// is a snapshot: its tables are copied when it is made and never change
// afterwards, so strategies may keep it for their whole life.
package options

import (
	"log/slog"
	"maps"
	"reflect"
	"time"

	"yaml-decoder/event"
	"yaml-decoder/primitive"
	"yaml-decoder/value"
)

const DefaultMaxDepth = 512

// DefaultTags returns the core schema tag table.
func DefaultTags() map[string]reflect.Type {
	return map[string]reflect.Type{
		event.CoreTagPrefix + "map":       reflect.TypeFor[*value.Mapping](),
		event.CoreTagPrefix + "seq":       reflect.TypeFor[*value.Sequence](),
		event.CoreTagPrefix + "str":       reflect.TypeFor[string](),
		event.CoreTagPrefix + "bool":      reflect.TypeFor[bool](),
		event.CoreTagPrefix + "float":     reflect.TypeFor[float64](),
		event.CoreTagPrefix + "int":       reflect.TypeFor[int64](),
		event.CoreTagPrefix + "timestamp": reflect.TypeFor[time.Time](),
		event.CoreTagPrefix + "null":      reflect.TypeFor[value.Value](),
		"!":                               reflect.TypeFor[string](),
	}
}

type Config struct {
	Coercer               primitive.Coercer
	MaxDepth              int
	RejectUnknownTags     bool
	IgnoreUnmatchedFields bool
	Logger                *slog.Logger

	tags       map[string]reflect.Type
	overrides  map[reflect.Type]reflect.Type
	converters map[reflect.Type]Converter
}

// Default returns the configuration of a builder nobody customized.
func Default() Config {
	return Config{
		Coercer:           primitive.NewCoercer(),
		MaxDepth:          DefaultMaxDepth,
		RejectUnknownTags: true,
		Logger:            slog.New(slog.DiscardHandler),
		tags:              DefaultTags(),
	}
}

// WithTables returns a copy of c using copies of the given tables.
func (c Config) WithTables(
	tags map[string]reflect.Type,
	overrides map[reflect.Type]reflect.Type,
	converters map[reflect.Type]Converter,
) Config {
	c.tags = maps.Clone(tags)
	c.overrides = maps.Clone(overrides)
	c.converters = maps.Clone(converters)

	return c
}

func (c Config) TagType(tag string) (reflect.Type, bool) {
	t, ok := c.tags[tag]
	return t, ok
}

// Override returns the type registered to stand in for t, or t itself.
func (c Config) Override(t reflect.Type) reflect.Type {
	if o, ok := c.overrides[t]; ok {
		return o
	}

	return t
}

func (c Config) Converter(t reflect.Type) (Converter, bool) {
	conv, ok := c.converters[t]
	return conv, ok
}

// Tags returns a copy of the tag table.
func (c Config) Tags() map[string]reflect.Type {
	return maps.Clone(c.tags)
}
