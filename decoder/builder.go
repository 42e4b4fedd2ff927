package decoder

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"yaml-decoder/event"
	"yaml-decoder/internal/diagnostic"
	"yaml-decoder/internal/registry"
	"yaml-decoder/node"
	"yaml-decoder/options"
	"yaml-decoder/primitive"
	"yaml-decoder/resolver"
)

var (
	ErrBuilderConsumed    = errors.New("builder has already been built")
	ErrInvalidTypeMapping = errors.New("invalid type mapping")
	ErrInvalidOption      = errors.New("invalid option")
)

// Diagnostic codes reported by the Builder.
const (
	CodeRegistration = "registration"
	CodeMapping      = "mapping"
	CodeOption       = "option"
	CodeConsumed     = "consumed"
)

// Placement positions a registration relative to the existing ones.
type Placement = registry.Placement

var (
	Last    = registry.Last
	First   = registry.First
	Before  = registry.Before
	After   = registry.After
	Replace = registry.Replace
)

var (
	ErrDuplicateName = registry.ErrDuplicateName
	ErrUnknownName   = registry.ErrUnknownName
)

// ResolverFactory creates a type resolver from the frozen configuration.
type ResolverFactory func(cfg options.Config) resolver.TypeResolver

// Builder assembles a Deserializer. Mistakes are collected and reported by
// Build, so calls can be chained. A Builder builds once.
type Builder struct {
	strategies registry.List[node.Factory]
	resolvers  registry.List[ResolverFactory]

	tags       map[string]reflect.Type
	overrides  map[reflect.Type]reflect.Type
	converters map[reflect.Type]options.Converter

	cfg      options.Config
	diags    diagnostic.Diagnostics
	consumed bool
}

// NewBuilder returns a builder holding the default resolvers, strategies
// and core schema tags.
func NewBuilder() *Builder {
	b := &Builder{
		tags:       options.DefaultTags(),
		overrides:  map[reflect.Type]reflect.Type{},
		converters: map[reflect.Type]options.Converter{},
		cfg:        options.Default(),
	}

	for _, r := range node.Defaults() {
		b.WithNodeDeserializer(r.Name, r.New)
	}

	b.WithTypeResolver(resolver.NameStructural, func(cfg options.Config) resolver.TypeResolver {
		return resolver.NewStructural(cfg)
	})
	b.WithTypeResolver(resolver.NameTag, func(cfg options.Config) resolver.TypeResolver {
		return resolver.NewTag(cfg)
	})
	b.WithTypeResolver(resolver.NameCapability, func(options.Config) resolver.TypeResolver {
		return resolver.Capability{}
	})
	b.WithTypeResolver(resolver.NameUnknownTag, func(cfg options.Config) resolver.TypeResolver {
		return resolver.NewUnknownTag(cfg)
	})

	return b
}

func (b *Builder) usable() bool {
	if b.consumed {
		b.diags.AddError(CodeConsumed, "", ErrBuilderConsumed)
		return false
	}

	return true
}

func (b *Builder) check(subject string, err error) *Builder {
	if err != nil {
		b.diags.AddError(CodeRegistration, subject, err)
	}

	return b
}

// WithNodeDeserializer registers a strategy under name. Without a placement
// it is tried last.
func (b *Builder) WithNodeDeserializer(name string, f node.Factory, placement ...Placement) *Builder {
	if !b.usable() {
		return b
	}

	return b.check(name, b.strategies.Add(name, f, placement...))
}

func (b *Builder) WithoutNodeDeserializer(name string) *Builder {
	if !b.usable() {
		return b
	}

	return b.check(name, b.strategies.Remove(name))
}

// WithTypeResolver registers a resolver under name. Without a placement it
// runs last.
func (b *Builder) WithTypeResolver(name string, f ResolverFactory, placement ...Placement) *Builder {
	if !b.usable() {
		return b
	}

	return b.check(name, b.resolvers.Add(name, f, placement...))
}

func (b *Builder) WithoutTypeResolver(name string) *Builder {
	if !b.usable() {
		return b
	}

	return b.check(name, b.resolvers.Remove(name))
}

// WithTagMapping makes nodes tagged tag decode as t. Shorthand tags such as
// !!map are expanded.
func (b *Builder) WithTagMapping(tag string, t reflect.Type) *Builder {
	if !b.usable() {
		return b
	}

	if tag == "" || t == nil {
		b.diags.AddError(CodeMapping, tag, fmt.Errorf("%w: tag and type are required", ErrInvalidTypeMapping))
		return b
	}

	tag = event.ExpandTag(tag)
	if prev, ok := b.tags[tag]; ok && prev != t {
		b.diags.AddWarning(CodeMapping, tag, fmt.Sprintf("replaces %s with %s", prev, t))
	}

	b.tags[tag] = t

	return b
}

// WithTypeMapping makes targets of type from instantiate as to. An
// interface can only be mapped to one of its implementations.
func (b *Builder) WithTypeMapping(from, to reflect.Type) *Builder {
	if !b.usable() {
		return b
	}

	if from == nil || to == nil {
		b.diags.AddError(CodeMapping, "", fmt.Errorf("%w: both types are required", ErrInvalidTypeMapping))
		return b
	}

	if from.Kind() == reflect.Interface && !to.Implements(from) {
		b.diags.AddError(CodeMapping, from.String(), fmt.Errorf("%w: %s does not implement %s", ErrInvalidTypeMapping, to, from))
		return b
	}

	if from.Kind() != reflect.Interface {
		b.diags.AddWarning(CodeMapping, from.String(), fmt.Sprintf("%s is concrete, aliases into it may not fit %s", from, to))
	}

	b.overrides[from] = to

	return b
}

// WithScalarConverter registers fn to build its result type from scalar
// text. See options.ParseConverter for the accepted signatures.
func (b *Builder) WithScalarConverter(fn any) *Builder {
	if !b.usable() {
		return b
	}

	conv, err := options.ParseConverter(fn)
	if err != nil {
		b.diags.AddError(CodeRegistration, fmt.Sprintf("%T", fn), err)
		return b
	}

	if _, ok := b.converters[conv.Dst]; ok {
		b.diags.AddWarning(CodeRegistration, conv.String(), "replaces an earlier converter for "+conv.Dst.String())
	}

	b.converters[conv.Dst] = conv

	return b
}

func (b *Builder) WithMaxDepth(depth int) *Builder {
	if !b.usable() {
		return b
	}

	if depth <= 0 {
		b.diags.AddError(CodeOption, "max depth", fmt.Errorf("%w: depth must be positive, got %d", ErrInvalidOption, depth))
		return b
	}

	b.cfg.MaxDepth = depth

	return b
}

// WithTimeLayouts replaces the timestamp layouts, tried in order.
func (b *Builder) WithTimeLayouts(layouts ...string) *Builder {
	if !b.usable() {
		return b
	}

	if len(layouts) == 0 {
		b.diags.AddError(CodeOption, "time layouts", fmt.Errorf("%w: at least one layout is required", ErrInvalidOption))
		return b
	}

	b.cfg.Coercer.TimeLayouts = slices.Clone(layouts)

	return b
}

// WithCategories selects the implicit typing rules of the coercion engine.
func (b *Builder) WithCategories(categories primitive.CategoryEnum) *Builder {
	if !b.usable() {
		return b
	}

	b.cfg.Coercer.Categories = categories

	return b
}

func (b *Builder) RejectUnknownTags(reject bool) *Builder {
	if !b.usable() {
		return b
	}

	b.cfg.RejectUnknownTags = reject

	return b
}

// IgnoreUnmatchedFields skips mapping keys no record field matches instead
// of failing.
func (b *Builder) IgnoreUnmatchedFields() *Builder {
	if !b.usable() {
		return b
	}

	b.cfg.IgnoreUnmatchedFields = true

	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if !b.usable() {
		return b
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	b.cfg.Logger = logger

	return b
}

// Build freezes the configuration and runs every registration factory.
// The builder cannot be used afterwards.
func (b *Builder) Build() (*Deserializer, error) {
	if !b.usable() {
		return nil, ErrBuilderConsumed
	}

	b.consumed = true

	if err := b.diags.Error(); err != nil {
		return nil, err
	}

	cfg := b.cfg.WithTables(b.tags, b.overrides, b.converters)

	for _, w := range b.diags.Warnings {
		cfg.Logger.Warn("builder warning", slog.String("code", w.Code), slog.String("subject", w.Subject), slog.String("message", w.Message))
	}

	if b.strategies.Len() == 0 {
		cfg.Logger.Warn("building a deserializer without node strategies")
	}

	p := &pipeline{
		factory:  node.NewObjectFactory(cfg),
		maxDepth: cfg.MaxDepth,
	}

	for _, f := range b.resolvers.All() {
		p.resolvers = append(p.resolvers, f(cfg))
	}

	for _, f := range b.strategies.All() {
		p.strategies = append(p.strategies, f(cfg))
	}

	cfg.Logger.Debug("built deserializer",
		slog.Any("resolvers", b.resolvers.Names()),
		slog.Any("strategies", b.strategies.Names()),
		slog.Int("max_depth", cfg.MaxDepth))

	return &Deserializer{pipeline: p, logger: cfg.Logger}, nil
}

// Strategies returns the names of the registered strategies, in order.
func (b *Builder) Strategies() []string {
	return b.strategies.Names()
}

// Resolvers returns the names of the registered resolvers, in order.
func (b *Builder) Resolvers() []string {
	return b.resolvers.Names()
}
