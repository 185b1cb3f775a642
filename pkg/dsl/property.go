package dsl

import (
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/schema"
)

// PropertyBuilder provides a fluent API for configuring a property.
type PropertyBuilder struct {
	prop    object.Property
	builder *Builder
}

// Getter sets the read accessor.
func (p *PropertyBuilder) Getter(fn object.Getter) *PropertyBuilder {
	p.prop.Get = fn
	return p
}

// Setter sets the write accessor.
func (p *PropertyBuilder) Setter(fn object.Setter) *PropertyBuilder {
	p.prop.Set = fn
	return p
}

// Default sets the fallback setter used when Setter rejects a value.
func (p *PropertyBuilder) Default(fn object.Setter) *PropertyBuilder {
	p.prop.Default = fn
	return p
}

// Type sets the expected value type checked before Setter runs.
func (p *PropertyBuilder) Type(t schema.Type) *PropertyBuilder {
	p.prop.Type = t
	return p
}

// Doc sets the description shown by introspection.
func (p *PropertyBuilder) Doc(doc string) *PropertyBuilder {
	p.prop.Doc = doc
	return p
}

// Property ends this declaration and starts the next one.
func (p *PropertyBuilder) Property(name string) *PropertyBuilder {
	return p.builder.Property(name)
}

// Done returns to the class builder.
func (p *PropertyBuilder) Done() *Builder {
	return p.builder
}
