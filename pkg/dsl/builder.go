package dsl

import (
	"fmt"

	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/ports"
)

// Builder manages the class construction.
type Builder struct {
	name       string
	allocator  object.Allocator
	opts       []object.ClassOption
	properties []*PropertyBuilder
}

// New starts a class definition.
func New(name string, allocator object.Allocator, opts ...object.ClassOption) *Builder {
	return &Builder{
		name:      name,
		allocator: allocator,
		opts:      opts,
	}
}

// With appends class options (parent, call handler, hooks...).
func (b *Builder) With(opts ...object.ClassOption) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Add declares a ready-made property descriptor.
func (b *Builder) Add(p object.Property) *Builder {
	b.properties = append(b.properties, &PropertyBuilder{prop: p, builder: b})
	return b
}

// Property starts a new property declaration.
func (b *Builder) Property(name string) *PropertyBuilder {
	pb := &PropertyBuilder{prop: object.Property{Name: name}, builder: b}
	b.properties = append(b.properties, pb)
	return pb
}

// Build compiles the definition into a class. The first failing property
// declaration aborts the build.
func (b *Builder) Build() (*object.Class, error) {
	c, err := object.NewClass(b.name, b.allocator, b.opts...)
	if err != nil {
		return nil, err
	}
	for _, pb := range b.properties {
		if err := c.AddProperty(pb.prop); err != nil {
			return nil, fmt.Errorf("failed to build class %s: %w", b.name, err)
		}
	}
	return c, nil
}

// Save builds the class and saves it in store.
func (b *Builder) Save(store ports.ClassStore) (*object.Class, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := store.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}
