/*
Package dsl provides a fluent builder for defining facet classes.

It mirrors the define / add_property / save_class sequence of the object
model as a chain, deferring every error to Build (or Save) so definitions
read top to bottom:

	b := dsl.New("slider", func() any { return &Slider{} })

	b.Property("value").
		Type(schema.Float()).
		Getter(getValue).
		Setter(setValue).
		Doc("Current position")

	b.Property("range").
		Getter(getRange)

	class, err := b.Save(registry)

Declaring the same property twice is reported by Build as
domain.ErrDuplicateProperty; the first declaration is the one kept.
*/
package dsl
