package object

import (
	"fmt"

	"github.com/aretw0/facet/pkg/schema"
)

// Getter reads a property from an object.
type Getter func(o *Object) (any, error)

// Setter writes a property on an object. A setter that does not accept the
// shape of v must return an error wrapping domain.ErrTypeMismatch and leave
// the object untouched.
type Setter func(o *Object, v any) error

// Property describes the access rules of one named attribute.
type Property struct {
	Name string
	// Get is nil for write-only properties.
	Get Getter
	// Set is nil for read-only properties.
	Set Setter
	// Default runs when Set (or Type) rejects a value as mismatched.
	Default Setter
	// Type, when set, is checked before Set is invoked.
	Type schema.Type
	// Doc is a one-line description used by introspection.
	Doc string
}

// Readable reports whether the property has a getter.
func (p Property) Readable() bool { return p.Get != nil }

// Writable reports whether the property has a setter.
func (p Property) Writable() bool { return p.Set != nil }

// Access returns "rw", "r" or "w".
func (p Property) Access() string {
	switch {
	case p.Readable() && p.Writable():
		return "rw"
	case p.Readable():
		return "r"
	case p.Writable():
		return "w"
	default:
		return "-"
	}
}

func (p Property) validate() error {
	if p.Name == "" {
		return fmt.Errorf("property name is required")
	}
	if p.Default != nil && p.Set == nil {
		return fmt.Errorf("property %q: default setter requires a setter", p.Name)
	}
	return nil
}

// Field builds a read-write property over a field of a typed payload.
// The setter accepts only values of type V; anything else is a type
// mismatch, which lets Default (if provided) coerce it.
//
//	object.Field("button",
//		func(s *State) int64 { return s.Button },
//		func(s *State, v int64) { s.Button = v })
func Field[T, V any](name string, get func(*T) V, set func(*T, V)) Property {
	p := Property{Name: name}
	if get != nil {
		p.Get = func(o *Object) (any, error) {
			data, err := Data[T](o)
			if err != nil {
				return nil, err
			}
			return get(data), nil
		}
	}
	if set != nil {
		p.Set = func(o *Object, v any) error {
			data, err := Data[T](o)
			if err != nil {
				return err
			}
			typed, ok := v.(V)
			if !ok {
				var zero V
				return mismatchf("expected %T, got %T", zero, v)
			}
			set(data, typed)
			return nil
		}
	}
	return p
}
