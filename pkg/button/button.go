// Package button defines the "button" class: a mouse button code plus the
// keyboard modifiers that must be held with it.
//
// From a script:
//
//	b = button({ button = 1, modifiers = { "Mod4" } })
//	b.connect_signal("press", function(b) ... end)
//	b.button = 3
package button

import (
	"fmt"
	"math"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/dsl"
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/ports"
	"github.com/aretw0/facet/pkg/schema"
)

// ClassName is the name the class is saved under.
const ClassName = "button"

// State is the payload of a button object.
type State struct {
	Button    uint32
	Modifiers KeyMod
}

func (s *State) String() string {
	return fmt.Sprintf("Button: %d (%s)", s.Button, s.Modifiers)
}

// Of returns the button payload of o.
func Of(o *object.Object) (*State, error) {
	return object.Data[State](o)
}

func allocate() any {
	return &State{}
}

// Define builds the button class and saves it in store.
func Define(store ports.ClassStore, opts ...object.ClassOption) (*object.Class, error) {
	b := dsl.New(ClassName, allocate, object.WithCallHandler(object.ApplyProperties)).
		With(opts...)

	b.Property("button").
		Type(schema.Int()).
		Getter(getButton).
		Setter(setButton).
		Default(resetButton).
		Doc("Mouse button code; non-numeric values reset it to 0").
		Property("modifiers").
		Type(schema.Slice(schema.String())).
		Getter(getModifiers).
		Setter(setModifiers).
		Default(coerceModifiers).
		Doc("Modifier names held with the button, e.g. {\"Shift\", \"Mod4\"}")

	return b.Save(store)
}

func getButton(o *object.Object) (any, error) {
	s, err := Of(o)
	if err != nil {
		return nil, err
	}
	return int64(s.Button), nil
}

// setButton accepts exact integers in the button range only.
func setButton(o *object.Object, v any) error {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		if uint64(x) > math.MaxUint32 {
			return fmt.Errorf("%w: button %d out of range", domain.ErrTypeMismatch, x)
		}
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxUint32 {
			return fmt.Errorf("%w: button %d out of range", domain.ErrTypeMismatch, x)
		}
		n = int64(x)
	default:
		return fmt.Errorf("%w: button expects an integer, got %T", domain.ErrTypeMismatch, v)
	}
	if n < 0 || n > math.MaxUint32 {
		return fmt.Errorf("%w: button %d out of range", domain.ErrTypeMismatch, n)
	}
	s, err := Of(o)
	if err != nil {
		return err
	}
	s.Button = uint32(n)
	return nil
}

// resetButton truncates numeric values and resets everything else to 0.
func resetButton(o *object.Object, v any) error {
	s, err := Of(o)
	if err != nil {
		return err
	}
	s.Button = 0
	if f, ok := v.(float64); ok && f >= 0 && f <= math.MaxUint32 {
		s.Button = uint32(f)
	}
	return nil
}

func getModifiers(o *object.Object) (any, error) {
	s, err := Of(o)
	if err != nil {
		return nil, err
	}
	return s.Modifiers.Names(), nil
}

func setModifiers(o *object.Object, v any) error {
	list, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%w: modifiers expects a list, got %T", domain.ErrTypeMismatch, v)
	}
	mask, err := ParseModifiers(list)
	if err != nil {
		return err
	}
	s, err := Of(o)
	if err != nil {
		return err
	}
	s.Modifiers = mask
	return nil
}

// coerceModifiers clears the mask for nil and accepts a single name or a
// list of names otherwise.
func coerceModifiers(o *object.Object, v any) error {
	s, err := Of(o)
	if err != nil {
		return err
	}
	if v == nil {
		s.Modifiers = ModNone
		return nil
	}
	raw, err := schema.Slice(schema.String()).Coerce(v)
	if err != nil {
		return err
	}
	mask, err := ParseModifiers(raw.([]any))
	if err != nil {
		return err
	}
	s.Modifiers = mask
	return nil
}
