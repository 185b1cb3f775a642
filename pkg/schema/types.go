package schema

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Type defines the contract for property value types.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type without conversion.
	// Failures wrap domain.ErrTypeMismatch.
	Validate(value any) error
	// Coerce converts a loosely typed value into the canonical representation.
	// Failures wrap domain.ErrTypeMismatch.
	Coerce(value any) (any, error)
	// Zero returns the canonical zero value.
	Zero() any
}

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrTypeMismatch}, args...)...)
}

// decode runs a weakly typed mapstructure decode into out.
func decode(value any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(value); err != nil {
		return mismatch("%v", err)
	}
	return nil
}

// --- Built-in Type Implementations ---

// StringType accepts string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }
func (t *StringType) Zero() any    { return "" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return mismatch("expected string, got %T", value)
	}
	return nil
}

func (t *StringType) Coerce(value any) (any, error) {
	var out string
	if err := decode(value, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IntType accepts integer values. Whole floats are valid as-is, since
// dynamic callers often cannot tell the two apart.
type IntType struct{}

func (t *IntType) Name() string { return "int" }
func (t *IntType) Zero() any    { return int64(0) }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return nil
	case uint64:
		if v > math.MaxInt64 {
			return mismatch("expected int, got uint64 %d (overflows int64)", v)
		}
		return nil
	case float64:
		if v == float64(int64(v)) {
			return nil
		}
		return mismatch("expected int, got float (not a whole number)")
	default:
		return mismatch("expected int, got %T", value)
	}
}

// Coerce truncates floats and parses numeric strings.
func (t *IntType) Coerce(value any) (any, error) {
	var out int64
	if err := decode(value, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FloatType accepts floating-point and integer values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }
func (t *FloatType) Zero() any    { return float64(0) }

func (t *FloatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return mismatch("expected float, got %T", value)
	}
}

func (t *FloatType) Coerce(value any) (any, error) {
	var out float64
	if err := decode(value, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BoolType accepts boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }
func (t *BoolType) Zero() any    { return false }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return mismatch("expected bool, got %T", value)
	}
	return nil
}

func (t *BoolType) Coerce(value any) (any, error) {
	var out bool
	if err := decode(value, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnyType accepts every value, including nil.
type AnyType struct{}

func (t *AnyType) Name() string                  { return "any" }
func (t *AnyType) Zero() any                     { return nil }
func (t *AnyType) Validate(any) error            { return nil }
func (t *AnyType) Coerce(value any) (any, error) { return value, nil }

// SliceType accepts sequences whose elements match elemType.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Zero() any { return []any{} }

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return mismatch("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elemType.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// Coerce accepts any sequence (a lone value becomes a one-element slice)
// and coerces every element.
func (t *SliceType) Coerce(value any) (any, error) {
	var raw []any
	if err := decode(value, &raw); err != nil {
		return nil, err
	}
	out := make([]any, len(raw))
	for i, elem := range raw {
		v, err := t.elemType.Coerce(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// CustomType applies a user-defined validation function.
// Its Coerce only succeeds for values that already validate.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }
func (t *CustomType) Zero() any    { return nil }

func (t *CustomType) Validate(value any) error {
	if err := t.validate(value); err != nil {
		return mismatch("%s: %v", t.name, err)
	}
	return nil
}

func (t *CustomType) Coerce(value any) (any, error) {
	if err := t.Validate(value); err != nil {
		return nil, err
	}
	return value, nil
}

// --- Factory Functions ---

// String creates a string type.
func String() Type { return &StringType{} }

// Int creates an integer type.
func Int() Type { return &IntType{} }

// Float creates a float type.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// Any creates a type that accepts everything.
func Any() Type { return &AnyType{} }

// Slice creates a slice type for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Custom creates a type with a user-defined validation function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType converts a type name to a Type.
// Supports "string", "int", "float", "bool", "any" and "[T]" for any of them.
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int", "integer":
		return Int(), nil
	case "float", "number":
		return Float(), nil
	case "bool", "boolean":
		return Bool(), nil
	case "any", "":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}
