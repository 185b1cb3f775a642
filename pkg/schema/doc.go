// Package schema describes the value types a property accepts.
//
// Dynamic callers (scripting layers) hand the host loosely typed values: a
// Lua number may arrive as an int64 or a float64, a flag as a string. A Type
// answers two questions about such a value:
//
//   - Validate: is the value already acceptable as-is?
//   - Coerce: can it be converted to the canonical Go representation?
//
// Properties use Validate for their strict setter and Coerce for their
// default setter, which keeps the try-set / fallback-set split explicit:
//
//	t := schema.Int()
//	t.Validate(int64(3))   // nil
//	t.Validate(2.5)        // error: not a whole number
//	v, _ := t.Coerce(2.5)  // int64(2)
//
// Type names can be parsed from strings, which is how manifests declare them:
//
//	t, err := schema.ParseType("[string]")
//
// Coercion is backed by github.com/mitchellh/mapstructure weak decoding.
package schema
