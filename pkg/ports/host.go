package ports

import "github.com/aretw0/facet/pkg/object"

// ScriptHost is the embedding scripting environment. It calls into the
// object model with caller-supplied arguments and converts values in both
// directions.
type ScriptHost interface {
	// Expose makes a class callable by name from scripts.
	Expose(c *object.Class) error

	// SetGlobal binds a host value (including *object.Object) to a global name.
	SetGlobal(name string, value any) error

	// DoString runs a script chunk.
	DoString(src string) error

	// Close releases the environment.
	Close()
}
