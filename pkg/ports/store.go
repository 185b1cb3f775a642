package ports

import "github.com/aretw0/facet/pkg/object"

// ClassStore keeps finalized classes under unique names.
type ClassStore interface {
	// Save registers a class under its name and seals it.
	// Returns domain.ErrDuplicateClass if the name is taken.
	Save(c *object.Class) error

	// Lookup retrieves a class by name.
	// Returns domain.ErrUnknownClass if it was never saved.
	Lookup(name string) (*object.Class, error)

	// Names lists every saved class, sorted.
	Names() []string
}
