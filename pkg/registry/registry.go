// Package registry keeps classes under unique names so they can be saved
// once and looked up for reuse by other components.
package registry

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/ports"
)

var _ ports.ClassStore = (*Registry)(nil)

// Registry manages the saved classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*object.Class
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithHooks sets the hooks attached to every saved class that has none.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Registry) {
		r.hooks = hooks
	}
}

// WithLogger sets the logger attached to every saved class.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		classes: make(map[string]*object.Class),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return r
}

// Define creates an empty class named name. It fails with
// domain.ErrDuplicateClass when the name is already saved. The class is not
// registered until Save, so properties can still be added to it.
func (r *Registry) Define(name string, allocator object.Allocator, opts ...object.ClassOption) (*object.Class, error) {
	if r.Has(name) {
		return nil, domain.NewError(domain.OpDefine, name, name, domain.ErrDuplicateClass)
	}
	return object.NewClass(name, allocator, opts...)
}

// Save registers c under its name and seals its property table.
// Saving the same name twice fails with domain.ErrDuplicateClass.
func (r *Registry) Save(c *object.Class) error {
	if c == nil {
		return fmt.Errorf("registry: nil class")
	}
	name := c.Name()

	r.mu.Lock()
	if _, exists := r.classes[name]; exists {
		r.mu.Unlock()
		return domain.NewError(domain.OpDefine, name, name, domain.ErrDuplicateClass)
	}
	r.classes[name] = c
	r.mu.Unlock()

	c.Attach(r.hooks, r.logger)
	c.Seal()
	r.logger.Debug("class saved", "class", name, "properties", len(c.Properties()))
	return nil
}

// Lookup returns the class saved under name.
func (r *Registry) Lookup(name string) (*object.Class, error) {
	r.mu.RLock()
	c, ok := r.classes[name]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.NewError(domain.OpInstantiate, name, name, domain.ErrUnknownClass)
	}
	return c, nil
}

// Has reports whether name is taken.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[name]
	return ok
}

// Names lists the saved classes, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate looks up a class by name and instantiates it.
func (r *Registry) Instantiate(name string, args ...any) (*object.Object, error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.Instantiate(args...)
}
