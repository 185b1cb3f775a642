package object

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/google/uuid"
)

// Allocator produces the initial payload of a new object.
type Allocator func() any

// CallHandler runs when a class is used as a factory, after allocation.
type CallHandler func(o *Object, args []any) error

// IndexMissHandler resolves reads of undeclared keys.
type IndexMissHandler func(o *Object, key string) (any, error)

// NewIndexMissHandler resolves writes of undeclared keys.
type NewIndexMissHandler func(o *Object, key string, v any) error

// Finalizer runs once when an object is destroyed.
type Finalizer func(o *Object)

// Class is a shared, long-lived entity definition.
// The property table and miss handlers are guarded for single-writer /
// many-reader access; objects only ever read them.
type Class struct {
	name      string
	allocator Allocator
	parent    *Class
	call      CallHandler
	finalizer Finalizer

	mu         sync.RWMutex
	properties []*Property
	index      map[string]*Property
	indexMiss  IndexMissHandler
	newMiss    NewIndexMissHandler
	sealed     bool
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	ownLogger  bool
}

// ClassOption configures a Class at definition time.
type ClassOption func(*Class)

// WithParent links a base class. The chain is used for IsA checks and for
// resolving properties the class does not declare itself. Parents are fixed
// at definition, so a chain can never loop.
func WithParent(parent *Class) ClassOption {
	return func(c *Class) {
		c.parent = parent
	}
}

// WithCallHandler sets the constructor invoked by Instantiate.
func WithCallHandler(fn CallHandler) ClassOption {
	return func(c *Class) {
		c.call = fn
	}
}

// WithFinalizer sets the destruction hook.
func WithFinalizer(fn Finalizer) ClassOption {
	return func(c *Class) {
		c.finalizer = fn
	}
}

// WithIndexMissHandler installs the initial index-miss handler.
func WithIndexMissHandler(fn IndexMissHandler) ClassOption {
	return func(c *Class) {
		c.indexMiss = fn
	}
}

// WithNewIndexMissHandler installs the initial write-miss handler.
func WithNewIndexMissHandler(fn NewIndexMissHandler) ClassOption {
	return func(c *Class) {
		c.newMiss = fn
	}
}

// WithHooks registers observability hooks for every object of the class.
func WithHooks(hooks domain.LifecycleHooks) ClassOption {
	return func(c *Class) {
		c.hooks = hooks
	}
}

// WithLogger sets a structured logger for the class.
func WithLogger(logger *slog.Logger) ClassOption {
	return func(c *Class) {
		c.logger = logger
	}
}

// NewClass defines an empty class.
// A nil allocator yields objects with a nil payload.
func NewClass(name string, allocator Allocator, opts ...ClassOption) (*Class, error) {
	if name == "" {
		return nil, domain.NewError(domain.OpDefine, "", "", fmt.Errorf("class name is required"))
	}
	c := &Class{
		name:      name,
		allocator: allocator,
		index:     make(map[string]*Property),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ownLogger = c.logger != nil
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("class", name)
	return c, nil
}

// Name returns the declared class name.
func (c *Class) Name() string { return c.name }

// Parent returns the base class, or nil.
func (c *Class) Parent() *Class { return c.parent }

// IsA reports whether c is other or descends from it.
func (c *Class) IsA(other *Class) bool {
	for k := c; k != nil; k = k.parent {
		if k == other {
			return true
		}
	}
	return false
}

// AddProperty declares a property. The first declaration of a name wins;
// redeclaring it fails with domain.ErrDuplicateProperty.
func (c *Class) AddProperty(p Property) error {
	if err := p.validate(); err != nil {
		return domain.NewError(domain.OpAddProperty, c.name, p.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[p.Name]; exists {
		return domain.NewError(domain.OpAddProperty, c.name, p.Name, domain.ErrDuplicateProperty)
	}
	if c.sealed {
		return domain.NewError(domain.OpAddProperty, c.name, p.Name, domain.ErrClassSealed)
	}

	stored := p
	c.properties = append(c.properties, &stored)
	c.index[p.Name] = &stored
	return nil
}

// Seal freezes the property table. Registries seal classes when saving them.
func (c *Class) Seal() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()
}

// Sealed reports whether the property table is frozen.
func (c *Class) Sealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sealed
}

// Properties returns the class's own descriptors in declaration order.
func (c *Class) Properties() []Property {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Property, len(c.properties))
	for i, p := range c.properties {
		out[i] = *p
	}
	return out
}

// Lookup resolves a property along the parent chain. The nearest class
// declaring the name wins.
func (c *Class) Lookup(name string) (Property, bool) {
	for k := c; k != nil; k = k.parent {
		k.mu.RLock()
		p, ok := k.index[name]
		k.mu.RUnlock()
		if ok {
			return *p, true
		}
	}
	return Property{}, false
}

// SetIndexMissHandler replaces the read fallback. It takes effect for every
// existing and future instance. A nil handler clears it.
func (c *Class) SetIndexMissHandler(fn IndexMissHandler) {
	c.mu.Lock()
	c.indexMiss = fn
	c.mu.Unlock()
	c.logger.Debug("index miss handler replaced", "set", fn != nil)
}

// SetNewIndexMissHandler replaces the write fallback.
func (c *Class) SetNewIndexMissHandler(fn NewIndexMissHandler) {
	c.mu.Lock()
	c.newMiss = fn
	c.mu.Unlock()
	c.logger.Debug("newindex miss handler replaced", "set", fn != nil)
}

// indexMissHandler returns the nearest read fallback along the chain.
func (c *Class) indexMissHandler() IndexMissHandler {
	for k := c; k != nil; k = k.parent {
		k.mu.RLock()
		fn := k.indexMiss
		k.mu.RUnlock()
		if fn != nil {
			return fn
		}
	}
	return nil
}

func (c *Class) newIndexMissHandler() NewIndexMissHandler {
	for k := c; k != nil; k = k.parent {
		k.mu.RLock()
		fn := k.newMiss
		k.mu.RUnlock()
		if fn != nil {
			return fn
		}
	}
	return nil
}

// Hooks returns the lifecycle hooks of the class.
func (c *Class) Hooks() domain.LifecycleHooks {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hooks
}

// Attach sets hooks and logger on a class that has none of its own.
// Registries use it to propagate their defaults.
func (c *Class) Attach(hooks domain.LifecycleHooks, logger *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hooks.Empty() {
		c.hooks = hooks
	}
	if logger != nil && !c.ownLogger {
		c.logger = logger.With("class", c.name)
	}
}

// Instantiate allocates a new object and runs the call handler, if any,
// with the given arguments.
func (c *Class) Instantiate(args ...any) (*Object, error) {
	var data any
	if c.allocator != nil {
		data = c.allocator()
	}
	o := &Object{
		id:      uuid.New(),
		class:   c,
		data:    data,
		signals: make(map[string][]Callback),
	}

	if c.call != nil {
		if err := c.call(o, args); err != nil {
			return nil, domain.NewError(domain.OpInstantiate, c.name, "", err)
		}
	}

	if h := c.Hooks().OnInstantiate; h != nil {
		h(&domain.ObjectEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventInstantiate, Class: c.name},
			Object:    o.ID(),
			Args:      len(args),
		})
	}
	c.logger.Debug("object instantiated", "object", o.ID(), "args", len(args))
	return o, nil
}

// ApplyProperties is a CallHandler that treats a leading map argument as
// initial property values: Class(map[string]any{"button": 1}).
// Keys are applied in sorted order through the regular dispatcher.
func ApplyProperties(o *Object, args []any) error {
	if len(args) == 0 {
		return nil
	}
	init, ok := args[0].(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range sortedKeys(init) {
		if err := o.Set(key, init[key]); err != nil {
			return err
		}
	}
	return nil
}
