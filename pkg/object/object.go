package object

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/google/uuid"
)

// Object is one instance of a Class.
// The payload and signal registry are owned by the object; the class
// reference is read-only.
type Object struct {
	id    uuid.UUID
	class *Class
	data  any

	mu        sync.Mutex
	signals   map[string][]Callback
	destroyed bool
}

// ID returns the identifier assigned at instantiation.
func (o *Object) ID() string { return o.id.String() }

// Class returns the object's class.
func (o *Object) Class() *Class { return o.class }

// Raw returns the untyped payload.
func (o *Object) Raw() any { return o.data }

// String implements fmt.Stringer.
func (o *Object) String() string {
	return fmt.Sprintf("%s: %s", o.class.name, o.id)
}

// Data returns the payload of o as *T. Allocators are expected to return
// pointers so setters can mutate the payload in place.
func Data[T any](o *Object) (*T, error) {
	if v, ok := o.data.(*T); ok {
		return v, nil
	}
	var zero T
	return nil, mismatchf("%s payload is %T, not *%T", o.class.name, o.data, zero)
}

// Destroyed reports whether Destroy has run.
func (o *Object) Destroyed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.destroyed
}

// Destroy runs the class finalizer once and drops every signal connection.
// Later operations on the object fail with domain.ErrDestroyedObject.
func (o *Object) Destroy() {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return
	}
	o.destroyed = true
	o.signals = nil
	o.mu.Unlock()

	if o.class.finalizer != nil {
		o.class.finalizer(o)
	}
	if h := o.class.Hooks().OnDestroy; h != nil {
		h(&domain.ObjectEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDestroy, Class: o.class.name},
			Object:    o.ID(),
		})
	}
	o.class.logger.Debug("object destroyed", "object", o.ID())
}

func (o *Object) alive(op domain.Op, key string) error {
	if o.Destroyed() {
		return domain.NewError(op, o.class.name, key, domain.ErrDestroyedObject)
	}
	return nil
}

func mismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrTypeMismatch}, args...)...)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
