package object

import (
	"errors"
	"time"

	"github.com/aretw0/facet/pkg/domain"
)

// Get reads key from o.
//
// Declared properties (own or inherited) are read through their getter; a
// property without one fails with domain.ErrWriteOnlyProperty. Undeclared
// keys go to the class index-miss handler, or fail with
// domain.ErrUnknownProperty when none is set.
func (o *Object) Get(key string) (any, error) {
	if err := o.alive(domain.OpGet, key); err != nil {
		return nil, err
	}

	value, miss, err := o.get(key)
	if err != nil {
		err = o.wrap(domain.OpGet, key, err)
	}

	if h := o.class.Hooks().OnPropertyGet; h != nil {
		h(&domain.PropertyEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: eventFor(domain.EventPropertyGet, miss), Class: o.class.name},
			Key:       key,
			Value:     value,
			Miss:      miss,
			Err:       err,
		})
	}
	return value, err
}

func (o *Object) get(key string) (value any, miss bool, err error) {
	p, ok := o.class.Lookup(key)
	if !ok {
		fn := o.class.indexMissHandler()
		if fn == nil {
			return nil, false, domain.ErrUnknownProperty
		}
		value, err = fn(o, key)
		return value, true, err
	}
	if p.Get == nil {
		return nil, false, domain.ErrWriteOnlyProperty
	}
	value, err = p.Get(o)
	return value, false, err
}

// Set writes v to key on o.
//
// Undeclared keys go to the class write-miss handler, or fail with
// domain.ErrUnknownProperty. A property without a setter fails with
// domain.ErrReadOnlyProperty. When the value fails the property Type or
// the setter reports domain.ErrTypeMismatch, the default setter runs
// instead; without one the mismatch is returned and the payload is left
// as it was.
func (o *Object) Set(key string, v any) error {
	if err := o.alive(domain.OpSet, key); err != nil {
		return err
	}

	miss, coerced, err := o.set(key, v)
	if err != nil {
		err = o.wrap(domain.OpSet, key, err)
		o.class.logger.Debug("property write rejected", "key", key, "err", err)
	}

	if h := o.class.Hooks().OnPropertySet; h != nil {
		h(&domain.PropertyEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: eventFor(domain.EventPropertySet, miss), Class: o.class.name},
			Key:       key,
			Value:     v,
			Miss:      miss,
			Coerced:   coerced,
			Err:       err,
		})
	}
	return err
}

func (o *Object) set(key string, v any) (miss, coerced bool, err error) {
	p, ok := o.class.Lookup(key)
	if !ok {
		fn := o.class.newIndexMissHandler()
		if fn == nil {
			return false, false, domain.ErrUnknownProperty
		}
		return true, false, fn(o, key, v)
	}
	if p.Set == nil {
		return false, false, domain.ErrReadOnlyProperty
	}

	err = trySet(p, o, v)
	if err == nil || !errors.Is(err, domain.ErrTypeMismatch) || p.Default == nil {
		return false, false, err
	}
	return false, true, p.Default(o, v)
}

// trySet validates against the declared type before handing v to the setter.
func trySet(p Property, o *Object, v any) error {
	if p.Type != nil {
		if err := p.Type.Validate(v); err != nil {
			return err
		}
	}
	return p.Set(o, v)
}

// wrap attaches operation context unless err already carries it.
func (o *Object) wrap(op domain.Op, key string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.NewError(op, o.class.name, key, err)
}

func eventFor(t domain.EventType, miss bool) domain.EventType {
	if miss {
		return domain.EventIndexMiss
	}
	return t
}
