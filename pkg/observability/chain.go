package observability

import "github.com/aretw0/facet/pkg/domain"

// Chain combines several hook sets into one. Each event is delivered to the
// hooks in the order given; unset fields are skipped.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnInstantiate = chainObject(out.OnInstantiate, h.OnInstantiate)
		out.OnDestroy = chainObject(out.OnDestroy, h.OnDestroy)
		out.OnPropertyGet = chainProperty(out.OnPropertyGet, h.OnPropertyGet)
		out.OnPropertySet = chainProperty(out.OnPropertySet, h.OnPropertySet)
		out.OnSignalEmit = chainSignal(out.OnSignalEmit, h.OnSignalEmit)
		out.OnSignalChange = chainSignal(out.OnSignalChange, h.OnSignalChange)
	}
	return out
}

func chainObject(a, b func(*domain.ObjectEvent)) func(*domain.ObjectEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *domain.ObjectEvent) {
		a(e)
		b(e)
	}
}

func chainProperty(a, b func(*domain.PropertyEvent)) func(*domain.PropertyEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *domain.PropertyEvent) {
		a(e)
		b(e)
	}
}

func chainSignal(a, b func(*domain.SignalEvent)) func(*domain.SignalEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(e *domain.SignalEvent) {
		a(e)
		b(e)
	}
}
