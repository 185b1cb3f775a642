/*
Package object implements the Class / Object / Property / Signal runtime.

A Class is a long-lived definition: an allocator producing each instance's
payload, an ordered table of property descriptors, an optional parent for
type-compatibility checks, and optional class-wide fallbacks for keys that
no descriptor covers. An Object is one instance: the payload, its own signal
registry and a read-only reference back to its Class.

# Dispatch

Every property read or write goes through the dispatcher on *Object:

	v, err := obj.Get("button")   // getter, index-miss handler, or error
	err = obj.Set("button", 3)    // setter, default setter, or error

Reads fall back to the class index-miss handler when the key is not declared.
Writes try the setter first; when the value has the wrong shape and the
property declares a default setter, the default setter runs instead.

# Signals

	obj.ConnectSignal("press", func(o *object.Object, args ...any) error { ... })
	obj.EmitSignal("press", 1)
	obj.DisconnectSignal("press")

Emission snapshots the callback list, runs callbacks synchronously in
registration order and lets callbacks re-enter the registry freely.

All failures are *domain.Error values wrapping the domain sentinels.
*/
package object
