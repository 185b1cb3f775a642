package lua

import (
	"fmt"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/object"
	backend "github.com/yuin/gopher-lua"
)

// push returns the userdata bound to o, creating it on first use.
// The same object always maps to the same userdata so Lua equality holds.
func (h *Host) push(o *object.Object) *backend.LUserData {
	if ud, ok := h.objects[o]; ok {
		return ud
	}
	ud := h.L.NewUserData()
	ud.Value = o
	h.L.SetMetatable(ud, h.L.GetTypeMetatable(objectTypeName))
	h.objects[o] = ud
	return ud
}

func (h *Host) checkObject(L *backend.LState, n int) *object.Object {
	ud := L.CheckUserData(n)
	if o, ok := ud.Value.(*object.Object); ok {
		return o
	}
	L.ArgError(n, "object expected")
	return nil
}

func (h *Host) registerObjectType() {
	mt := h.L.NewTypeMetatable(objectTypeName)
	h.L.SetField(mt, "__index", h.L.NewFunction(h.objectIndex))
	h.L.SetField(mt, "__newindex", h.L.NewFunction(h.objectNewIndex))
	h.L.SetField(mt, "__tostring", h.L.NewFunction(func(L *backend.LState) int {
		L.Push(backend.LString(h.checkObject(L, 1).String()))
		return 1
	}))
}

func (h *Host) objectIndex(L *backend.LState) int {
	o := h.checkObject(L, 1)
	key := L.CheckString(2)

	switch key {
	case "connect_signal":
		L.Push(L.NewFunction(h.connectSignal(o)))
		return 1
	case "disconnect_signal":
		L.Push(L.NewFunction(h.disconnectSignal(o)))
		return 1
	case "emit_signal":
		L.Push(L.NewFunction(h.emitSignal(o)))
		return 1
	case "destroy":
		L.Push(L.NewFunction(h.destroy(o)))
		return 1
	}

	v, err := o.Get(key)
	if err != nil {
		return h.raise(L, err)
	}
	lv, err := h.ToLua(v)
	if err != nil {
		return h.raise(L, domain.NewError(domain.OpGet, o.Class().Name(), key, err))
	}
	L.Push(lv)
	return 1
}

func (h *Host) objectNewIndex(L *backend.LState) int {
	o := h.checkObject(L, 1)
	key := L.CheckString(2)

	v, err := h.FromLua(L.Get(3))
	if err != nil {
		return h.raise(L, domain.NewError(domain.OpSet, o.Class().Name(), key, err))
	}
	if err := o.Set(key, v); err != nil {
		return h.raise(L, err)
	}
	return 0
}

// methodBase returns the stack index of the first real argument of a bound
// method, skipping the receiver when called as obj:method(...).
func (h *Host) methodBase(L *backend.LState, o *object.Object) int {
	if ud, ok := L.Get(1).(*backend.LUserData); ok && ud.Value == o {
		return 2
	}
	return 1
}

func (h *Host) connectSignal(o *object.Object) backend.LGFunction {
	return func(L *backend.LState) int {
		base := h.methodBase(L, o)
		name := L.CheckString(base)
		fn := L.CheckFunction(base + 1)
		if err := o.ConnectSignal(name, h.callback(fn)); err != nil {
			return h.raise(L, err)
		}
		return 0
	}
}

func (h *Host) disconnectSignal(o *object.Object) backend.LGFunction {
	return func(L *backend.LState) int {
		name := L.CheckString(h.methodBase(L, o))
		if err := o.DisconnectSignal(name); err != nil {
			return h.raise(L, err)
		}
		return 0
	}
}

func (h *Host) emitSignal(o *object.Object) backend.LGFunction {
	return func(L *backend.LState) int {
		base := h.methodBase(L, o)
		name := L.CheckString(base)
		args, err := h.fromArgs(L, base+1)
		if err != nil {
			return h.raise(L, domain.NewError(domain.OpEmit, o.Class().Name(), name, err))
		}
		if err := o.EmitSignal(name, args...); err != nil {
			return h.raise(L, err)
		}
		return 0
	}
}

// destroy runs the class finalizer and drops the userdata binding. Later
// property access through a stale reference fails with
// domain.ErrDestroyedObject.
func (h *Host) destroy(o *object.Object) backend.LGFunction {
	return func(L *backend.LState) int {
		o.Destroy()
		h.Release(o)
		return 0
	}
}

// callback adapts a Lua function into a signal callback. The function
// receives the emitting object followed by the emission arguments.
func (h *Host) callback(fn *backend.LFunction) object.Callback {
	return func(o *object.Object, args ...any) error {
		largs := make([]backend.LValue, 0, len(args)+1)
		largs = append(largs, h.push(o))
		for i, a := range args {
			lv, err := h.ToLua(a)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i+1, err)
			}
			largs = append(largs, lv)
		}
		_, err := h.call(fn, 0, largs...)
		return err
	}
}
