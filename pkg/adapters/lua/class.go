package lua

import (
	"fmt"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/object"
	backend "github.com/yuin/gopher-lua"
)

// Expose binds c to a global table named after the class. Calling the
// table constructs an object; its fields manage class-wide state.
//
// Miss handlers installed from Lua live on the class, so a class shared by
// several hosts answers with the handler set last.
func (h *Host) Expose(c *object.Class) error {
	name := c.Name()
	if _, exists := h.classes[name]; exists {
		return fmt.Errorf("class %s already exposed: %w", name, domain.ErrDuplicateClass)
	}

	L := h.L
	tbl := L.NewTable()
	tbl.RawSetString("name", backend.LString(name))
	tbl.RawSetString("set_index_miss_handler", L.NewFunction(h.setIndexMiss(c, tbl)))
	tbl.RawSetString("set_newindex_miss_handler", L.NewFunction(h.setNewIndexMiss(c, tbl)))
	tbl.RawSetString("properties", L.NewFunction(h.properties(c)))

	mt := L.NewTable()
	mt.RawSetString("__call", L.NewFunction(h.construct(c)))
	mt.RawSetString("__tostring", L.NewFunction(func(L *backend.LState) int {
		L.Push(backend.LString("class " + name))
		return 1
	}))
	L.SetMetatable(tbl, mt)

	L.SetGlobal(name, tbl)
	h.classes[name] = tbl
	h.logger.Debug("class exposed", "class", name)
	return nil
}

// classArg skips the class table when a class function is called with a colon.
func classArg(L *backend.LState, tbl *backend.LTable) int {
	if L.Get(1) == tbl {
		return 2
	}
	return 1
}

func (h *Host) construct(c *object.Class) backend.LGFunction {
	return func(L *backend.LState) int {
		// Index 1 is the class table itself.
		args, err := h.fromArgs(L, 2)
		if err != nil {
			return h.raise(L, domain.NewError(domain.OpInstantiate, c.Name(), "", err))
		}
		o, err := c.Instantiate(args...)
		if err != nil {
			return h.raise(L, err)
		}
		L.Push(h.push(o))
		return 1
	}
}

func (h *Host) setIndexMiss(c *object.Class, tbl *backend.LTable) backend.LGFunction {
	return func(L *backend.LState) int {
		n := classArg(L, tbl)
		if L.Get(n) == backend.LNil {
			c.SetIndexMissHandler(nil)
			return 0
		}
		fn := L.CheckFunction(n)
		c.SetIndexMissHandler(func(o *object.Object, key string) (any, error) {
			res, err := h.call(fn, 1, h.push(o), backend.LString(key))
			if err != nil {
				return nil, err
			}
			return h.FromLua(res[0])
		})
		return 0
	}
}

func (h *Host) setNewIndexMiss(c *object.Class, tbl *backend.LTable) backend.LGFunction {
	return func(L *backend.LState) int {
		n := classArg(L, tbl)
		if L.Get(n) == backend.LNil {
			c.SetNewIndexMissHandler(nil)
			return 0
		}
		fn := L.CheckFunction(n)
		c.SetNewIndexMissHandler(func(o *object.Object, key string, v any) error {
			lv, err := h.ToLua(v)
			if err != nil {
				return err
			}
			_, err = h.call(fn, 0, h.push(o), backend.LString(key), lv)
			return err
		})
		return 0
	}
}

// properties lists the class's own descriptors as
// { {name=, access=, type=, doc=}, ... } in declaration order.
func (h *Host) properties(c *object.Class) backend.LGFunction {
	return func(L *backend.LState) int {
		out := L.NewTable()
		for _, p := range c.Properties() {
			entry := L.NewTable()
			entry.RawSetString("name", backend.LString(p.Name))
			entry.RawSetString("access", backend.LString(p.Access()))
			if p.Type != nil {
				entry.RawSetString("type", backend.LString(p.Type.Name()))
			}
			if p.Doc != "" {
				entry.RawSetString("doc", backend.LString(p.Doc))
			}
			out.Append(entry)
		}
		L.Push(out)
		return 1
	}
}
