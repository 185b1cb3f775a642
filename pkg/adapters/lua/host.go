// Package lua exposes facet classes and objects to an embedded Lua VM
// (github.com/yuin/gopher-lua).
//
// Classes become callable global tables:
//
//	b = button()
//	button.set_index_miss_handler(function(obj, key) return 5 end)
//
// Objects become userdata whose field reads and writes go through the
// property dispatcher, plus the connect_signal, disconnect_signal,
// emit_signal and destroy methods. Go errors raised into Lua keep their
// identity, so the error returned by DoString still matches the domain
// sentinels.
package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/ports"
	backend "github.com/yuin/gopher-lua"
)

const (
	objectTypeName = "facet.object"
	errorTypeName  = "facet.error"
)

var _ ports.ScriptHost = (*Host)(nil)

// Host owns a Lua state and the bindings between Lua values and objects.
// Like the Lua state itself, a Host must only be used from one goroutine.
//
// Every object pushed into Lua keeps its userdata binding until the script
// calls destroy() on it or the host calls Release. gopher-lua has no __gc,
// so a script that creates objects in a loop grows the host until then;
// long-running hosts should destroy objects they are done with.
type Host struct {
	L       *backend.LState
	logger  *slog.Logger
	objects map[*object.Object]*backend.LUserData
	classes map[string]*backend.LTable
	opts    backend.Options
	out     io.Writer
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets a structured logger for the host.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithOptions passes options to the underlying Lua state.
func WithOptions(opts backend.Options) Option {
	return func(h *Host) {
		h.opts = opts
	}
}

// WithOutput redirects the print function to w.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		h.out = w
	}
}

// New creates a host with a fresh Lua state and the standard libraries.
func New(opts ...Option) *Host {
	h := &Host{
		objects: make(map[*object.Object]*backend.LUserData),
		classes: make(map[string]*backend.LTable),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	h.L = backend.NewState(h.opts)
	h.registerObjectType()
	h.registerErrorType()
	if h.out != nil {
		h.L.SetGlobal("print", h.L.NewFunction(h.print))
	}
	return h
}

// print behaves like the base library print but writes to h.out.
func (h *Host) print(L *backend.LState) int {
	var b strings.Builder
	for i := 1; i <= L.GetTop(); i++ {
		if i > 1 {
			b.WriteByte('\t')
		}
		b.WriteString(L.ToStringMeta(L.Get(i)).String())
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(h.out, b.String()); err != nil {
		return h.raise(L, fmt.Errorf("print: %w", err))
	}
	return 0
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.L.Close()
}

// ExposeAll exposes every class saved in store.
func (h *Host) ExposeAll(store ports.ClassStore) error {
	for _, name := range store.Names() {
		c, err := store.Lookup(name)
		if err != nil {
			return err
		}
		if err := h.Expose(c); err != nil {
			return err
		}
	}
	return nil
}

// SetGlobal binds a Go value to a global name.
func (h *Host) SetGlobal(name string, value any) error {
	lv, err := h.ToLua(value)
	if err != nil {
		return fmt.Errorf("global %s: %w", name, err)
	}
	h.L.SetGlobal(name, lv)
	return nil
}

// Global reads a global and converts it to a Go value.
func (h *Host) Global(name string) (any, error) {
	return h.FromLua(h.L.GetGlobal(name))
}

// DoString runs a chunk of Lua source.
func (h *Host) DoString(src string) error {
	return h.unwrap(h.L.DoString(src))
}

// DoFile runs a Lua file.
func (h *Host) DoFile(path string) error {
	h.logger.Debug("running script", "path", path)
	return h.unwrap(h.L.DoFile(path))
}

// DoStringContext runs src and aborts it once ctx is done.
func (h *Host) DoStringContext(ctx context.Context, src string) error {
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()
	return h.unwrap(h.L.DoString(src))
}

// DoFileContext runs a Lua file and aborts it once ctx is done.
func (h *Host) DoFileContext(ctx context.Context, path string) error {
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()
	return h.DoFile(path)
}

// Eval runs src the way an interactive interpreter does: as an expression
// when it parses as one, otherwise as a chunk of statements. Results are
// rendered with tostring, honoring __tostring.
func (h *Host) Eval(ctx context.Context, src string) ([]string, error) {
	L := h.L
	fn, err := L.LoadString("return " + src)
	if err != nil {
		if fn, err = L.LoadString(src); err != nil {
			return nil, err
		}
	}

	L.SetContext(ctx)
	defer L.RemoveContext()

	top := L.GetTop()
	L.Push(fn)
	if err := L.PCall(0, backend.MultRet, nil); err != nil {
		L.SetTop(top)
		return nil, h.unwrap(err)
	}
	out := make([]string, 0, L.GetTop()-top)
	for i := top + 1; i <= L.GetTop(); i++ {
		out = append(out, L.ToStringMeta(L.Get(i)).String())
	}
	L.SetTop(top)
	return out, nil
}

// GlobalNames lists the string keys of the global table, sorted.
func (h *Host) GlobalNames() []string {
	var names []string
	h.L.G.Global.ForEach(func(k, _ backend.LValue) {
		if s, ok := k.(backend.LString); ok {
			names = append(names, string(s))
		}
	})
	sort.Strings(names)
	return names
}

// Release forgets the userdata bound to o, so a later push creates a new one
// and o no longer pins memory in the host.
func (h *Host) Release(o *object.Object) {
	delete(h.objects, o)
}

// call invokes a Lua function in protected mode and returns its results.
func (h *Host) call(fn *backend.LFunction, nret int, args ...backend.LValue) ([]backend.LValue, error) {
	top := h.L.GetTop()
	if err := h.L.CallByParam(backend.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		h.L.SetTop(top)
		return nil, h.unwrap(err)
	}
	results := make([]backend.LValue, nret)
	for i := 0; i < nret; i++ {
		results[i] = h.L.Get(top + i + 1)
	}
	h.L.SetTop(top)
	return results, nil
}

// raise aborts the running Go function with err, carried as userdata so
// unwrap can recover it on the other side.
func (h *Host) raise(L *backend.LState, err error) int {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, L.GetTypeMetatable(errorTypeName))
	L.Error(ud, 1)
	return 0
}

// unwrap recovers Go errors raised through raise from a Lua API error.
func (h *Host) unwrap(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *backend.ApiError
	if errors.As(err, &apiErr) {
		if ud, ok := apiErr.Object.(*backend.LUserData); ok {
			if inner, ok := ud.Value.(error); ok {
				return inner
			}
		}
	}
	return err
}

func (h *Host) registerErrorType() {
	mt := h.L.NewTypeMetatable(errorTypeName)
	h.L.SetField(mt, "__tostring", h.L.NewFunction(func(L *backend.LState) int {
		ud := L.CheckUserData(1)
		if err, ok := ud.Value.(error); ok {
			L.Push(backend.LString(err.Error()))
			return 1
		}
		L.Push(backend.LString("error"))
		return 1
	}))
}
