package lua

import (
	"fmt"
	"math"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/object"
	backend "github.com/yuin/gopher-lua"
)

// maxDepth bounds table nesting so self-referencing tables fail cleanly.
const maxDepth = 32

func marshalErr(format string, args ...any) error {
	return domain.NewError(domain.OpMarshal, "", "", fmt.Errorf("%w: "+format, append([]any{domain.ErrMarshal}, args...)...))
}

// ToLua converts a Go value into a Lua value.
//
// Supported: nil, bool, every integer and float kind, string, []any,
// []string, map[string]any, *object.Object and raw Lua values.
func (h *Host) ToLua(v any) (backend.LValue, error) {
	return h.toLua(v, 0)
}

func (h *Host) toLua(v any, depth int) (backend.LValue, error) {
	if depth > maxDepth {
		return nil, marshalErr("nesting deeper than %d", maxDepth)
	}
	switch x := v.(type) {
	case nil:
		return backend.LNil, nil
	case backend.LValue:
		return x, nil
	case bool:
		return backend.LBool(x), nil
	case int:
		return backend.LNumber(x), nil
	case int8:
		return backend.LNumber(x), nil
	case int16:
		return backend.LNumber(x), nil
	case int32:
		return backend.LNumber(x), nil
	case int64:
		return backend.LNumber(x), nil
	case uint:
		return backend.LNumber(x), nil
	case uint8:
		return backend.LNumber(x), nil
	case uint16:
		return backend.LNumber(x), nil
	case uint32:
		return backend.LNumber(x), nil
	case uint64:
		return backend.LNumber(x), nil
	case float32:
		return backend.LNumber(x), nil
	case float64:
		return backend.LNumber(x), nil
	case string:
		return backend.LString(x), nil
	case *object.Object:
		return h.push(x), nil
	case []string:
		tbl := h.L.NewTable()
		for _, s := range x {
			tbl.Append(backend.LString(s))
		}
		return tbl, nil
	case []any:
		tbl := h.L.NewTable()
		for i, elem := range x {
			lv, err := h.toLua(elem, depth+1)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i+1, err)
			}
			tbl.RawSetInt(i+1, lv)
		}
		return tbl, nil
	case map[string]any:
		tbl := h.L.NewTable()
		for k, elem := range x {
			lv, err := h.toLua(elem, depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", k, err)
			}
			tbl.RawSetString(k, lv)
		}
		return tbl, nil
	default:
		return nil, marshalErr("cannot convert %T to a Lua value", v)
	}
}

// FromLua converts a Lua value into a Go value.
//
// Whole numbers become int64, other numbers float64. Tables whose keys are
// exactly 1..n become []any (an empty table is an empty []any); tables with
// string keys become map[string]any. Object userdata becomes
// *object.Object. Functions and mixed-key tables cannot be converted.
func (h *Host) FromLua(lv backend.LValue) (any, error) {
	return h.fromLua(lv, 0)
}

func (h *Host) fromLua(lv backend.LValue, depth int) (any, error) {
	if depth > maxDepth {
		return nil, marshalErr("nesting deeper than %d", maxDepth)
	}
	switch x := lv.(type) {
	case *backend.LNilType:
		return nil, nil
	case backend.LBool:
		return bool(x), nil
	case backend.LNumber:
		return number(float64(x)), nil
	case backend.LString:
		return string(x), nil
	case *backend.LUserData:
		switch v := x.Value.(type) {
		case *object.Object:
			return v, nil
		case error:
			return v, nil
		}
		return nil, marshalErr("foreign userdata %T", x.Value)
	case *backend.LTable:
		return h.fromTable(x, depth)
	default:
		return nil, marshalErr("cannot convert Lua %s", lv.Type().String())
	}
}

func number(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}

func (h *Host) fromTable(tbl *backend.LTable, depth int) (any, error) {
	n := tbl.Len()
	count := 0
	var keyErr error
	tbl.ForEach(func(k, _ backend.LValue) {
		count++
		if _, isNum := k.(backend.LNumber); !isNum {
			if _, isStr := k.(backend.LString); !isStr && keyErr == nil {
				keyErr = marshalErr("table key of type %s", k.Type().String())
			}
		}
	})
	if keyErr != nil {
		return nil, keyErr
	}

	if count == n {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			v, err := h.fromLua(tbl.RawGetInt(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i-1] = v
		}
		return out, nil
	}

	out := make(map[string]any, count)
	var err error
	tbl.ForEach(func(k, v backend.LValue) {
		if err != nil {
			return
		}
		key, ok := k.(backend.LString)
		if !ok {
			err = marshalErr("mixed table keys (%s)", k.String())
			return
		}
		var gv any
		if gv, err = h.fromLua(v, depth+1); err != nil {
			err = fmt.Errorf("key %s: %w", key, err)
			return
		}
		out[string(key)] = gv
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fromArgs converts the stack values from index start to the top.
func (h *Host) fromArgs(L *backend.LState, start int) ([]any, error) {
	top := L.GetTop()
	if top < start {
		return nil, nil
	}
	args := make([]any, 0, top-start+1)
	for i := start; i <= top; i++ {
		v, err := h.fromLua(L.Get(i), 0)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, v)
	}
	return args, nil
}
