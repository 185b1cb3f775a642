package manifest

import (
	"maps"

	"github.com/aretw0/facet/pkg/object"
)

// Record is the payload of objects built from a manifest class.
type Record struct {
	values map[string]any
}

// Of returns the record payload of o.
func Of(o *object.Object) (*Record, error) {
	return object.Data[Record](o)
}

// Get returns the stored value of key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Values returns a copy of every stored value, including write-only ones.
func (r *Record) Values() map[string]any {
	return maps.Clone(r.values)
}

func newRecord(defaults map[string]any) *Record {
	values := make(map[string]any, len(defaults))
	for k, v := range defaults {
		values[k] = cloneValue(v)
	}
	return &Record{values: values}
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
