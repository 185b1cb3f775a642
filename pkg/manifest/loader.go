package manifest

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/dsl"
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/ports"
	"github.com/aretw0/facet/pkg/schema"
)

// Access modes.
const (
	AccessReadWrite = "rw"
	AccessRead      = "r"
	AccessWrite     = "w"
)

// Loader builds manifest classes and saves them in a store.
// It remembers the record classes it built, so later manifests can extend
// them by name.
type Loader struct {
	store   ports.ClassStore
	opts    []object.ClassOption
	logger  *slog.Logger
	records map[string]map[string]any // class name -> defaults, inherited included
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a structured logger for the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithClassOptions applies opts to every class the loader builds.
func WithClassOptions(opts ...object.ClassOption) Option {
	return func(l *Loader) {
		l.opts = append(l.opts, opts...)
	}
}

// NewLoader creates a loader saving into store.
func NewLoader(store ports.ClassStore, opts ...Option) *Loader {
	l := &Loader{
		store:   store,
		records: make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return l
}

// LoadFile reads path and loads its classes.
func (l *Loader) LoadFile(path string) ([]*object.Class, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("manifest read", "path", path, "classes", len(f.Classes))
	return l.Load(f)
}

// Load validates f, then builds and saves its classes, parents first.
// Nothing is saved when validation fails; a store error part way through
// leaves the classes saved before it in place.
func (l *Loader) Load(f *File) ([]*object.Class, error) {
	plans, err := l.plan(f)
	if err != nil {
		return nil, err
	}
	order, err := sortByParent(f.Classes)
	if err != nil {
		return nil, err
	}

	built := make([]*object.Class, 0, len(order))
	for _, i := range order {
		c, err := l.build(f.Classes[i], plans[i])
		if err != nil {
			return built, err
		}
		built = append(built, c)
	}
	return built, nil
}

// classPlan is a validated ClassSpec.
type classPlan struct {
	types    []schema.Type
	defaults []any
}

func (l *Loader) plan(f *File) ([]classPlan, error) {
	var errs []error
	inFile := make(map[string]bool, len(f.Classes))
	plans := make([]classPlan, len(f.Classes))

	for i, cs := range f.Classes {
		if cs.Name == "" {
			errs = append(errs, &schema.ValidationError{Key: fmt.Sprintf("classes[%d].name", i), Reason: "class name is required"})
			continue
		}
		if inFile[cs.Name] {
			errs = append(errs, domain.NewError(domain.OpDefine, cs.Name, "", domain.ErrDuplicateClass))
			continue
		}
		inFile[cs.Name] = true
		if _, err := l.store.Lookup(cs.Name); err == nil {
			errs = append(errs, domain.NewError(domain.OpDefine, cs.Name, "", domain.ErrDuplicateClass))
			continue
		}

		plan := classPlan{
			types:    make([]schema.Type, len(cs.Properties)),
			defaults: make([]any, len(cs.Properties)),
		}
		seen := make(map[string]bool, len(cs.Properties))
		for j, ps := range cs.Properties {
			key := cs.Name + "." + ps.Name
			if ps.Name == "" {
				errs = append(errs, &schema.ValidationError{Key: fmt.Sprintf("%s.properties[%d].name", cs.Name, j), Reason: "property name is required"})
				continue
			}
			if seen[ps.Name] {
				errs = append(errs, domain.NewError(domain.OpAddProperty, cs.Name, ps.Name, domain.ErrDuplicateProperty))
				continue
			}
			seen[ps.Name] = true
			typ, err := schema.ParseType(ps.Type)
			if err != nil {
				errs = append(errs, &schema.ValidationError{Key: key, Reason: err.Error(), Value: ps.Type, Err: err})
				continue
			}
			switch ps.Access {
			case "", AccessReadWrite, AccessRead, AccessWrite:
			default:
				errs = append(errs, &schema.ValidationError{Key: key, Reason: "access must be rw, r or w", Value: ps.Access})
				continue
			}
			def := typ.Zero()
			if ps.Default != nil {
				if def, err = typ.Coerce(ps.Default); err != nil {
					errs = append(errs, &schema.ValidationError{Key: key, Reason: "default: " + err.Error(), Value: ps.Default, Err: err})
					continue
				}
			}
			plan.types[j] = typ
			plan.defaults[j] = def
		}
		plans[i] = plan
	}

	for _, cs := range f.Classes {
		if cs.Parent == "" || inFile[cs.Parent] {
			continue
		}
		if _, ok := l.records[cs.Parent]; ok {
			continue
		}
		if _, err := l.store.Lookup(cs.Parent); err != nil {
			errs = append(errs, domain.NewError(domain.OpDefine, cs.Name, "", fmt.Errorf("parent %s: %w", cs.Parent, err)))
			continue
		}
		errs = append(errs, domain.NewError(domain.OpDefine, cs.Name, "", fmt.Errorf("parent %s is not a record class", cs.Parent)))
	}

	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}
	return plans, nil
}

// sortByParent orders classes so each parent declared in the same file
// comes before its children. A parent loop fails with domain.ErrCyclicClass.
func sortByParent(classes []ClassSpec) ([]int, error) {
	index := make(map[string]int, len(classes))
	for i, cs := range classes {
		index[cs.Name] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(classes))
	order := make([]int, 0, len(classes))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return domain.NewError(domain.OpDefine, classes[i].Name, "", domain.ErrCyclicClass)
		}
		state[i] = visiting
		if p, ok := index[classes[i].Parent]; ok && classes[i].Parent != "" {
			if err := visit(p); err != nil {
				return err
			}
		}
		state[i] = done
		order = append(order, i)
		return nil
	}

	for i := range classes {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (l *Loader) build(cs ClassSpec, plan classPlan) (*object.Class, error) {
	defaults := make(map[string]any)
	opts := []object.ClassOption{object.WithCallHandler(object.ApplyProperties)}
	if cs.Parent != "" {
		parent, err := l.store.Lookup(cs.Parent)
		if err != nil {
			return nil, domain.NewError(domain.OpDefine, cs.Name, "", fmt.Errorf("parent %s: %w", cs.Parent, err))
		}
		for k, v := range l.records[cs.Parent] {
			defaults[k] = v
		}
		opts = append(opts, object.WithParent(parent))
	}
	for j, ps := range cs.Properties {
		defaults[ps.Name] = plan.defaults[j]
	}

	b := dsl.New(cs.Name, func() any { return newRecord(defaults) }, opts...).
		With(l.opts...)
	for j, ps := range cs.Properties {
		b.Add(recordProperty(ps, plan.types[j], plan.defaults[j]))
	}

	c, err := b.Save(l.store)
	if err != nil {
		return nil, err
	}
	l.records[cs.Name] = defaults
	l.logger.Debug("record class loaded", "class", cs.Name, "parent", cs.Parent, "properties", len(cs.Properties))
	return c, nil
}

func recordProperty(ps PropertySpec, typ schema.Type, def any) object.Property {
	name := ps.Name
	p := object.Property{Name: name, Type: typ, Doc: ps.Doc}

	if ps.Access != AccessWrite {
		p.Get = func(o *object.Object) (any, error) {
			r, err := Of(o)
			if err != nil {
				return nil, err
			}
			return cloneValue(r.values[name]), nil
		}
	}
	if ps.Access != AccessRead {
		p.Set = func(o *object.Object, v any) error {
			r, err := Of(o)
			if err != nil {
				return err
			}
			cv, err := typ.Coerce(v)
			if err != nil {
				return err
			}
			r.values[name] = cv
			return nil
		}
		if ps.Coerce {
			p.Default = func(o *object.Object, v any) error {
				r, err := Of(o)
				if err != nil {
					return err
				}
				cv, err := typ.Coerce(v)
				if err != nil {
					cv = cloneValue(def)
				}
				r.values[name] = cv
				return nil
			}
		}
	}
	return p
}
