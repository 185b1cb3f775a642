package facet

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/facet/pkg/adapters/lua"
	"github.com/aretw0/facet/pkg/button"
	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/dsl"
	"github.com/aretw0/facet/pkg/manifest"
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/observability"
	"github.com/aretw0/facet/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime is the high-level entry point for the facet library.
// It wires a class registry, the built-in classes, a manifest loader and a
// Lua host that sees every class the runtime knows about.
type Runtime struct {
	registry *registry.Registry
	loader   *manifest.Loader
	host     *lua.Host
	metrics  *observability.Metrics
	promReg  prometheus.Registerer
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	output   io.Writer
	builtins bool
}

// Option defines a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithLifecycleHooks registers observability hooks on every class.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runtime) {
		r.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithMetrics records Prometheus metrics into reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Runtime) {
		r.promReg = reg
	}
}

// WithOutput sends script print output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.output = w
	}
}

// WithoutBuiltins skips defining the built-in button class.
func WithoutBuiltins() Option {
	return func(r *Runtime) {
		r.builtins = false
	}
}

// New initializes a Runtime.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{builtins: true}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	hooks := []domain.LifecycleHooks{r.hooks}
	if r.promReg != nil {
		r.metrics = observability.NewMetrics(r.promReg)
		hooks = append(hooks, r.metrics.Hooks())
	}
	hooks = append(hooks, observability.DebugHooks(r.logger))

	r.registry = registry.NewRegistry(
		registry.WithHooks(observability.Chain(hooks...)),
		registry.WithLogger(r.logger),
	)
	r.loader = manifest.NewLoader(r.registry, manifest.WithLogger(r.logger))
	hostOpts := []lua.Option{lua.WithLogger(r.logger)}
	if r.output != nil {
		hostOpts = append(hostOpts, lua.WithOutput(r.output))
	}
	r.host = lua.New(hostOpts...)

	if r.builtins {
		if _, err := button.Define(r.registry); err != nil {
			r.host.Close()
			return nil, fmt.Errorf("failed to define builtins: %w", err)
		}
	}
	if err := r.host.ExposeAll(r.registry); err != nil {
		r.host.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	r.host.Close()
}

// Registry returns the class registry.
func (r *Runtime) Registry() *registry.Registry { return r.registry }

// Host returns the Lua host.
func (r *Runtime) Host() *lua.Host { return r.host }

// Metrics returns the collectors, or nil when WithMetrics was not used.
func (r *Runtime) Metrics() *observability.Metrics { return r.metrics }

// Define builds the class described by b, saves it and exposes it to Lua.
func (r *Runtime) Define(b *dsl.Builder) (*object.Class, error) {
	c, err := b.Save(r.registry)
	if err != nil {
		return nil, err
	}
	if err := r.host.Expose(c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadManifest loads the record classes declared in path and exposes them.
func (r *Runtime) LoadManifest(path string) ([]*object.Class, error) {
	classes, err := r.loader.LoadFile(path)
	for _, c := range classes {
		if exErr := r.host.Expose(c); exErr != nil {
			return classes, exErr
		}
	}
	if err != nil {
		return classes, err
	}
	r.logger.Info("manifest loaded", "path", path, "classes", len(classes))
	return classes, nil
}

// Instantiate creates an object of the named class.
func (r *Runtime) Instantiate(class string, args ...any) (*object.Object, error) {
	return r.registry.Instantiate(class, args...)
}

// SetGlobal makes value visible to scripts under name.
func (r *Runtime) SetGlobal(name string, value any) error {
	return r.host.SetGlobal(name, value)
}

// Run executes Lua source.
func (r *Runtime) Run(src string) error {
	return r.host.DoString(src)
}

// RunFile executes a Lua script file.
func (r *Runtime) RunFile(path string) error {
	return r.host.DoFile(path)
}

// Eval runs one interactive input and returns its printable results.
func (r *Runtime) Eval(ctx context.Context, src string) ([]string, error) {
	return r.host.Eval(ctx, src)
}

// RunContext executes Lua source, aborting it when ctx is cancelled.
func (r *Runtime) RunContext(ctx context.Context, src string) error {
	return r.host.DoStringContext(ctx, src)
}

// RunFileContext executes a Lua script file, aborting it when ctx is
// cancelled.
func (r *Runtime) RunFileContext(ctx context.Context, path string) error {
	return r.host.DoFileContext(ctx, path)
}
