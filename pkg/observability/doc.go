/*
Package observability turns object model lifecycle events into metrics and
logs.

Everything here produces domain.LifecycleHooks, so it plugs into a class, a
registry or the facet Runtime the same way:

	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := observability.Chain(m.Hooks(), observability.DebugHooks(logger))
	reg := registry.NewRegistry(registry.WithHooks(hooks))
*/
package observability
