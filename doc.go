/*
Package facet is an embeddable object model for exposing host entities to
a scripting layer.

Hosts describe entities as classes. A class owns a table of named
properties with custom get/set behavior, a fallback for keys it does not
declare and an allocator for its payload. Objects of a class carry their
own signal registry, so scripts can attach callbacks to named events and
emit them.

# Concepts

  - Class: a long-lived definition shared by every instance (pkg/object).
  - Property: a named accessor with optional getter, setter, type and
    default setter for values the setter rejects.
  - Signal: a named list of callbacks, run in connection order.
  - Index-miss handler: resolves reads of undeclared keys for every
    instance of a class at once.

# Usage

The Runtime wires a registry, the built-in button class and a Lua host:

	rt, err := facet.New()
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Close()

	err = rt.Run(`
	b = button({ button = 1 })
	b.connect_signal("press", function(b, n) print(b.button, n) end)
	b.emit_signal("press", 2)
	`)

Classes can be built in Go with pkg/dsl and registered with Define, or
declared in YAML/JSON manifests and loaded with LoadManifest.
*/
package facet
