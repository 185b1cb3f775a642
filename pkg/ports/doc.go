/*
Package ports defines the interfaces facet components are wired through.

These interfaces decouple the object model from its collaborators, so the
class registry can be swapped and the scripting layer stays an adapter.

# Key Interfaces

  - ClassStore: Saves classes under unique names and looks them up.
  - ScriptHost: An embedded scripting environment that exposes classes and
    objects to scripts (see pkg/adapters/lua).
*/
package ports
