/*
Package domain contains the core vocabulary of the facet object model.

It defines the error taxonomy returned by every class, property and signal
operation, and the lifecycle events emitted while objects are created,
dispatched and destroyed. This package is kept pure and free of external
dependencies so adapters (scripting hosts, metrics, loggers) can share it.

# Key Entities

  - Error: A typed failure carrying the operation, class and key involved.
  - LifecycleHooks: Observability callbacks fired by the dispatcher.
  - ObjectEvent / PropertyEvent / SignalEvent: Payloads passed to the hooks.
*/
package domain
