package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventInstantiate  EventType = "instantiate"
	EventDestroy      EventType = "destroy"
	EventPropertyGet  EventType = "property_get"
	EventPropertySet  EventType = "property_set"
	EventIndexMiss    EventType = "index_miss"
	EventSignalEmit   EventType = "signal_emit"
	EventSignalChange EventType = "signal_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Class     string    `json:"class"`
}

// ObjectEvent represents creation or destruction of an object.
type ObjectEvent struct {
	EventBase
	Object string `json:"object"`
	Args   int    `json:"args,omitempty"`
}

// PropertyEvent represents a dispatched property read or write.
type PropertyEvent struct {
	EventBase
	Key     string `json:"key"`
	Value   any    `json:"value,omitempty"`
	Miss    bool   `json:"miss,omitempty"`    // resolved through a miss handler
	Coerced bool   `json:"coerced,omitempty"` // applied through the default setter
	Err     error  `json:"-"`
}

// SignalEvent represents a signal emission or a registry change.
type SignalEvent struct {
	EventBase
	Signal    string `json:"signal"`
	Callbacks int    `json:"callbacks"`
	Args      int    `json:"args,omitempty"`
	Err       error  `json:"-"`
}

// LifecycleHooks defines callbacks for object model observability.
// Every field is optional.
type LifecycleHooks struct {
	OnInstantiate  func(*ObjectEvent)
	OnDestroy      func(*ObjectEvent)
	OnPropertyGet  func(*PropertyEvent)
	OnPropertySet  func(*PropertyEvent)
	OnSignalEmit   func(*SignalEvent)
	OnSignalChange func(*SignalEvent)
}

// Empty reports whether no hook is set.
func (h LifecycleHooks) Empty() bool {
	return h.OnInstantiate == nil && h.OnDestroy == nil &&
		h.OnPropertyGet == nil && h.OnPropertySet == nil &&
		h.OnSignalEmit == nil && h.OnSignalChange == nil
}
