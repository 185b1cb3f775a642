package object

import (
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/facet/pkg/domain"
)

// Callback handles an emitted signal. It receives the emitting object and
// the extra arguments passed to EmitSignal.
type Callback func(o *Object, args ...any) error

// ConnectSignal appends cb to the callbacks of name. The same callback may
// be connected several times and then runs once per connection.
func (o *Object) ConnectSignal(name string, cb Callback) error {
	if cb == nil {
		return domain.NewError(domain.OpConnect, o.class.name, name, fmt.Errorf("callback is nil"))
	}
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return domain.NewError(domain.OpConnect, o.class.name, name, domain.ErrDestroyedObject)
	}
	o.signals[name] = append(o.signals[name], cb)
	n := len(o.signals[name])
	o.mu.Unlock()

	o.signalChanged(name, n)
	return nil
}

// DisconnectSignal removes every callback connected under name.
// Disconnecting an unknown name is a no-op.
func (o *Object) DisconnectSignal(name string) error {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return domain.NewError(domain.OpDisconnect, o.class.name, name, domain.ErrDestroyedObject)
	}
	delete(o.signals, name)
	o.mu.Unlock()

	o.signalChanged(name, 0)
	return nil
}

// EmitSignal invokes the callbacks of name in registration order, passing
// o and args to each. The callback list is snapshotted first, so callbacks
// may connect, disconnect or emit without affecting the current pass.
// Emitting a signal nobody listens to is a no-op. The first callback error
// stops the pass and is returned as a *domain.Error.
func (o *Object) EmitSignal(name string, args ...any) error {
	o.mu.Lock()
	if o.destroyed {
		o.mu.Unlock()
		return domain.NewError(domain.OpEmit, o.class.name, name, domain.ErrDestroyedObject)
	}
	snapshot := append([]Callback(nil), o.signals[name]...)
	o.mu.Unlock()

	var err error
	for i, cb := range snapshot {
		if cbErr := cb(o, args...); cbErr != nil {
			err = domain.NewError(domain.OpEmit, o.class.name, name, fmt.Errorf("callback %d: %w", i, cbErr))
			break
		}
	}

	if h := o.class.Hooks().OnSignalEmit; h != nil {
		h(&domain.SignalEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSignalEmit, Class: o.class.name},
			Signal:    name,
			Callbacks: len(snapshot),
			Args:      len(args),
			Err:       err,
		})
	}
	return err
}

// CallbackCount returns how many callbacks are connected under name.
func (o *Object) CallbackCount(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.signals[name])
}

// SignalNames returns the names with at least one connection, sorted.
func (o *Object) SignalNames() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]string, 0, len(o.signals))
	for name := range o.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o *Object) signalChanged(name string, n int) {
	if h := o.class.Hooks().OnSignalChange; h != nil {
		h(&domain.SignalEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSignalChange, Class: o.class.name},
			Signal:    name,
			Callbacks: n,
		})
	}
}
