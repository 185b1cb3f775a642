package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateClass is returned when a class name is already registered.
var ErrDuplicateClass = errors.New("duplicate class")

// ErrDuplicateProperty is returned when a property name is already declared on a class.
var ErrDuplicateProperty = errors.New("duplicate property")

// ErrUnknownProperty is returned when a key is not declared and no miss handler resolves it.
var ErrUnknownProperty = errors.New("unknown property")

// ErrReadOnlyProperty is returned when writing a property that has no setter.
var ErrReadOnlyProperty = errors.New("read-only property")

// ErrWriteOnlyProperty is returned when reading a property that has no getter.
var ErrWriteOnlyProperty = errors.New("write-only property")

// ErrTypeMismatch is returned when a setter rejects a value and no default setter recovers it.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrMarshal is returned when a value cannot cross the scripting boundary.
var ErrMarshal = errors.New("marshal error")

// ErrCyclicClass is returned when a parent chain would loop back on itself.
var ErrCyclicClass = errors.New("cyclic class hierarchy")

// ErrClassSealed is returned when mutating the property table of a saved class.
var ErrClassSealed = errors.New("class is sealed")

// ErrUnknownClass is returned when a class name cannot be found in the registry.
var ErrUnknownClass = errors.New("unknown class")

// ErrDestroyedObject is returned when operating on an object after Destroy.
var ErrDestroyedObject = errors.New("object destroyed")

// Op names the operation that produced an Error.
type Op string

const (
	OpDefine      Op = "define"
	OpAddProperty Op = "add_property"
	OpInstantiate Op = "instantiate"
	OpGet         Op = "get"
	OpSet         Op = "set"
	OpConnect     Op = "connect_signal"
	OpDisconnect  Op = "disconnect_signal"
	OpEmit        Op = "emit_signal"
	OpMarshal     Op = "marshal"
)

// Error is the typed failure returned by the object model.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type Error struct {
	Op    Op     // Operation that failed
	Class string // Class name, if known
	Key   string // Property, signal or class key involved
	Err   error  // Underlying error (usually a sentinel)
}

func (e *Error) Error() string {
	msg := string(e.Op)
	if e.Class != "" {
		msg += " " + e.Class
	}
	if e.Key != "" {
		msg += fmt.Sprintf(" %q", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error. It is a small convenience for adapters.
func NewError(op Op, class, key string, err error) *Error {
	return &Error{Op: op, Class: class, Key: key, Err: err}
}

// IsAccessError reports whether err is one of the property access failures
// (unknown, read-only, write-only or type mismatch).
func IsAccessError(err error) bool {
	return errors.Is(err, ErrUnknownProperty) ||
		errors.Is(err, ErrReadOnlyProperty) ||
		errors.Is(err, ErrWriteOnlyProperty) ||
		errors.Is(err, ErrTypeMismatch)
}
