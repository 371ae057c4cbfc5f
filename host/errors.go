package host

import "fmt"

// UnsupportedOperationError reports an operation invoked on a type that never
// configured a handler for it, e.g. equality on a class built without an
// equality check.
type UnsupportedOperationError struct {
	Operation string
	TypeName  string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q on type %s", e.Operation, e.TypeName)
}

// DowncastError reports a type-erased value that did not match the expected
// native type. This is always a user-facing registration or usage error,
// never an internal fault.
type DowncastError struct {
	Expected string
	Actual   string
}

func (e *DowncastError) Error() string {
	return fmt.Sprintf("downcast failed: expected %s, got %s", e.Expected, e.Actual)
}

// MissingConstructorError reports an Init call on a class registered without
// a constructor.
type MissingConstructorError struct {
	TypeName string
}

func (e *MissingConstructorError) Error() string {
	return fmt.Sprintf("%s has no constructor", e.TypeName)
}

// InvocationError carries a failure propagated from a native method or
// constructor call, stringified.
type InvocationError struct {
	Message string
}

func (e *InvocationError) Error() string { return e.Message }

// ConversionError reports a native value that could not be converted into a
// term, or a failure encountered while flattening a result sequence.
type ConversionError struct {
	Message string
}

func (e *ConversionError) Error() string {
	return "conversion error: " + e.Message
}

// DuplicateClassError reports a second registration under an already-taken
// class name.
type DuplicateClassError struct {
	Name string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("class %q is already registered", e.Name)
}

// UnregisteredClassError reports a lookup for a native type no class was
// registered for.
type UnregisteredClassError struct {
	Name string
}

func (e *UnregisteredClassError) Error() string {
	return fmt.Sprintf("class %q is not registered", e.Name)
}

// UnregisteredInstanceError reports an instance id with no cache entry.
type UnregisteredInstanceError struct {
	ID uint64
}

func (e *UnregisteredInstanceError) Error() string {
	return fmt.Sprintf("instance %d is not cached", e.ID)
}
