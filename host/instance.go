package host

import (
	"fmt"

	"github.com/robbyt/go-polybridge/types"
)

// Instance is a type-erased wrapper around one native value. The value is
// shared: many instances, possibly under different classes, may alias the
// same underlying object, and the bridge adds no locking of its own — a
// wrapped value is only as safe to share as the value itself.
//
// The method tables are references to the declaring class's tables at
// creation time, and the name is copied at creation time; a class renamed
// later keeps existing instances on the old name.
type Instance struct {
	Name string

	value      any
	attributes map[string]InstanceMethod
	methods    *methodSet
	class      *Class
}

func (i *Instance) String() string {
	return fmt.Sprintf("Instance<%s>", i.Name)
}

// Value returns the wrapped native value.
func (i *Instance) Value() any { return i.value }

// Class returns the class that created this instance.
func (i *Instance) Class() *Class { return i.class }

// Equals compares the wrapped values using the declaring class's equality
// check. Identity and equality are type-level properties: the check always
// comes from the class, never from the instance.
func (i *Instance) Equals(other *Instance) (bool, error) {
	return i.class.equalityCheck(i.value, other.value)
}

// Attr invokes the attribute getter registered under name. An unknown name
// fails with an UnsupportedOperationError.
func (i *Instance) Attr(name string, reg Registry) (ResultSeq, error) {
	f, ok := i.attributes[name]
	if !ok {
		return nil, &UnsupportedOperationError{Operation: name, TypeName: i.Name}
	}
	return f(i.value, nil, reg), nil
}

// AttrNames returns the registered attribute names, in no particular order.
func (i *Instance) AttrNames() []string {
	names := make([]string, 0, len(i.attributes))
	for name := range i.attributes {
		names = append(names, name)
	}
	return names
}

// Call dispatches an instance method by name and converts its result into a
// result sequence. An unknown name fails with an UnsupportedOperationError.
func (i *Instance) Call(name string, args []types.Term, reg Registry) (ResultSeq, error) {
	f, ok := i.methods.get(name)
	if !ok {
		return nil, &UnsupportedOperationError{Operation: name, TypeName: i.Name}
	}
	return f(i.value, args, reg), nil
}

// MethodNames returns the registered instance-method names, in no particular
// order.
func (i *Instance) MethodNames() []string {
	return i.methods.names()
}
