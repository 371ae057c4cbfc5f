package host

import (
	"fmt"
	"iter"
	"maps"
	"reflect"

	"github.com/robbyt/go-polybridge/types"
)

// Class is a type-erased registration record for one native type: a display
// name, an optional constructor, method tables, and identity/equality checks
// stored as independently settable closures. A Class is immutable after
// Build and cheap to copy; its tables are shared, never deep-copied.
type Class struct {
	name            string
	ctor            Constructor
	attributes      map[string]InstanceMethod
	instanceMethods *methodSet
	classMethods    map[string]ClassMethod
	typeOf          reflect.Type

	// instanceCheck reports whether a type-erased value is an instance of
	// this class's native type. Overridable to model subtype relationships.
	instanceCheck func(v any) bool

	// typeCheck reports whether a native type token matches this class. Kept
	// separate from typeOf so a registration can accept multiple types.
	typeCheck func(t reflect.Type) bool

	equalityCheck func(a, b any) (bool, error)
}

// ClassBuilder accumulates the registration for native type T before the
// type parameter is erased by Build.
type ClassBuilder[T any] struct {
	name            string
	ctor            Constructor
	attributes      map[string]InstanceMethod
	instanceMethods map[string]InstanceMethod
	classMethods    map[string]ClassMethod
	instanceCheck   func(v any) bool
	typeCheck       func(t reflect.Type) bool
	equalityCheck   func(a, b any) (bool, error)
}

// NewClass starts a class registration for T. The class has no constructor,
// empty method tables, and equality disabled until configured. The name
// defaults to T's canonical Go name.
func NewClass[T any]() *ClassBuilder[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &ClassBuilder[T]{
		name:            t.String(),
		attributes:      make(map[string]InstanceMethod),
		instanceMethods: make(map[string]InstanceMethod),
		classMethods:    make(map[string]ClassMethod),
		instanceCheck: func(v any) bool {
			switch v.(type) {
			case T, *T:
				return true
			}
			return false
		},
		typeCheck: func(other reflect.Type) bool { return other == t },
	}
}

// NewClassWithDefault starts a registration whose constructor produces T's
// zero value, ignoring any arguments.
func NewClassWithDefault[T any]() *ClassBuilder[T] {
	return NewClass[T]().SetConstructor(
		func([]types.Term, Registry) (T, error) {
			var zero T
			return zero, nil
		},
	)
}

// Name overrides the class's display name.
func (b *ClassBuilder[T]) Name(name string) *ClassBuilder[T] {
	b.name = name
	return b
}

// SetConstructor stores f as the constructor capability. The constructed
// value is held by pointer so later instances can alias it.
func (b *ClassBuilder[T]) SetConstructor(f func(args []types.Term, reg Registry) (T, error)) *ClassBuilder[T] {
	b.ctor = func(args []types.Term, reg Registry) (any, error) {
		v, err := f(args, reg)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	return b
}

// SetEqualityCheck wraps f with a downcast step: both type-erased operands
// must be of type T, otherwise the check fails with a DowncastError.
func (b *ClassBuilder[T]) SetEqualityCheck(f func(a, b *T) bool) *ClassBuilder[T] {
	b.equalityCheck = func(x, y any) (bool, error) {
		xv, err := downcast[T](x)
		if err != nil {
			return false, err
		}
		yv, err := downcast[T](y)
		if err != nil {
			return false, err
		}
		return f(xv, yv), nil
	}
	return b
}

// WithEqualityCheck is shorthand for delegating equality to Go's == on T.
func WithEqualityCheck[T comparable](b *ClassBuilder[T]) *ClassBuilder[T] {
	return b.SetEqualityCheck(func(a, b *T) bool { return *a == *b })
}

// SetInstanceCheck overrides the default exact-type instance check, e.g. to
// accept values satisfying an interface.
func (b *ClassBuilder[T]) SetInstanceCheck(f func(v any) bool) *ClassBuilder[T] {
	b.instanceCheck = f
	return b
}

// SetTypeCheck overrides the default exact-type identity check, e.g. to
// accept subtypes registered under one class.
func (b *ClassBuilder[T]) SetTypeCheck(f func(t reflect.Type) bool) *ClassBuilder[T] {
	b.typeCheck = f
	return b
}

// AddAttributeGetter registers a zero-argument accessor under name. Last
// write wins on a name collision.
func (b *ClassBuilder[T]) AddAttributeGetter(name string, f func(recv *T) any) *ClassBuilder[T] {
	b.attributes[name] = func(recv any, _ []types.Term, reg Registry) ResultSeq {
		r, err := downcast[T](recv)
		if err != nil {
			return singleResult(nil, err)
		}
		return Results(f(r), reg)
	}
	return b
}

// AddMethod registers an instance method under name. The result follows the
// conversion protocol: a non-nil error yields one failure, a nil value yields
// no results, anything else yields one term. Last write wins on a collision.
func (b *ClassBuilder[T]) AddMethod(name string, f func(recv *T, args []types.Term) (any, error)) *ClassBuilder[T] {
	b.instanceMethods[name] = func(recv any, args []types.Term, reg Registry) ResultSeq {
		r, err := downcast[T](recv)
		if err != nil {
			return singleResult(nil, err)
		}
		v, callErr := f(r, args)
		return ResultsErr(v, callErr, reg)
	}
	return b
}

// AddIteratorMethod registers an instance method whose result is iterated:
// every element becomes a separate result in the output sequence, with nil
// elements dropped and element failures passed through.
func (b *ClassBuilder[T]) AddIteratorMethod(name string, f func(recv *T, args []types.Term) (iter.Seq[any], error)) *ClassBuilder[T] {
	b.instanceMethods[name] = func(recv any, args []types.Term, reg Registry) ResultSeq {
		r, err := downcast[T](recv)
		if err != nil {
			return singleResult(nil, err)
		}
		seq, err := f(r, args)
		if err != nil {
			return singleResult(nil, &InvocationError{Message: err.Error()})
		}
		return Results(Iterator{Seq: seq}, reg)
	}
	return b
}

// AddClassMethod registers a method not bound to any instance. Last write
// wins on a collision.
func (b *ClassBuilder[T]) AddClassMethod(name string, f func(args []types.Term) (any, error)) *ClassBuilder[T] {
	b.classMethods[name] = func(args []types.Term, reg Registry) ResultSeq {
		v, err := f(args)
		return ResultsErr(v, err, reg)
	}
	return b
}

// Build erases the type parameter and freezes the registration. The tables
// are snapshotted, so reusing the builder afterwards does not affect the
// built class or instances created from it.
func (b *ClassBuilder[T]) Build() *Class {
	eq := b.equalityCheck
	if eq == nil {
		eq = equalityNotSupported(b.name)
	}
	return &Class{
		name:            b.name,
		ctor:            b.ctor,
		attributes:      maps.Clone(b.attributes),
		instanceMethods: newMethodSet(maps.Clone(b.instanceMethods)),
		classMethods:    maps.Clone(b.classMethods),
		typeOf:          reflect.TypeOf((*T)(nil)).Elem(),
		instanceCheck:   b.instanceCheck,
		typeCheck:       b.typeCheck,
		equalityCheck:   eq,
	}
}

// equalityNotSupported is the default equality check for classes that never
// configured one.
func equalityNotSupported(typeName string) func(a, b any) (bool, error) {
	return func(any, any) (bool, error) {
		return false, &UnsupportedOperationError{
			Operation: "equals",
			TypeName:  typeName,
		}
	}
}

// Name returns the class's display name.
func (c *Class) Name() string { return c.name }

// TypeOf returns the native type token this class was registered for.
func (c *Class) TypeOf() reflect.Type { return c.typeOf }

func (c *Class) String() string {
	return fmt.Sprintf("type<%s>", c.name)
}

// IsClass reports whether class c stands for native type C. The default
// check accepts only the exact registered type; SetTypeCheck can widen it.
func IsClass[C any](c *Class) bool {
	return c.typeCheck(reflect.TypeOf((*C)(nil)).Elem())
}

// IsInstance reports whether inst's payload is an instance of this class's
// native type. The check inspects the payload, not the declaring class, so
// an instance may satisfy a class other than the one that created it.
func (c *Class) IsInstance(inst *Instance) bool {
	return c.instanceCheck(inst.value)
}

// Equals compares two instances using this class's equality check. Returns
// an UnsupportedOperationError if equality was never configured, or a
// DowncastError when a payload is not of this class's native type.
func (c *Class) Equals(a, b *Instance) (bool, error) {
	return c.equalityCheck(a.value, b.value)
}

// Init constructs a new instance from foreign-term arguments. A class
// without a constructor fails with a MissingConstructorError; a constructor
// failure is propagated as-is.
func (c *Class) Init(args []types.Term, reg Registry) (*Instance, error) {
	if c.ctor == nil {
		return nil, &MissingConstructorError{TypeName: c.name}
	}
	v, err := c.ctor(args, reg)
	if err != nil {
		return nil, err
	}
	return c.CastToInstance(v), nil
}

// CastToInstance wraps an already-available native value with this class's
// current method tables. The value is stored as given; pass a pointer when
// instances should alias the same underlying object.
func (c *Class) CastToInstance(v any) *Instance {
	return &Instance{
		Name:       c.name,
		value:      v,
		attributes: c.attributes,
		methods:    c.instanceMethods,
		class:      c,
	}
}

// CallClassMethod dispatches a class method by name and converts its result.
// An unknown name fails with an UnsupportedOperationError.
func (c *Class) CallClassMethod(name string, args []types.Term, reg Registry) (ResultSeq, error) {
	f, ok := c.classMethods[name]
	if !ok {
		return nil, &UnsupportedOperationError{Operation: name, TypeName: c.name}
	}
	return f(args, reg), nil
}

// ClassMethodNames returns the registered class-method names, in no
// particular order.
func (c *Class) ClassMethodNames() []string {
	names := make([]string, 0, len(c.classMethods))
	for name := range c.classMethods {
		names = append(names, name)
	}
	return names
}
