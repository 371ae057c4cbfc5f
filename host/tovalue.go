package host

import (
	"fmt"
	"math"
	"reflect"

	"github.com/robbyt/go-polybridge/types"
)

// TermConverter lets a native type control its own term representation
// instead of going through a registered class.
type TermConverter interface {
	ToTerm(reg Registry) (types.Term, error)
}

// ToTerm converts a native value into a term. Builtin conversions cover
// booleans, all integer widths (widened to types.Int), both float widths
// (widened to types.Float), strings, slices and arrays of convertible
// elements, string-keyed maps of convertible values, and terms themselves
// (identity). A *Class converts to the type-as-value form, and any value of
// a registered type is wrapped as a cached foreign instance. Everything else
// fails with a ConversionError.
func ToTerm(v any, reg Registry) (types.Term, error) {
	switch v := v.(type) {
	case nil:
		return nil, &ConversionError{Message: "cannot convert nil to a term"}
	case types.Term:
		return v, nil
	case TermConverter:
		return v.ToTerm(reg)
	case bool:
		return types.Bool(v), nil
	case int:
		return types.Int(v), nil
	case int8:
		return types.Int(v), nil
	case int16:
		return types.Int(v), nil
	case int32:
		return types.Int(v), nil
	case int64:
		return types.Int(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, &ConversionError{Message: fmt.Sprintf("uint %d overflows the integer term", v)}
		}
		return types.Int(v), nil
	case uint8:
		return types.Int(v), nil
	case uint16:
		return types.Int(v), nil
	case uint32:
		return types.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, &ConversionError{Message: fmt.Sprintf("uint64 %d overflows the integer term", v)}
		}
		return types.Int(v), nil
	case float32:
		return types.Float(v), nil
	case float64:
		return types.Float(v), nil
	case string:
		return types.String(v), nil
	case *Class:
		return classToTerm(v, reg)
	case *Instance:
		return foreignTerm(v, reg), nil
	}

	rt := reflect.TypeOf(v)
	if c, ok := reg.ClassFor(rt); ok {
		return foreignTerm(c.CastToInstance(v), reg), nil
	}
	if rt.Kind() == reflect.Pointer {
		if c, ok := reg.ClassFor(rt.Elem()); ok {
			return foreignTerm(c.CastToInstance(v), reg), nil
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make(types.List, rv.Len())
		for i := range rv.Len() {
			t, err := ToTerm(rv.Index(i).Interface(), reg)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			list[i] = t
		}
		return list, nil
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, &ConversionError{Message: fmt.Sprintf("map key type %s is not a string", rt.Key())}
		}
		dict := make(types.Dict, rv.Len())
		for _, k := range rv.MapKeys() {
			t, err := ToTerm(rv.MapIndex(k).Interface(), reg)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k.String(), err)
			}
			dict[k.String()] = t
		}
		return dict, nil
	}

	return nil, &ConversionError{Message: fmt.Sprintf("type %s is not registered and has no builtin conversion", rt)}
}

// foreignTerm caches an instance in the registry and returns the opaque
// reference term the evaluator will hold.
func foreignTerm(inst *Instance, reg Registry) types.Term {
	id := reg.CacheInstance(inst)
	return types.Foreign{ID: id, Repr: inst.String()}
}

// classToTerm converts a class into "the type as a value": an instance of
// the registry's type class wrapping the class itself. On first conversion
// each of the class's class-method names is synthesized onto the type class
// as an instance method, insert-if-absent, so calling a class method through
// the type-as-value path resolves correctly.
func classToTerm(c *Class, reg Registry) (types.Term, error) {
	tc := reg.TypeClass()
	for _, name := range c.ClassMethodNames() {
		tc.instanceMethods.setIfAbsent(name, dispatchClassMethod(name))
	}
	inst := tc.CastToInstance(c)
	id := reg.CacheInstance(inst)
	return types.Foreign{ID: id, Repr: c.String()}, nil
}

// dispatchClassMethod forwards a type-class instance method to the wrapped
// class's own class method of the same name.
func dispatchClassMethod(name string) InstanceMethod {
	return func(recv any, args []types.Term, reg Registry) ResultSeq {
		c, err := downcast[Class](recv)
		if err != nil {
			return singleResult(nil, err)
		}
		seq, err := c.CallClassMethod(name, args, reg)
		if err != nil {
			return singleResult(nil, err)
		}
		return seq
	}
}
