// Package starlark exposes bridge classes and instances to the Starlark
// interpreter. Registered classes appear as callable values that construct
// native objects, and instances support attribute access, method calls, and
// equality, all dispatched through the bridge.
package starlark

import (
	"fmt"
	"slices"
	"sort"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-polybridge/host"
)

// foreignValue adapts a bridge instance to a Starlark value.
type foreignValue struct {
	inst *host.Instance
	reg  host.Registry
}

func (f *foreignValue) String() string          { return f.inst.String() }
func (f *foreignValue) Type() string            { return f.inst.Name }
func (f *foreignValue) Freeze()                 {}
func (f *foreignValue) Truth() starlarkLib.Bool { return starlarkLib.True }
func (f *foreignValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", f.inst.Name)
}

// Attr resolves attribute getters first, then instance methods as bound
// callables. Unknown names return (nil, nil) per the HasAttrs contract.
func (f *foreignValue) Attr(name string) (starlarkLib.Value, error) {
	if slices.Contains(f.inst.AttrNames(), name) {
		seq, err := f.inst.Attr(name, f.reg)
		if err != nil {
			return nil, err
		}
		return resultsToStarlark(seq, f.reg)
	}
	if slices.Contains(f.inst.MethodNames(), name) {
		return f.boundMethod(name), nil
	}
	return nil, nil
}

func (f *foreignValue) AttrNames() []string {
	names := append(f.inst.AttrNames(), f.inst.MethodNames()...)
	sort.Strings(names)
	return names
}

// boundMethod returns a builtin that dispatches to the instance method,
// converting arguments and results through the bridge.
func (f *foreignValue) boundMethod(name string) *starlarkLib.Builtin {
	return starlarkLib.NewBuiltin(name, func(
		_ *starlarkLib.Thread,
		b *starlarkLib.Builtin,
		args starlarkLib.Tuple,
		kwargs []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: keyword arguments are not supported", b.Name())
		}
		terms, err := argsToTerms(args, f.reg)
		if err != nil {
			return nil, err
		}
		seq, err := f.inst.Call(b.Name(), terms, f.reg)
		if err != nil {
			return nil, err
		}
		return resultsToStarlark(seq, f.reg)
	})
}

// CompareSameType implements equality between two foreign values through the
// declaring class's equality check.
func (f *foreignValue) CompareSameType(op syntax.Token, y starlarkLib.Value, _ int) (bool, error) {
	other, ok := y.(*foreignValue)
	if !ok {
		return false, fmt.Errorf("cannot compare %s with %s", f.Type(), y.Type())
	}
	eq, err := f.inst.Equals(other.inst)
	if err != nil {
		return false, err
	}
	switch op {
	case syntax.EQL:
		return eq, nil
	case syntax.NEQ:
		return !eq, nil
	}
	return false, fmt.Errorf("%s is not ordered", f.Type())
}

// classValue adapts a bridge class to a callable Starlark value: calling it
// invokes the class's constructor, and attribute access resolves class
// methods.
type classValue struct {
	class *host.Class
	reg   host.Registry
}

func (c *classValue) String() string          { return c.class.String() }
func (c *classValue) Type() string            { return "type" }
func (c *classValue) Freeze()                 {}
func (c *classValue) Truth() starlarkLib.Bool { return starlarkLib.True }
func (c *classValue) Hash() (uint32, error)   { return starlarkLib.String(c.class.Name()).Hash() }
func (c *classValue) Name() string            { return c.class.Name() }

// CallInternal constructs a new native instance from the call arguments.
func (c *classValue) CallInternal(
	_ *starlarkLib.Thread,
	args starlarkLib.Tuple,
	kwargs []starlarkLib.Tuple,
) (starlarkLib.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: keyword arguments are not supported", c.class.Name())
	}
	terms, err := argsToTerms(args, c.reg)
	if err != nil {
		return nil, err
	}
	inst, err := c.class.Init(terms, c.reg)
	if err != nil {
		return nil, err
	}
	c.reg.CacheInstance(inst)
	return &foreignValue{inst: inst, reg: c.reg}, nil
}

// Attr resolves class methods as callables.
func (c *classValue) Attr(name string) (starlarkLib.Value, error) {
	if !slices.Contains(c.class.ClassMethodNames(), name) {
		return nil, nil
	}
	return starlarkLib.NewBuiltin(name, func(
		_ *starlarkLib.Thread,
		b *starlarkLib.Builtin,
		args starlarkLib.Tuple,
		kwargs []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: keyword arguments are not supported", b.Name())
		}
		terms, err := argsToTerms(args, c.reg)
		if err != nil {
			return nil, err
		}
		seq, err := c.class.CallClassMethod(b.Name(), terms, c.reg)
		if err != nil {
			return nil, err
		}
		return resultsToStarlark(seq, c.reg)
	}), nil
}

func (c *classValue) AttrNames() []string {
	names := c.class.ClassMethodNames()
	sort.Strings(names)
	return names
}
