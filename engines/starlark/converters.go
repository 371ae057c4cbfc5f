package starlark

import (
	"fmt"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-polybridge/host"
	"github.com/robbyt/go-polybridge/types"
)

// termToStarlark converts a term into a Starlark value. Foreign references
// are resolved against the registry and wrapped so attribute access and
// method calls dispatch back through the bridge.
func termToStarlark(t types.Term, reg host.Registry) (starlarkLib.Value, error) {
	switch t := t.(type) {
	case types.Bool:
		return starlarkLib.Bool(t), nil
	case types.Int:
		return starlarkLib.MakeInt64(int64(t)), nil
	case types.Float:
		return starlarkLib.Float(t), nil
	case types.String:
		return starlarkLib.String(t), nil
	case types.List:
		elems := make([]starlarkLib.Value, len(t))
		for i, e := range t {
			v, err := termToStarlark(e, reg)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			elems[i] = v
		}
		return starlarkLib.NewList(elems), nil
	case types.Dict:
		dict := starlarkLib.NewDict(len(t))
		for k, e := range t {
			v, err := termToStarlark(e, reg)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlarkLib.String(k), v); err != nil {
				return nil, err
			}
		}
		return dict, nil
	case types.Foreign:
		inst, err := reg.LookupInstance(t.ID)
		if err != nil {
			return nil, err
		}
		return &foreignValue{inst: inst, reg: reg}, nil
	}
	return nil, fmt.Errorf("unknown term shape %T", t)
}

// starlarkToTerm converts a Starlark value into a term, caching non-foreign
// native wrappers as needed. Used to pass script-side arguments back into
// native constructors and methods.
func starlarkToTerm(v starlarkLib.Value, reg host.Registry) (types.Term, error) {
	switch v := v.(type) {
	case starlarkLib.Bool:
		return types.Bool(v), nil
	case starlarkLib.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s does not fit in 64 bits", v.String())
		}
		return types.Int(i), nil
	case starlarkLib.Float:
		return types.Float(v), nil
	case starlarkLib.String:
		return types.String(v), nil
	case *starlarkLib.List:
		list := make(types.List, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			t, err := starlarkToTerm(v.Index(i), reg)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			list = append(list, t)
		}
		return list, nil
	case *starlarkLib.Dict:
		dict := make(types.Dict, v.Len())
		for _, k := range v.Keys() {
			kStr, ok := k.(starlarkLib.String)
			if !ok {
				return nil, fmt.Errorf("dict key %s is not a string", k.String())
			}
			val, found, err := v.Get(k)
			if err != nil || !found {
				continue
			}
			t, err := starlarkToTerm(val, reg)
			if err != nil {
				return nil, fmt.Errorf("dict value for %q: %w", string(kStr), err)
			}
			dict[string(kStr)] = t
		}
		return dict, nil
	case *foreignValue:
		return host.ToTerm(v.inst, reg)
	}
	return nil, fmt.Errorf("cannot convert Starlark %s to a term", v.Type())
}

// argsToTerms converts positional Starlark call arguments into terms.
func argsToTerms(args starlarkLib.Tuple, reg host.Registry) ([]types.Term, error) {
	terms := make([]types.Term, len(args))
	for i, a := range args {
		t, err := starlarkToTerm(a, reg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		terms[i] = t
	}
	return terms, nil
}

// resultsToStarlark drains a result sequence: zero results become None, one
// result becomes the value itself, and many results become a list.
func resultsToStarlark(seq host.ResultSeq, reg host.Registry) (starlarkLib.Value, error) {
	terms, err := host.Collect(seq)
	if err != nil {
		return nil, err
	}
	switch len(terms) {
	case 0:
		return starlarkLib.None, nil
	case 1:
		return termToStarlark(terms[0], reg)
	}
	elems := make([]starlarkLib.Value, len(terms))
	for i, t := range terms {
		v, err := termToStarlark(t, reg)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return starlarkLib.NewList(elems), nil
}
