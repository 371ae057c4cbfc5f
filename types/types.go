// Package types defines the term model: the neutral representation of values
// exchanged between native Go code and an embedded rule evaluator. Terms are
// a closed set of shapes, so evaluator adapters can switch exhaustively.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// InstanceID identifies a cached foreign instance within one host registry.
type InstanceID uint64

// Term is the evaluator-facing representation of a value: a boolean, number,
// string, list, dictionary, or an opaque reference to a foreign instance.
type Term interface {
	fmt.Stringer

	// term restricts implementations to this package.
	term()
}

// Bool is a boolean term.
type Bool bool

// Int is an integer term. All native integer widths widen to Int.
type Int int64

// Float is a floating-point term. Both native float widths widen to Float.
type Float float64

// String is a string term.
type String string

// List is an ordered sequence of terms.
type List []Term

// Dict is a string-keyed mapping of terms.
type Dict map[string]Term

// Foreign is an opaque reference to a native instance cached by the host
// registry. The evaluator can only inspect it through the bridge.
type Foreign struct {
	ID InstanceID

	// Repr is an optional human-readable description, used in diagnostics.
	Repr string
}

func (Bool) term()    {}
func (Int) term()     {}
func (Float) term()   {}
func (String) term()  {}
func (List) term()    {}
func (Dict) term()    {}
func (Foreign) term() {}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }

func (f Float) String() string { return fmt.Sprintf("%v", float64(f)) }

func (s String) String() string { return fmt.Sprintf("%q", string(s)) }

func (l List) String() string {
	elems := make([]string, len(l))
	for i, t := range l {
		elems[i] = t.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

func (d Dict) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%q: %s", k, d[k])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func (f Foreign) String() string {
	if f.Repr != "" {
		return f.Repr
	}
	return fmt.Sprintf("Instance<%d>", uint64(f.ID))
}
