package host

import (
	"iter"
	"reflect"

	"github.com/robbyt/go-polybridge/types"
)

// ResultSeq is a lazy, finite, single-pass sequence of terms or failures.
// A method call yields zero elements (no result), one element (a value or a
// failure), or many elements (an iterator method).
type ResultSeq = iter.Seq2[types.Term, error]

// Iterator marks a method result whose elements are emitted as separate
// results. Each element is converted independently, so an element may itself
// expand to zero elements (nil), one term, or a failure.
type Iterator struct {
	Seq iter.Seq[any]
}

// Failure wraps an error so an iterator can emit a failure element
// mid-stream without terminating the whole sequence.
type Failure struct {
	Err error
}

// Results converts a native value into a result sequence:
//
//   - nil (including a typed nil pointer) yields zero elements, which is how
//     "no result" is distinguished from an error
//   - an Iterator yields the concatenation of each element's own sequence
//   - a Failure yields exactly one failure element
//   - anything else yields exactly one element, converted via ToTerm
func Results(v any, reg Registry) ResultSeq {
	return func(yield func(types.Term, error) bool) {
		emit(v, reg, yield)
	}
}

// ResultsErr converts the common (value, error) native call shape: a non-nil
// error yields exactly one failure element carrying its message, never zero.
func ResultsErr(v any, err error, reg Registry) ResultSeq {
	if err != nil {
		return func(yield func(types.Term, error) bool) {
			yield(nil, &InvocationError{Message: err.Error()})
		}
	}
	return Results(v, reg)
}

// emit recursively expands one value into yield calls. Returns false once the
// consumer stops.
func emit(v any, reg Registry, yield func(types.Term, error) bool) bool {
	if isNil(v) {
		return true
	}
	switch v := v.(type) {
	case Failure:
		return yield(nil, v.Err)
	case *Failure:
		return yield(nil, v.Err)
	case Iterator:
		for elem := range v.Seq {
			if !emit(elem, reg, yield) {
				return false
			}
		}
		return true
	}
	t, err := ToTerm(v, reg)
	if err != nil {
		return yield(nil, err)
	}
	return yield(t, nil)
}

// isNil reports whether v is nil, or a typed nil behind an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// singleResult is a sequence of exactly one pre-computed element.
func singleResult(t types.Term, err error) ResultSeq {
	return func(yield func(types.Term, error) bool) {
		yield(t, err)
	}
}

// Collect drains a result sequence into terms, stopping at the first failure.
// Convenience for callers that do not need laziness.
func Collect(seq ResultSeq) ([]types.Term, error) {
	var out []types.Term
	for t, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}
