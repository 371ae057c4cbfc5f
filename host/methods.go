package host

import (
	"fmt"
	"sync"

	"github.com/robbyt/go-polybridge/types"
)

// Constructor builds a native value from foreign-term arguments. Argument
// decoding is the capability's own concern; the bridge only dispatches to it
// and wraps the result.
type Constructor func(args []types.Term, reg Registry) (any, error)

// InstanceMethod invokes a bound method against a type-erased receiver and
// produces a result sequence. Attribute getters are instance methods with a
// fixed zero arity.
type InstanceMethod func(receiver any, args []types.Term, reg Registry) ResultSeq

// ClassMethod invokes a method not bound to any instance.
type ClassMethod func(args []types.Term, reg Registry) ResultSeq

// methodSet is a shared table of instance methods. Tables are frozen after
// Build except on the type class, which accepts idempotent inserts while
// classes are converted to values, so reads take the lock too.
type methodSet struct {
	mu sync.RWMutex
	m  map[string]InstanceMethod
}

func newMethodSet(m map[string]InstanceMethod) *methodSet {
	if m == nil {
		m = make(map[string]InstanceMethod)
	}
	return &methodSet{m: m}
}

func (s *methodSet) get(name string) (InstanceMethod, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.m[name]
	return f, ok
}

// setIfAbsent inserts f under name unless an entry already exists. Reports
// whether the insert happened.
func (s *methodSet) setIfAbsent(name string, f InstanceMethod) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[name]; ok {
		return false
	}
	s.m[name] = f
	return true
}

func (s *methodSet) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.m))
	for name := range s.m {
		names = append(names, name)
	}
	return names
}

// downcast asserts a type-erased payload to *T, accepting either *T or a T
// value. Failure is a user-facing DowncastError.
func downcast[T any](v any) (*T, error) {
	switch v := v.(type) {
	case *T:
		return v, nil
	case T:
		return &v, nil
	}
	var zero T
	return nil, &DowncastError{
		Expected: fmt.Sprintf("%T", zero),
		Actual:   fmt.Sprintf("%T", v),
	}
}
