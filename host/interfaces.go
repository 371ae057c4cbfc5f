package host

import (
	"reflect"

	"github.com/robbyt/go-polybridge/types"
)

// Registry is the host-side boundary the conversion protocol talks to: it
// resolves native types to registered classes and caches instances so the
// evaluator can refer to them by id. The Host in this package is the default
// implementation; embedders may supply their own.
type Registry interface {
	// ClassFor returns the class registered for the given native type.
	ClassFor(t reflect.Type) (*Class, bool)

	// CacheInstance stores an instance for the duration of one evaluation and
	// returns its id.
	CacheInstance(inst *Instance) types.InstanceID

	// LookupInstance resolves a previously cached instance id. A miss returns
	// an UnregisteredInstanceError.
	LookupInstance(id types.InstanceID) (*Instance, error)

	// TypeClass returns the well-known meta class wrapping classes themselves,
	// so a class can be passed to the evaluator as a first-class value.
	TypeClass() *Class
}

// ArgumentDecoder converts a sequence of terms into native argument values.
// Implemented by the embedding evaluator; constructors and methods registered
// through the builder receive raw terms and may delegate decoding to one.
type ArgumentDecoder interface {
	// DecodeArgs decodes args into target, which must be a pointer to the
	// native argument shape. Returns a decoding error on mismatch.
	DecodeArgs(args []types.Term, target any) error
}
