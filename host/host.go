// Package host implements the foreign-object bridge between native Go types
// and an embedded rule evaluator: per-type class descriptors built with
// ClassBuilder, type-erased Instances, the conversion protocol turning native
// values into terms or lazy result sequences, and an in-memory Host registry
// caching instances by id for the duration of one evaluation.
package host

import (
	"log/slog"
	"maps"
	"reflect"
	"sync"

	"github.com/robbyt/go-polybridge/internal/helpers"
	"github.com/robbyt/go-polybridge/types"
)

// Host is the default Registry implementation: it maps class names and native
// types to registered classes, caches instances by id, and owns the
// well-known type class. Classes live for the process; the instance cache is
// scoped to one evaluation via Copy.
type Host struct {
	mu            sync.Mutex
	classes       map[string]*Class
	classesByType map[reflect.Type]*Class
	constants     map[string]types.Term
	instances     map[types.InstanceID]*Instance
	nextID        types.InstanceID
	typeClass     *Class

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an empty Host. A nil handler falls back to a default text
// handler on stdout.
func New(handler slog.Handler) *Host {
	handler, logger := helpers.SetupLogger(handler, "polybridge", "Host")

	return &Host{
		classes:       make(map[string]*Class),
		classesByType: make(map[reflect.Type]*Class),
		constants:     make(map[string]types.Term),
		instances:     make(map[types.InstanceID]*Instance),
		typeClass:     newTypeClass(),
		logHandler:    handler,
		logger:        logger,
	}
}

// newTypeClass builds the meta class wrapping classes themselves. Its
// instance methods start empty and are synthesized per registered class the
// first time that class is converted to a term.
func newTypeClass() *Class {
	return NewClass[Class]().Name("Type").Build()
}

// RegisterClass stores a class under its display name. A second registration
// under the same name fails with a DuplicateClassError.
func (h *Host) RegisterClass(c *Class) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.classes[c.Name()]; ok {
		return &DuplicateClassError{Name: c.Name()}
	}
	h.classes[c.Name()] = c
	h.classesByType[c.TypeOf()] = c
	h.logger.Debug("registered class", "class", c.Name(), "type", c.TypeOf().String())
	return nil
}

// RegisterConstant converts a native value and stores the term under name,
// making it available to evaluator adapters as a global.
func (h *Host) RegisterConstant(name string, v any) error {
	t, err := ToTerm(v, h)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.constants[name] = t
	return nil
}

// Constants returns a copy of the registered constants.
func (h *Host) Constants() map[string]types.Term {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.constants)
}

// ClassFor implements Registry.
func (h *Host) ClassFor(t reflect.Type) (*Class, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.classesByType[t]
	return c, ok
}

// ClassNamed resolves a class by display name. A miss returns an
// UnregisteredClassError.
func (h *Host) ClassNamed(name string) (*Class, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.classes[name]
	if !ok {
		return nil, &UnregisteredClassError{Name: name}
	}
	return c, nil
}

// ClassNames returns the registered class names, in no particular order.
func (h *Host) ClassNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.classes))
	for name := range h.classes {
		names = append(names, name)
	}
	return names
}

// CacheInstance implements Registry.
func (h *Host) CacheInstance(inst *Instance) types.InstanceID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.instances[id] = inst
	h.logger.Debug("cached instance", "id", uint64(id), "instance", inst.String())
	return id
}

// LookupInstance implements Registry.
func (h *Host) LookupInstance(id types.InstanceID) (*Instance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[id]
	if !ok {
		return nil, &UnregisteredInstanceError{ID: uint64(id)}
	}
	return inst, nil
}

// TypeClass implements Registry.
func (h *Host) TypeClass() *Class { return h.typeClass }

// Copy returns a host sharing the registered classes and constants but with
// a fresh, empty instance cache. Each evaluation gets its own copy so
// instances never leak between queries.
func (h *Host) Copy() *Host {
	h.mu.Lock()
	defer h.mu.Unlock()

	return &Host{
		classes:       maps.Clone(h.classes),
		classesByType: maps.Clone(h.classesByType),
		constants:     maps.Clone(h.constants),
		instances:     make(map[types.InstanceID]*Instance),
		typeClass:     h.typeClass,
		logHandler:    h.logHandler,
		logger:        h.logger,
	}
}
