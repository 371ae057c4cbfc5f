// Package polybridge exposes native Go types and values to embedded rule and
// policy evaluators. Applications describe each native type once with a
// class builder — constructor, attribute getters, instance and class
// methods, equality — and register it with a Host. Evaluator adapters under
// engines/ then let scripts construct, inspect, call, and compare those
// native objects without knowing their concrete representation.
package polybridge

import (
	"log/slog"

	"github.com/robbyt/go-polybridge/host"
	"github.com/robbyt/go-polybridge/types"
)

// Bridge bundles a Host with registration helpers. It is the top-level entry
// point; the host and class APIs remain available directly for callers that
// need finer control.
type Bridge struct {
	host *host.Host
}

// New creates a Bridge with an empty host registry. A nil handler falls back
// to the default logging configuration.
func New(handler slog.Handler) *Bridge {
	return &Bridge{host: host.New(handler)}
}

// Host returns the underlying host registry.
func (b *Bridge) Host() *host.Host {
	return b.host
}

// RegisterClass registers a built class with the host.
func (b *Bridge) RegisterClass(c *host.Class) error {
	return b.host.RegisterClass(c)
}

// RegisterConstant converts a native value and makes it available to
// evaluator adapters under name.
func (b *Bridge) RegisterConstant(name string, v any) error {
	return b.host.RegisterConstant(name, v)
}

// ToTerm converts a native value into its term representation, caching
// foreign instances in the bridge's host.
func (b *Bridge) ToTerm(v any) (types.Term, error) {
	return host.ToTerm(v, b.host)
}

// ForEvaluation returns a Bridge sharing registrations but holding a fresh
// instance cache, scoping cached instances to a single evaluation.
func (b *Bridge) ForEvaluation() *Bridge {
	return &Bridge{host: b.host.Copy()}
}
