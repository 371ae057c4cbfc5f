// Package risor makes bridge-managed values available to the Risor VM.
// Risor receives plain Go data, so foreign instances are materialized into
// attribute snapshots before crossing; construction and method dispatch stay
// on the host side.
package risor

import (
	"fmt"

	risorLib "github.com/deepnoodle-ai/risor/v2"

	"github.com/robbyt/go-polybridge/host"
	"github.com/robbyt/go-polybridge/types"
)

// Options converts a Go map into Risor VM options. The input data will be
// wrapped in a single object passed to the VM under ctxKey.
func Options(ctxKey string, inputData map[string]any) []risorLib.Option {
	return []risorLib.Option{
		risorLib.WithEnv(map[string]any{ctxKey: inputData}),
	}
}

// GlobalOptions materializes the host's registered constants and wraps them
// as Risor VM options under ctxKey.
func GlobalOptions(h *host.Host, ctxKey string) ([]risorLib.Option, error) {
	data := make(map[string]any)
	for name, t := range h.Constants() {
		v, err := Materialize(t, h)
		if err != nil {
			return nil, fmt.Errorf("constant %q: %w", name, err)
		}
		data[name] = v
	}
	return Options(ctxKey, data), nil
}

// Materialize converts a term into a plain Go value. A foreign reference
// becomes a map of its attribute values: one entry per registered attribute
// getter, with an absent result (empty sequence) omitted.
func Materialize(t types.Term, reg host.Registry) (any, error) {
	switch t := t.(type) {
	case types.Bool:
		return bool(t), nil
	case types.Int:
		return int64(t), nil
	case types.Float:
		return float64(t), nil
	case types.String:
		return string(t), nil
	case types.List:
		list := make([]any, len(t))
		for i, e := range t {
			v, err := Materialize(e, reg)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			list[i] = v
		}
		return list, nil
	case types.Dict:
		dict := make(map[string]any, len(t))
		for k, e := range t {
			v, err := Materialize(e, reg)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			dict[k] = v
		}
		return dict, nil
	case types.Foreign:
		inst, err := reg.LookupInstance(t.ID)
		if err != nil {
			return nil, err
		}
		return materializeInstance(inst, reg)
	}
	return nil, fmt.Errorf("unknown term shape %T", t)
}

func materializeInstance(inst *host.Instance, reg host.Registry) (map[string]any, error) {
	snapshot := make(map[string]any)
	for _, name := range inst.AttrNames() {
		seq, err := inst.Attr(name, reg)
		if err != nil {
			return nil, err
		}
		terms, err := host.Collect(seq)
		if err != nil {
			return nil, fmt.Errorf("attribute %q of %s: %w", name, inst.Name, err)
		}
		if len(terms) == 0 {
			continue
		}
		v, err := Materialize(terms[0], reg)
		if err != nil {
			return nil, fmt.Errorf("attribute %q of %s: %w", name, inst.Name, err)
		}
		snapshot[name] = v
	}
	return snapshot, nil
}
