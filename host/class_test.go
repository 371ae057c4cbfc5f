package host

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-polybridge/types"
)

type widget struct {
	label string
	size  int
}

type gadget struct {
	serial string
}

func widgetClass() *Class {
	return NewClass[widget]().
		Name("Widget").
		SetConstructor(func(args []types.Term, _ Registry) (widget, error) {
			w := widget{label: "unnamed"}
			if len(args) > 0 {
				s, ok := args[0].(types.String)
				if !ok {
					return widget{}, fmt.Errorf("expected a string label, got %s", args[0])
				}
				w.label = string(s)
			}
			return w, nil
		}).
		AddAttributeGetter("label", func(w *widget) any { return w.label }).
		AddAttributeGetter("size", func(w *widget) any { return w.size }).
		AddMethod("resize", func(w *widget, args []types.Term) (any, error) {
			n, ok := args[0].(types.Int)
			if !ok {
				return nil, fmt.Errorf("expected an integer size")
			}
			w.size = int(n)
			return w.size, nil
		}).
		Build()
}

func TestNewClassDefaults(t *testing.T) {
	t.Parallel()

	c := NewClass[widget]().Build()
	assert.Equal(t, "host.widget", c.Name())
	assert.Equal(t, "type<host.widget>", c.String())

	t.Run("no constructor", func(t *testing.T) {
		t.Parallel()

		_, err := c.Init(nil, New(nil))
		var missing *MissingConstructorError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "host.widget", missing.TypeName)
	})

	t.Run("equality unsupported", func(t *testing.T) {
		t.Parallel()

		a := c.CastToInstance(&widget{label: "a"})
		b := c.CastToInstance(&widget{label: "a"})
		_, err := a.Equals(b)
		var unsupported *UnsupportedOperationError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "equals", unsupported.Operation)
		assert.Equal(t, "host.widget", unsupported.TypeName)
	})
}

func TestClassRename(t *testing.T) {
	t.Parallel()

	c := NewClass[widget]().Name("Widget").Build()
	assert.Equal(t, "Widget", c.Name())

	inst := c.CastToInstance(&widget{})
	assert.Equal(t, "Widget", inst.Name)
	assert.Equal(t, "Instance<Widget>", inst.String())
}

func TestInit(t *testing.T) {
	t.Parallel()

	c := widgetClass()
	h := New(nil)

	t.Run("constructs from terms", func(t *testing.T) {
		t.Parallel()

		inst, err := c.Init([]types.Term{types.String("gear")}, h)
		require.NoError(t, err)
		w, ok := inst.Value().(*widget)
		require.True(t, ok)
		assert.Equal(t, "gear", w.label)
	})

	t.Run("constructor error propagates", func(t *testing.T) {
		t.Parallel()

		_, err := c.Init([]types.Term{types.Int(7)}, h)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a string label")
	})

	t.Run("zero value constructor", func(t *testing.T) {
		t.Parallel()

		inst, err := NewClassWithDefault[widget]().Build().Init(nil, h)
		require.NoError(t, err)
		w, ok := inst.Value().(*widget)
		require.True(t, ok)
		assert.Equal(t, widget{}, *w)
	})
}

func TestEquality(t *testing.T) {
	t.Parallel()

	t.Run("custom check", func(t *testing.T) {
		t.Parallel()

		c := NewClass[widget]().
			SetEqualityCheck(func(a, b *widget) bool { return a.label == b.label }).
			Build()
		a := c.CastToInstance(&widget{label: "x", size: 1})
		b := c.CastToInstance(&widget{label: "x", size: 2})

		eq, err := a.Equals(b)
		require.NoError(t, err)
		assert.True(t, eq)

		eq, err = c.Equals(a, c.CastToInstance(&widget{label: "y"}))
		require.NoError(t, err)
		assert.False(t, eq)
	})

	t.Run("comparable shorthand", func(t *testing.T) {
		t.Parallel()

		c := WithEqualityCheck(NewClass[widget]()).Build()
		eq, err := c.CastToInstance(&widget{label: "x"}).Equals(c.CastToInstance(&widget{label: "x"}))
		require.NoError(t, err)
		assert.True(t, eq)
	})

	t.Run("cross-type downcast fails", func(t *testing.T) {
		t.Parallel()

		wc := WithEqualityCheck(NewClass[widget]()).Build()
		gc := NewClass[gadget]().Build()

		_, err := wc.CastToInstance(&widget{}).Equals(gc.CastToInstance(&gadget{}))
		var downcast *DowncastError
		require.ErrorAs(t, err, &downcast)
		assert.Contains(t, downcast.Error(), "host.widget")
	})
}

func TestLastWriteWins(t *testing.T) {
	t.Parallel()

	c := NewClass[widget]().
		AddMethod("describe", func(*widget, []types.Term) (any, error) {
			return "first", nil
		}).
		AddMethod("describe", func(*widget, []types.Term) (any, error) {
			return "second", nil
		}).
		Build()

	h := New(nil)
	seq, err := c.CastToInstance(&widget{}).Call("describe", nil, h)
	require.NoError(t, err)
	terms, err := Collect(seq)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, types.String("second"), terms[0])
}

func TestIsInstance(t *testing.T) {
	t.Parallel()

	wc := NewClass[widget]().Build()
	gc := NewClass[gadget]().Build()

	winst := wc.CastToInstance(&widget{})
	ginst := gc.CastToInstance(&gadget{})

	assert.True(t, wc.IsInstance(winst))
	assert.False(t, wc.IsInstance(ginst))

	// The check inspects the payload, not the declaring class.
	duck := NewClass[gadget]().
		SetInstanceCheck(func(v any) bool { return true }).
		Build()
	assert.True(t, duck.IsInstance(winst))
}

func TestIsClass(t *testing.T) {
	t.Parallel()

	c := NewClass[widget]().Build()
	assert.True(t, IsClass[widget](c))
	assert.False(t, IsClass[gadget](c))

	wide := NewClass[widget]().
		SetTypeCheck(func(reflect.Type) bool { return true }).
		Build()
	assert.True(t, IsClass[gadget](wide))
}

func TestBuilderSnapshotIsolation(t *testing.T) {
	t.Parallel()

	b := NewClass[widget]().
		AddMethod("ping", func(*widget, []types.Term) (any, error) { return "pong", nil })
	first := b.Build()
	inst := first.CastToInstance(&widget{})

	// Mutating the builder after Build must not leak into the built class
	// or its existing instances.
	b.AddMethod("extra", func(*widget, []types.Term) (any, error) { return 1, nil })
	second := b.Build()

	h := New(nil)
	_, err := inst.Call("extra", nil, h)
	var unsupported *UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)

	seq, err := second.CastToInstance(&widget{}).Call("extra", nil, h)
	require.NoError(t, err)
	terms, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, types.List{types.Int(1)}, types.List(terms))
}

func TestAttr(t *testing.T) {
	t.Parallel()

	c := widgetClass()
	h := New(nil)
	inst := c.CastToInstance(&widget{label: "gear", size: 3})

	seq, err := inst.Attr("label", h)
	require.NoError(t, err)
	terms, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, []types.Term{types.String("gear")}, terms)

	_, err = inst.Attr("missing", h)
	var unsupported *UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "missing", unsupported.Operation)
}

func TestSharedValueAliasing(t *testing.T) {
	t.Parallel()

	c := widgetClass()
	h := New(nil)
	w := &widget{label: "gear", size: 1}

	a := c.CastToInstance(w)
	b := c.CastToInstance(w)

	seq, err := a.Call("resize", []types.Term{types.Int(9)}, h)
	require.NoError(t, err)
	_, err = Collect(seq)
	require.NoError(t, err)

	// Both instances alias the same underlying value.
	seq, err = b.Attr("size", h)
	require.NoError(t, err)
	terms, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, []types.Term{types.Int(9)}, terms)
}

func TestCallClassMethod(t *testing.T) {
	t.Parallel()

	c := NewClass[widget]().
		Name("Widget").
		AddClassMethod("version", func([]types.Term) (any, error) { return 2, nil }).
		Build()
	h := New(nil)

	seq, err := c.CallClassMethod("version", nil, h)
	require.NoError(t, err)
	terms, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, []types.Term{types.Int(2)}, terms)

	_, err = c.CallClassMethod("nope", nil, h)
	var unsupported *UnsupportedOperationError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "Widget", unsupported.TypeName)
}
