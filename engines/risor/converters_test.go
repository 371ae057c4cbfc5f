package risor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-polybridge/host"
	"github.com/robbyt/go-polybridge/types"
)

type sensor struct {
	id       string
	readings []int
}

func sensorClass() *host.Class {
	return host.NewClass[sensor]().
		Name("Sensor").
		AddAttributeGetter("id", func(s *sensor) any { return s.id }).
		AddAttributeGetter("readings", func(s *sensor) any { return s.readings }).
		Build()
}

func TestMaterialize(t *testing.T) {
	t.Parallel()

	h := host.New(nil)
	require.NoError(t, h.RegisterClass(sensorClass()))

	tests := []struct {
		name string
		in   types.Term
		want any
	}{
		{name: "bool", in: types.Bool(true), want: true},
		{name: "int", in: types.Int(42), want: int64(42)},
		{name: "float", in: types.Float(0.5), want: 0.5},
		{name: "string", in: types.String("x"), want: "x"},
		{
			name: "list",
			in:   types.List{types.Int(1), types.String("y")},
			want: []any{int64(1), "y"},
		},
		{
			name: "dict",
			in:   types.Dict{"k": types.Bool(false)},
			want: map[string]any{"k": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Materialize(tt.in, h)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("foreign instance becomes an attribute snapshot", func(t *testing.T) {
		t.Parallel()

		term, err := host.ToTerm(&sensor{id: "s1", readings: []int{3, 4}}, h)
		require.NoError(t, err)

		got, err := Materialize(term, h)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"id":       "s1",
			"readings": []any{int64(3), int64(4)},
		}, got)
	})

	t.Run("dangling foreign reference fails", func(t *testing.T) {
		t.Parallel()

		_, err := Materialize(types.Foreign{ID: 9999}, h)
		require.Error(t, err)
	})
}

func TestGlobalOptions(t *testing.T) {
	t.Parallel()

	h := host.New(nil)
	require.NoError(t, h.RegisterClass(sensorClass()))
	require.NoError(t, h.RegisterConstant("threshold", 7))
	require.NoError(t, h.RegisterConstant("probe", &sensor{id: "s2"}))

	opts, err := GlobalOptions(h, "ctx")
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts := Options("ctx", map[string]any{"a": 1})
	assert.Len(t, opts, 1)
}
