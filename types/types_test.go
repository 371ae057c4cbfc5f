package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Term
		want string
	}{
		{name: "bool", in: Bool(true), want: "true"},
		{name: "int", in: Int(-42), want: "-42"},
		{name: "float", in: Float(1.5), want: "1.5"},
		{name: "string", in: String("hi"), want: `"hi"`},
		{name: "list", in: List{Int(1), String("x")}, want: `[1, "x"]`},
		{
			name: "dict keys are sorted",
			in:   Dict{"b": Int(2), "a": Int(1)},
			want: `{"a": 1, "b": 2}`,
		},
		{name: "foreign with repr", in: Foreign{ID: 3, Repr: "Instance<Widget>"}, want: "Instance<Widget>"},
		{name: "foreign without repr", in: Foreign{ID: 3}, want: "Instance<3>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}
