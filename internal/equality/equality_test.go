package equality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/specstore/internal/ir"
)

type point struct{ X, Y int }

type holder struct{ Items []int }

type ledger struct {
	name string
	rows []int
}

func TestIdentical(t *testing.T) {
	backing := []int{1, 2, 3}
	m := map[string]int{"a": 1}
	p := &point{1, 2}
	fn := func() {}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", nil, 1, false},
		{"ints", 4, 4, true},
		{"different types", int32(4), int64(4), false},
		{"strings", "x", "x", true},
		{"same pointer", p, p, true},
		{"equal pointees", p, &point{1, 2}, false},
		{"same map", m, m, true},
		{"equal maps", m, map[string]int{"a": 1}, false},
		{"same slice", backing, backing, true},
		{"same backing shorter", backing, backing[:2], false},
		{"equal slices", backing, []int{1, 2, 3}, false},
		{"nil slices", []int(nil), []int(nil), true},
		{"comparable struct", point{1, 2}, point{1, 2}, true},
		{"struct with shared slice", holder{backing}, holder{backing}, true},
		{"struct with rebuilt slice", holder{backing}, holder{[]int{1, 2, 3}}, false},
		{"struct with nil slices", holder{}, holder{}, true},
		{"array of slices", [2][]int{backing, nil}, [2][]int{backing, nil}, true},
		{"array of rebuilt slices", [1][]int{backing}, [1][]int{{1, 2, 3}}, false},
		{"comparable array", [2]int{1, 2}, [2]int{1, 2}, true},
		{"struct holding map", struct{ M map[string]int }{m}, struct{ M map[string]int }{m}, true},
		{"struct holding other map", struct{ M map[string]int }{m}, struct{ M map[string]int }{map[string]int{"a": 1}}, false},
		{"unexported fields", ledger{name: "a", rows: backing}, ledger{name: "a", rows: backing}, true},
		{"unexported fields differ", ledger{name: "a", rows: backing}, ledger{name: "b", rows: backing}, false},
		{"funcs", fn, fn, false},
		{"struct holding func", struct{ F func() }{fn}, struct{ F func() }{fn}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identical(tt.a, tt.b))
		})
	}
}

func TestIdentical_InterfaceHoldingUncomparable(t *testing.T) {
	type box struct{ V any }
	a := box{V: []int{1}}
	assert.NotPanics(t, func() { Identical(a, a) })
	assert.True(t, Identical(a, a))
	assert.False(t, Identical(a, box{V: []int{1}}))
	assert.True(t, Identical(box{}, box{}))
	assert.False(t, Identical(box{V: 1}, box{}))
	assert.False(t, Identical(box{V: int32(1)}, box{V: int64(1)}))
}

func TestUnchanged_IdentityValueTypes(t *testing.T) {
	states := map[string]any{
		"struct with slice": holder{Items: []int{1}},
		"array of slices":   [2][]int{{1}, {2}},
		"map":               map[string][]int{"a": {1}},
		"unexported fields": ledger{name: "x", rows: []int{1}},
	}

	for name, s := range states {
		t.Run(name, func(t *testing.T) {
			assert.True(t, Unchanged(s, s, Identity))
			assert.True(t, Unchanged(s, s, Deep))
		})
	}

	assert.False(t, Unchanged(holder{Items: []int{1}}, holder{Items: []int{1}}, Identity))
	assert.True(t, Unchanged(holder{Items: []int{1}}, holder{Items: []int{1}}, Deep))
}

func TestUnchanged_Identity(t *testing.T) {
	s := ir.Array{ir.Int(1)}

	assert.True(t, Unchanged(s, s, Identity))
	assert.False(t, Unchanged(s, ir.Array{ir.Int(1)}, Identity))
}

func TestUnchanged_Deep(t *testing.T) {
	s := ir.Array{ir.Int(1)}

	assert.True(t, Unchanged(s, s, Deep))
	assert.True(t, Unchanged(s, ir.Array{ir.Int(1)}, Deep))
	assert.False(t, Unchanged(s, ir.Array{ir.Int(2)}, Deep))

	// Push-then-pop on an empty stack leaves an empty, non-nil slice.
	assert.True(t, Unchanged(ir.Array(nil), ir.Array{}, Deep))
	assert.False(t, Unchanged(ir.Array(nil), ir.Array{}, Identity))
}

func TestUnchanged_DeepNonIR(t *testing.T) {
	assert.True(t, Unchanged(holder{[]int{1}}, holder{[]int{1}}, Deep))
	assert.False(t, Unchanged(holder{[]int{1}}, holder{[]int{2}}, Deep))
	assert.True(t, Unchanged(map[string]int{"a": 1}, map[string]int{"a": 1}, Deep))
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, Deep, ModeFor(true))
	assert.Equal(t, Identity, ModeFor(false))
	assert.Equal(t, "deep", Deep.String())
	assert.Equal(t, "identity", Identity.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
