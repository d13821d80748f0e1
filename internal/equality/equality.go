// Package equality decides whether two state snapshots are the same.
//
// Identity asks whether two snapshots are the same value in Go's native
// sense: the same pointer, map, channel or slice window, == for basic
// values, applied field by field for structs and arrays. Deep adds a
// structural comparison after the identity fast path, which catches
// transitions whose net effect cancels out.
package equality

import (
	"fmt"
	"reflect"

	"github.com/roach88/specstore/internal/ir"
)

// Mode selects how Unchanged compares snapshots.
type Mode int

const (
	// Identity compares by reference or native value equality only.
	Identity Mode = iota
	// Deep falls back to structural comparison when Identity fails.
	Deep
)

func (m Mode) String() string {
	switch m {
	case Identity:
		return "identity"
	case Deep:
		return "deep"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFor maps a deep-equal flag to a Mode.
func ModeFor(deep bool) Mode {
	if deep {
		return Deep
	}
	return Identity
}

// Unchanged reports whether next should be treated as the same state as prev.
func Unchanged(prev, next any, mode Mode) bool {
	if Identical(prev, next) {
		return true
	}
	if mode != Deep {
		return false
	}
	return Structural(prev, next)
}

// Identical reports whether a and b are the same value.
//
// Reference kinds compare by address; slices additionally need the same
// length. Functions are never identical unless both are nil. Structs and
// arrays are identical when every field or element is, so a value type
// holding a slice is identical to a copy of itself but not to a rebuilt one.
// Everything else compares with ==.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return identical(reflect.ValueOf(a), reflect.ValueOf(b))
}

// identical works on reflect values so unexported fields can be visited
// without Interface.
func identical(va, vb reflect.Value) bool {
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return identical(va.Elem(), vb.Elem())
	case reflect.Struct:
		for i := 0; i < va.NumField(); i++ {
			if !identical(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < va.Len(); i++ {
			if !identical(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true
	}
	return va.Equal(vb)
}

// Structural compares a and b field by field. IR values use ir.Equal, so a
// nil and an empty collection are equal; everything else uses
// reflect.DeepEqual.
func Structural(a, b any) bool {
	av, aIR := a.(ir.Value)
	bv, bIR := b.(ir.Value)
	if aIR && bIR {
		return ir.Equal(av, bv)
	}
	return reflect.DeepEqual(a, b)
}
