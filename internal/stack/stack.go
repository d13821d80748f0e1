// Package stack is a small application domain for the speculative store: the
// state is a sequence of IR values and the reducer supports PUSH and POP.
package stack

import (
	"github.com/roach88/specstore/internal/ir"
	"github.com/roach88/specstore/internal/store"
)

// Action types handled by Reducer.
const (
	TypePush = "PUSH"
	TypePop  = "POP"
)

// Push returns an action appending v to the stack.
func Push(v ir.Value) store.Action {
	return store.Action{Type: TypePush, Payload: v}
}

// Pop returns an action removing the top of the stack.
func Pop() store.Action {
	return store.Action{Type: TypePop}
}

// Reducer applies PUSH and POP.
//
// PUSH always returns a freshly allocated array, so earlier snapshots are
// never aliased by later pushes. POP on an empty stack returns state itself,
// which lets identity comparison see the no-op. Unknown action types, and
// PUSH without an ir.Value payload, return state unchanged.
func Reducer(state ir.Array, action store.Action) ir.Array {
	switch action.Type {
	case TypePush:
		v, ok := action.Payload.(ir.Value)
		if !ok {
			return state
		}
		next := make(ir.Array, len(state), len(state)+1)
		copy(next, state)
		return append(next, v)

	case TypePop:
		if len(state) == 0 {
			return state
		}
		return state[:len(state)-1:len(state)-1]

	default:
		return state
	}
}

// Top returns the last element, or false when the stack is empty.
func Top(state ir.Array) (ir.Value, bool) {
	if len(state) == 0 {
		return nil, false
	}
	return state[len(state)-1], true
}
