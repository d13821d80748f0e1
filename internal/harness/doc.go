// Package harness runs scripted scenarios against a journaled stack store.
//
// # Scenario Format
//
// Scenarios are YAML or CUE files. CUE files are checked against the
// embedded #Scenario schema before decoding.
//
//	name: composite
//	description: "Three nested pushes commit as one notification"
//	initial: []
//	budget: 100
//	steps:
//	  - dispatch: {type: PUSH, value: 0}
//	  - speculate:
//	      branch: true
//	      deep_equal: true
//	      ops:
//	        - push: 1
//	        - pop: true
//	        - push_until: {length: 3, value: x}
//	        - speculate: {ops: [{push: 2}], execute: true}
//	      execute: true
//	      expect: {can_execute: true, executed: true}
//	final_state: [0, x, x, 2]
//	notifications: 2
//	assertions:
//	  - type: trace_count
//	    kind: commit
//	    depth: 1
//	    count: 1
//	  - type: trace_order
//	    kinds: [dispatch, evaluate, commit]
//
// Ops form the body of a speculative action's procedure; a fail op makes it
// return an error. Under the counting
// strategy the body runs twice, once against a probe and once on execute.
// push_until reads getState on every iteration and gives up with a
// StepBudgetError after its budget, which is how a loop that cannot see its
// own pushes is reported instead of hanging.
//
// # Determinism
//
// Each run uses a fresh in-memory journal unless WithJournal is given, a
// fixed session id and a resettable logical clock, so traces are
// byte-identical across runs and can be compared with golden files.
package harness
