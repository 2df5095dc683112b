// Package harness runs scripted scenarios against a real store.
//
// A scenario seeds storage and the network, dispatches a sequence of
// actions, waits for the store to go idle after each one and then checks
// the recorded trace and the final state.
//
// # Scenario Format
//
//	name: fetch_counter
//	description: "Fetching from storage toggles the loader around the update"
//	initial: { counter: 0 }
//	storage: { counter: 42 }
//	network: [17]
//	flow:
//	  - dispatch: counter.fetch_from_storage
//	    expect: { counter: 42, is_loading: false }
//	assertions:
//	  - type: trace_order
//	    actions: [loader.toggle:true, counter.update:42, loader.toggle:false]
//	  - type: stored
//	    expect: { counter: 42 }
//
// Files are checked against a CUE schema before they are decoded, so typos
// and misplaced fields are reported with their path.
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace
//   - trace_order: actions appear in the given relative order
//   - trace_count: an action appears exactly N times
//   - effects: the effects emitted, in order
//   - final_state: a subset of the final state
//   - stored: a subset of what ended up in storage
//
// Actions in assertions match either the full textual form
// ("counter.update:42") or just the name ("counter.update").
//
// # Deterministic Testing
//
// Flow tokens come from a sequence generator ("<flow_prefix>-0001", ...)
// and the logical clock starts at zero, so the same scenario always produces
// a byte-identical canonical trace for golden comparison.
package harness
