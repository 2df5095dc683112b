// Package engine implements the unidirectional dispatch store.
//
// The store owns one State value. Actions are reduced into a new State plus a
// list of Effects; effects are handed to an effect handler that performs the
// asynchronous work and re-enters the store with follow-up actions.
//
// ARCHITECTURE:
//
// Single-Owner Event Loop:
// All reductions happen on one goroutine, the owner context. Either the
// caller drives Dispatch directly from that goroutine, or Run drains the
// FIFO queue fed by Send. This gives:
//   - a total order over every state transition
//   - observers that only ever see committed states
//   - reproducible traces when the flow generator is fixed
//
// Event Processing Flow:
//  1. Send enqueues an action (safe from any goroutine)
//  2. Run dequeues it on the owner goroutine and calls Dispatch
//  3. Dispatch reduces, commits, publishes and records the transition
//  4. Each effect starts as a tracked task, in reducer order, without waiting
//  5. Handlers call their Dispatcher, which enqueues through Send again
//
// Flow tokens:
// Every external action starts a new flow. Follow-up actions inherit the flow
// of the effect that produced them, so a trace can be grouped by request and
// the per-flow step quota stops runaway effect loops.
//
// Dispatch is NOT goroutine-safe. Calling it from anywhere but the owner
// context is a programmer error; overlapping calls are detected and panic
// with ErrConcurrentDispatch.
package engine
