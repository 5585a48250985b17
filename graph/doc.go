// Package graph implements the workflow engine: a directed graph of named
// steps with a distinguished entry step and a terminal sink. Each step
// consumes the current conversation state and returns a partial update; the
// engine merges it and evaluates the outgoing edge to pick the next step.
//
// Two edge kinds are supported: unconditional (fixed next step) and
// conditional (a pure function of the merged state mapping to a labeled
// outcome). Conditional outcome sets are declared up front and validated
// exhaustively when the graph is compiled, so an unmapped outcome is a
// construction error rather than a runtime surprise.
//
// Execution is single-threaded per run. The compiled graph holds no mutable
// state, so one Graph instance may serve any number of concurrent runs, each
// owning its own state value.
package graph
