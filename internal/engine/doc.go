// Package engine implements the eventdash view-state graph.
//
// The graph maps named controls (run filter, attribute, x, y, z) and pointer
// events to named chart artifacts through pure recomputation rules. Every
// rule is a function of the immutable table, a snapshot of the controls it
// reads, and (for the drill-down) the last pointer event on the scatter.
//
// ARCHITECTURE:
//
// Declared edges:
// Each artifact node lists the controls it reads and the pointer source it
// consumes. Dependents() and PointerDependents() answer "what must be
// recomputed when X changes" from those declarations; nothing is inferred
// at runtime.
//
// Static artifacts:
// The proportion pies read no controls. They are computed once in New()
// and Recompute() returns the cached result (or cached error) forever.
//
// Recomputation is synchronous and holds no locks: the table is read-only
// and the graph is never mutated after New() returns. Session state lives
// in package session.
//
// CRITICAL PATTERNS:
//
// Deterministic output:
// Series follow first-occurrence order of the key column, so curve number
// i is always the i-th distinct run. Heatmap columns follow table order.
// Recomputing with equal inputs yields equal artifacts and equal keys.
//
// No NaN leaves the engine:
// Missing values are dropped and counted (omitted, missing) so artifacts
// always serialize as JSON.
package engine
