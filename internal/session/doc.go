// Package session holds per-client view state: the current controls, the
// last accepted pointer event, and the last good artifact per name.
//
// A Session turns control changes and pointer events into recomputations on
// the shared engine.Graph. Failures never replace a good artifact; they are
// reported in the Update and remembered until the next success.
//
// Thread-safety: Manager and Session are safe for concurrent use. Each
// session serializes its own updates; sessions never block each other.
package session
