// Package ir provides the value types shared by every eventdash layer.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the control, pointer
// and artifact shapes in one place for the engine, the session layer, the
// HTTP API and the test harness.
//
// Key design constraints:
//   - Controls and pointer events hold strings and ints only, so they can be
//     fingerprinted with canonical JSON (no floats, no nulls)
//   - Artifacts are declarative chart descriptions, rebuilt from scratch on
//     every recomputation
//   - All JSON tags use snake_case
package ir
