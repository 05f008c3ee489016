// Package store provides the immutable in-memory Data Store for eventdash.
//
// A Table is loaded once at process start from a delimited text file (or a
// SQLite file produced by `eventdash import`) and is never mutated after
// that. Every recomputation rule reads the same *Table without locking.
//
// # Critical Patterns
//
// Key column is text:
//   - The key column (default "Run") is stored as text even when every cell
//     looks numeric, so runs color as categories rather than on a color bar
//
// Column typing:
//   - A column is numeric when every non-empty cell parses as a float
//   - Empty cells in a numeric column are missing values (NaN internally)
//   - Everything else is text
//
// Deterministic lookups:
//   - Columns() is header order
//   - UniqueValues() is first-occurrence order
//   - Accessors return copies; callers cannot mutate the table
//
// # Load Errors
//
// Load fails with *LoadError (codes MISSING_FILE, UNREADABLE, MALFORMED,
// MISSING_KEY_COLUMN). A load error is fatal: the dashboard cannot start.
package store
