// Package pipeline wires discovery, loading, reconstruction, cleaning and
// aggregation into one run.
//
// A run never fails because of a bad file. Every file-level problem is
// logged, counted and returned as a domain.Diagnostic, and the remaining
// files still make up the Dataset. Cancellation of the context is the only
// error a run returns.
//
// With Workers > 1 files are processed concurrently, bounded by an errgroup
// limit. Results are merged in located order, so the Dataset is identical to
// the one a sequential run produces.
//
// Memo is the single caching point: callers decide when a cached Result is
// stale by passing a new snapshot or calling Invalidate.
package pipeline
