// Package dataprocessing turns oscillation source files into a clean,
// sub-minute resolved dataset.
//
// # Architecture
//
// The package is organized into five components:
//
// 1. Loader: reads one file through a FormatHandler (CSV, XLSX, XLS), checks
// the STARTDATE/HZ/VPM header and coerces values
// 2. Reconstructor: spreads the k samples of one coarse timestamp evenly over
// its window, offsets i*window/k
// 3. Cleaner: fills missing HZ values by interpolation, extending the nearest
// value into leading and trailing gaps
// 4. Aggregate: merges per-file results into a read-only Dataset
// 5. Summarizer: max/min/peak-to-peak and friends per source
//
// # Data Flow
//
//	SourceFile → Loader → RawRecords → Reconstructor → Cleaner → Aggregate → Dataset
//
// # Error Handling
//
// Loader.Load and Cleaner.Clean return *errors.AppError values. A returned
// error always means "skip this file"; the caller decides how to report it.
// Row-level problems never produce an error: a row with an unparseable
// timestamp is dropped and counted, an unparseable number becomes a missing
// reading.
package dataprocessing
