// Package files locates oscillation source files on disk.
//
// Discovery matches directory entries against a fixed set of glob patterns,
// ignoring case, so "BHADLA OSCILLATION DATA_01.CSV" and
// "Bhadla Oscillation Data_01.csv" are both found. Results are deduplicated
// and sorted by path, which makes every downstream step deterministic.
//
// Snapshot fingerprints a located file list (path, size, modification time)
// so callers can decide whether a cached result is still valid.
//
// Example usage:
//
//	discovery := files.NewDiscovery(config.DefaultPatterns, logger)
//	sources := discovery.FindSourceFiles("/srv/oscillation")
package files
