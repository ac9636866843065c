// Package fetch downloads the caption segments of an episode playlist into
// the staging directory.
//
// Segments are fetched with a bounded worker pool and per-segment
// exponential-backoff retry. A segment that still fails after retries is
// recorded as missing rather than failing the episode; the merger's gap
// detection reports the resulting hole in coverage.
package fetch
