// Package merger combines per-segment caption documents into one episode
// transcript.
//
// HLS subtitle segments overlap at their boundaries, so the same cue often
// appears in two consecutive segments. Merging sorts all cues by time, drops
// exact duplicates (same start, end, and text) keeping the first occurrence,
// and preserves overlapping cues whose text differs. Silences longer than the
// configured threshold are reported as capture gaps; gaps are advisory and
// never fail the merge.
package merger
