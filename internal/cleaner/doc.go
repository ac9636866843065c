// Package cleaner turns merged caption cues into analysis-ready text.
//
// Cleaning strips markup tags, normalizes curly quotes, long dashes, and
// ellipses to ASCII, collapses whitespace, and drops adjacent duplicate lines
// that CDN segment overlap produces. The result is reflowed into a single
// paragraph plus a one-sentence-per-line rendering. Bracketed caption notes
// like [applause] are preserved by default and removed only when configured.
//
// Cleaning is idempotent: running it over already-clean text changes nothing.
package cleaner
