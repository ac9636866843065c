// Package vtt reads and writes WebVTT subtitle documents.
//
// The parser is deliberately strict about cue timing lines (two-digit hours,
// millisecond precision) because the caption CDN emits exactly that shape;
// anything else on a timing line is counted as malformed and skipped rather
// than failing the whole document. Header, STYLE, NOTE, and cue identifier
// lines are tolerated and ignored.
package vtt
