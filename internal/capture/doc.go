// Package capture extracts subtitle playlist candidates from browser HAR
// exports.
//
// A capture session plays each episode in order with closed captions on, so
// the HAR holds one subtitle .m3u8 request per episode plus assorted variants
// (multiple languages, SDH and standard tracks, repeated requests). The
// package groups variants by the playlist UUID embedded in the CDN path,
// prefers the configured language and then SDH within each group, and orders
// the chosen playlists by request time so episodes can be numbered
// sequentially.
package capture
