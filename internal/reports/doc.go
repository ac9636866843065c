// Package reports builds offline speaker reports from structured transcript
// files. It walks season directories under the processed data root, tallies
// speaker tags that the speaker map does not know, and aggregates per-episode
// utterance counts into CSV form for review.
package reports
