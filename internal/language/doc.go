// Package language provides unified language code normalization.
//
// Caption playlists name their tracks with a mix of ISO 639-1 codes,
// ISO 639-2 codes, and full words ("sub_en_...", "sub_eng_...",
// "english"). Conversions are consolidated here so configuration and
// capture classification agree on one canonical form.
package language
