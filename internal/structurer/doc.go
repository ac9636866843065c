// Package structurer converts merged caption cues into structured utterance
// records with timing, speaker attribution, and note classification.
//
// Speaker tags are recognized by the shouty-caps convention captions use
// ("ABBY:", "KELLY/CHRISTI:", "HOLLY (whispers):"); the parenthetical stage
// direction is dropped from the tag but the spoken text is kept. Tags are
// resolved through the speaker map; unknown tags pass through unchanged and
// are tallied so the map can be extended later.
package structurer
