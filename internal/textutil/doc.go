// Package textutil provides text processing utilities shared by the caption
// pipeline: fingerprinting and similarity for episode title matching, word
// extraction for keyword statistics, stopword filtering, episode label
// formatting, and filename sanitization.
//
// Fingerprints use term frequency vectors normalized for efficient
// comparison. The tokenization process lowercases text, splits on
// non-alphanumeric characters, and filters tokens shorter than 3 characters.
// Words uses a looser dialogue-oriented pattern that keeps hyphens and
// apostrophes so contractions survive keyword counting.
package textutil
