// Package summary aggregates structured utterances into per-season keyword,
// bigram, and speaker statistics plus a short generated abstract.
//
// Stopwords are removed before counting and bigrams are formed over the
// filtered token stream, so a bigram can bridge a removed stopword. Ties
// order by term so repeated runs produce identical output.
package summary
