// Package metadata joins captured episodes against the show's episode table.
//
// The table is scraped from a reference wiki into JSON or CSV with one row
// per aired episode (season, in-season number, overall number, title, air
// date, viewership, production code, notes). Joining is by (season, episode)
// first; rows that miss fall back to the overall episode number and then to
// title similarity, and any fallback match is flagged as a likely special so
// downstream consumers can treat its numbering with suspicion. A miss never
// fails the pipeline; the row is exported with empty enrichment columns and
// metadata_matched=false.
package metadata
