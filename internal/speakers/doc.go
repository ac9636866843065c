// Package speakers maps raw caption speaker tags onto canonical cast names
// and roles.
//
// The mapping is a small CSV (speaker, canonical, role, aliases) maintained
// by hand. Lookups are case-insensitive and unmatched tags pass through
// unchanged so the pipeline never stalls on an unknown speaker; misses are
// tallied for the review report instead.
package speakers
