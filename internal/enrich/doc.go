// Package enrich produces the bibliographic metadata store consumed by the
// dataset loader. It queries Open Library and Google Books per title with
// rate limiting and retry, merges the two results, and persists the store
// as JSON keyed by exact book title.
package enrich
