// Package dataset provides raw data access for the book-club analytics
// core: loading the session sheet (CSV or XLSX), the optional enrichment
// store, and assembling both into an immutable content-hashed Snapshot
// that all derived statistics are recomputed from.
package dataset
