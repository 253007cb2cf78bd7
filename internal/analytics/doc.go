// Package analytics is the statistics core of bookpulse. It reshapes the
// wide per-session rating sheet into a long-form rating table and derives
// aggregate, relational, and comparative statistics from it: book and
// member summaries, pairwise member correlation, book similarity,
// deviation-from-consensus metrics, and trend lines.
//
// Data flows strictly upward: sessions feed the long-form transform, which
// feeds aggregation, which feeds the relational metrics. Every function is
// pure and deterministic over its inputs.
package analytics
