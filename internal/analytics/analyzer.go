package analytics

import (
	"log/slog"
	"math"

	"bookpulse/internal/dataset"
)

// Analyzer computes derived statistics over a loaded session snapshot.
// Every method is a pure function of its inputs: the same snapshot always
// produces the same tables, with or without memoization in front.
type Analyzer struct {
	roster []string
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer for the given fixed roster.
func NewAnalyzer(roster []string, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{roster: roster, logger: logger}
}

// Roster returns the configured roster in order.
func (a *Analyzer) Roster() []string {
	return a.roster
}

// RatingsLong converts the wide per-session scores into one Rating row per
// (book, member) pair. A row is emitted only when BOTH likeability and
// importance are present; a member who gave only one of the two scores
// produces no Rating at all. Output order is deterministic: sessions in
// chronological order, members in roster order within each session.
func (a *Analyzer) RatingsLong(sessions []dataset.Session) []Rating {
	ratings := make([]Rating, 0, len(sessions)*len(a.roster))

	for _, session := range sessions {
		for _, member := range a.roster {
			scores, ok := session.Scores[member]
			if !ok {
				continue
			}
			if !scores.Likeability.Valid || !scores.Importance.Valid {
				continue // partial pairs are dropped, not recorded
			}
			ratings = append(ratings, Rating{
				Book:        session.Book,
				Date:        session.Date,
				Proposer:    session.Proposer,
				Index:       session.Index,
				Member:      member,
				Likeability: scores.Likeability.Value,
				Importance:  scores.Importance.Value,
			})
		}
	}

	return ratings
}

// mean returns the arithmetic mean, or NaN for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd returns the sample standard deviation. A single observation
// yields 0 by definition here, not NaN: single-rater books are "perfectly
// agreed", a deliberate normalization.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// roundTo rounds to the given number of decimal places for display.
func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
