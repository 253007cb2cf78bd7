package analytics

import (
	"math"

	"bookpulse/internal/dataset"
)

// MemberBookMatrix builds the member-by-book table for the requested
// metric. Rows follow roster order and include every roster member, even
// those who rated nothing; columns are the books that received at least
// one rating, in chronological order. Missing cells are NaN.
//
// Every pairwise metric in this package derives from this matrix so they
// can never disagree about which ratings exist.
func (a *Analyzer) MemberBookMatrix(ratings []Rating, sessions []dataset.Session, metric Metric) *Matrix {
	rated := make(map[string]bool)
	for _, r := range ratings {
		rated[r.Book] = true
	}

	var books []string
	bookCol := make(map[string]int)
	for _, session := range sessions {
		if rated[session.Book] {
			bookCol[session.Book] = len(books)
			books = append(books, session.Book)
		}
	}

	memberRow := make(map[string]int, len(a.roster))
	values := make([][]float64, len(a.roster))
	for i, member := range a.roster {
		memberRow[member] = i
		row := make([]float64, len(books))
		for j := range row {
			row[j] = math.NaN()
		}
		values[i] = row
	}

	for _, r := range ratings {
		row, ok := memberRow[r.Member]
		if !ok {
			continue
		}
		values[row][bookCol[r.Book]] = r.Value(metric)
	}

	return &Matrix{
		Members: append([]string(nil), a.roster...),
		Books:   books,
		Values:  values,
	}
}

// sharedColumns returns the paired values at columns where neither row is NaN.
func sharedColumns(x, y []float64) ([]float64, []float64) {
	var xs, ys []float64
	for i := range x {
		if !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	return xs, ys
}
