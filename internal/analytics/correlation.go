package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinSharedBooks is the minimum overlap required before a member pair's
// correlation is reported. One or two shared points produce spuriously
// perfect correlations, so such pairs are excluded entirely.
const MinSharedBooks = 3

// PairwiseCorrelation computes Pearson correlation and its two-sided
// p-value for every unordered member pair, restricted to books both rated.
// Pairs sharing fewer than MinSharedBooks books are excluded. Results are
// rounded for display and sorted descending by correlation.
func (a *Analyzer) PairwiseCorrelation(matrix *Matrix) []MemberCorrelation {
	var pairs []MemberCorrelation

	for i := 0; i < len(matrix.Members); i++ {
		for j := i + 1; j < len(matrix.Members); j++ {
			xs, ys := sharedColumns(matrix.Values[i], matrix.Values[j])
			if len(xs) < MinSharedBooks {
				continue
			}

			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) {
				continue // zero variance on the shared subset
			}

			pairs = append(pairs, MemberCorrelation{
				Member1:     matrix.Members[i],
				Member2:     matrix.Members[j],
				Correlation: roundTo(r, 3),
				PValue:      roundTo(pearsonPValue(r, len(xs)), 4),
				SharedBooks: len(xs),
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Correlation > pairs[j].Correlation
	})

	return pairs
}

// TasteSimilarityMatrix computes the full member-by-member correlation
// matrix with no minimum-overlap filter, for heatmap rendering where every
// cell needs a value. Pairs with no shared books yield NaN, meaning
// "insufficient data" rather than zero. The diagonal is 1 for any member
// with at least one rating.
func (a *Analyzer) TasteSimilarityMatrix(matrix *Matrix) *SimilarityMatrix {
	n := len(matrix.Members)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		if countRated(matrix.Values[i]) > 0 {
			values[i][i] = 1
		} else {
			values[i][i] = math.NaN()
		}
		for j := i + 1; j < n; j++ {
			xs, ys := sharedColumns(matrix.Values[i], matrix.Values[j])
			r := math.NaN()
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
			}
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &SimilarityMatrix{
		Members: append([]string(nil), matrix.Members...),
		Values:  values,
	}
}

// CosineSimilarityBooks transposes the member-by-book matrix to book
// vectors and computes pairwise cosine similarity. Missing values are
// imputed with that member's mean rating first, which lets books be
// compared despite uneven participation; the result is an approximation,
// not ground truth. Members with no ratings at all are dropped from the
// vectors, zero-norm vectors are skipped, and pairs are unordered with
// self-pairs excluded, sorted descending by similarity.
func (a *Analyzer) CosineSimilarityBooks(matrix *Matrix) []BookSimilarity {
	// Member (column-after-transpose) means over rated books only.
	memberMeans := make([]float64, len(matrix.Members))
	activeMembers := make([]int, 0, len(matrix.Members))
	for i, row := range matrix.Values {
		var rated []float64
		for _, v := range row {
			if !math.IsNaN(v) {
				rated = append(rated, v)
			}
		}
		if len(rated) > 0 {
			memberMeans[i] = mean(rated)
			activeMembers = append(activeMembers, i)
		}
	}

	// Book vectors over active members, mean-imputed.
	vectors := make([][]float64, len(matrix.Books))
	for b := range matrix.Books {
		vec := make([]float64, len(activeMembers))
		for vi, mi := range activeMembers {
			v := matrix.Values[mi][b]
			if math.IsNaN(v) {
				v = memberMeans[mi]
			}
			vec[vi] = v
		}
		vectors[b] = vec
	}

	var pairs []BookSimilarity
	for i := 0; i < len(matrix.Books); i++ {
		for j := i + 1; j < len(matrix.Books); j++ {
			n1 := floats.Norm(vectors[i], 2)
			n2 := floats.Norm(vectors[j], 2)
			if n1 == 0 || n2 == 0 {
				continue
			}
			sim := floats.Dot(vectors[i], vectors[j]) / (n1 * n2)
			pairs = append(pairs, BookSimilarity{
				Book1:      matrix.Books[i],
				Book2:      matrix.Books[j],
				Similarity: roundTo(sim, 3),
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})

	return pairs
}

// pearsonPValue computes the two-sided p-value for a Pearson correlation
// over n points via the Student-t transform.
func pearsonPValue(r float64, n int) float64 {
	if n < 3 {
		return math.NaN()
	}
	if 1-r*r <= 0 {
		return 0 // |r| == 1, perfectly collinear
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.CDF(-math.Abs(t))
}

func countRated(row []float64) int {
	count := 0
	for _, v := range row {
		if !math.IsNaN(v) {
			count++
		}
	}
	return count
}
