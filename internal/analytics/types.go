package analytics

import (
	"time"
)

// Metric selects which rating axis a computation runs over.
type Metric string

const (
	// MetricLikeability selects the likeability axis
	MetricLikeability Metric = "likeability"
	// MetricImportance selects the importance axis
	MetricImportance Metric = "importance"
)

// Rating is one long-form row: one member's (likeability, importance) pair
// for one book, with the session metadata carried along so downstream
// aggregations never need a separate join.
type Rating struct {
	Book        string    `json:"book"`
	Date        time.Time `json:"date"`
	Proposer    string    `json:"proposer"`
	Index       int       `json:"index"`
	Member      string    `json:"member"`
	Likeability float64   `json:"likeability"`
	Importance  float64   `json:"importance"`
}

// Value returns the rating value on the requested axis.
func (r Rating) Value(metric Metric) float64 {
	if metric == MetricImportance {
		return r.Importance
	}
	return r.Likeability
}

// BookSummary is one row per book: aggregate statistics plus session
// metadata, ordered by chronological index.
type BookSummary struct {
	Book           string    `json:"book"`
	Date           time.Time `json:"date"`
	Proposer       string    `json:"proposer"`
	Index          int       `json:"index"`
	AvgLikeability float64   `json:"avg_likeability"`
	AvgImportance  float64   `json:"avg_importance"`
	StdLikeability float64   `json:"std_likeability"`
	StdImportance  float64   `json:"std_importance"`
	NumRaters      int       `json:"num_raters"`
}

// MemberStat summarizes everything a member has given: counts, attendance,
// and distribution statistics on both axes.
type MemberStat struct {
	Member           string  `json:"member"`
	BooksRated       int     `json:"books_rated"`
	AttendanceRate   float64 `json:"attendance_rate"`
	AvgLikeability   float64 `json:"avg_likeability"`
	AvgImportance    float64 `json:"avg_importance"`
	StdLikeability   float64 `json:"std_likeability"`
	StdImportance    float64 `json:"std_importance"`
	MinLikeability   float64 `json:"min_likeability"`
	MaxLikeability   float64 `json:"max_likeability"`
	RangeLikeability float64 `json:"range_likeability"`
	MinImportance    float64 `json:"min_importance"`
	MaxImportance    float64 `json:"max_importance"`
	RangeImportance  float64 `json:"range_importance"`
}

// Matrix is the member-by-book rating table: rows follow roster order,
// columns follow chronological book order, and missing cells are NaN.
// Every pairwise metric is derived from this shared substrate.
type Matrix struct {
	Members []string    `json:"members"`
	Books   []string    `json:"books"`
	Values  [][]float64 `json:"values"`
}

// Row returns the value slice for a member, or nil if unknown.
func (m *Matrix) Row(member string) []float64 {
	for i, name := range m.Members {
		if name == member {
			return m.Values[i]
		}
	}
	return nil
}

// MemberCorrelation is one unordered member pair with Pearson correlation
// over their shared books.
type MemberCorrelation struct {
	Member1     string  `json:"member_1"`
	Member2     string  `json:"member_2"`
	Correlation float64 `json:"correlation"`
	PValue      float64 `json:"p_value"`
	SharedBooks int     `json:"shared_books"`
}

// SimilarityMatrix is the full member-by-member correlation matrix.
// Cells without overlapping books are NaN, which renderers must treat as
// "insufficient data", never as zero.
type SimilarityMatrix struct {
	Members []string    `json:"members"`
	Values  [][]float64 `json:"values"`
}

// BookSimilarity is one unordered book pair with cosine similarity over
// mean-imputed member rating vectors.
type BookSimilarity struct {
	Book1      string  `json:"book_1"`
	Book2      string  `json:"book_2"`
	Similarity float64 `json:"similarity"`
}

// HotTake is one rating's signed deviation from its book's mean likeability.
type HotTake struct {
	Book         string  `json:"book"`
	Member       string  `json:"member"`
	Likeability  float64 `json:"likeability"`
	BookAvg      float64 `json:"book_avg"`
	Deviation    float64 `json:"deviation"`
	AbsDeviation float64 `json:"abs_deviation"`
}

// ContrarianScore is the fraction of a member's ratings deviating more
// than one point from the book's group mean.
type ContrarianScore struct {
	Member          string  `json:"member"`
	ContrarianCount int     `json:"contrarian_count"`
	TotalRated      int     `json:"total_rated"`
	ContrarianRate  float64 `json:"contrarian_rate"`
}

// AgreementScore is a member's mean absolute deviation from group means;
// lower means closer tracking of consensus.
type AgreementScore struct {
	Member       string  `json:"member"`
	AvgDeviation float64 `json:"avg_deviation"`
}

// ProposerBias compares a proposer's own rating of their picks against the
// group mean (which includes the proposer themselves).
type ProposerBias struct {
	Member    string  `json:"member"`
	OwnRating float64 `json:"own_rating"`
	GroupAvg  float64 `json:"group_avg"`
	Books     int     `json:"books"`
	Bias      float64 `json:"bias"`
}

// ProposerPerformance aggregates how the group received each proposer's picks.
type ProposerPerformance struct {
	Proposer       string  `json:"proposer"`
	BooksProposed  int     `json:"books_proposed"`
	AvgLikeability float64 `json:"avg_likeability"`
	AvgImportance  float64 `json:"avg_importance"`
}

// RatingDeviation is a rating annotated with its book mean and signed deviation.
type RatingDeviation struct {
	Rating
	BookAvg   float64 `json:"book_avg"`
	Deviation float64 `json:"deviation"`
}

// TrendPoint is a book summary with trailing rolling means over the three
// most recent sessions.
type TrendPoint struct {
	BookSummary
	RollingLikeability float64 `json:"rolling_likeability"`
	RollingImportance  float64 `json:"rolling_importance"`
}

// SeasonalStat aggregates session averages by calendar month.
type SeasonalStat struct {
	Month          int     `json:"month"`
	MonthName      string  `json:"month_name"`
	AvgLikeability float64 `json:"avg_likeability"`
	Count          int     `json:"count"`
}

// GenreCount is one genre tag with its occurrence count across the
// enrichment store.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Attendance records whether a member rated a book.
type Attendance struct {
	Book   string `json:"book"`
	Member string `json:"member"`
	Rated  bool   `json:"rated"`
}
