package services

import (
	"fmt"
	"log/slog"

	"bookpulse/internal/analytics"
	"bookpulse/internal/awards"
	"bookpulse/internal/dataset"
)

// AnalyticsService owns one immutable snapshot and serves every derived
// table from it. Derivations are memoized under the snapshot content hash,
// so a service built on a fresh snapshot never sees stale entries and a
// NopMemoizer changes nothing but speed.
type AnalyticsService struct {
	snapshot *dataset.Snapshot
	analyzer *analytics.Analyzer
	memo     dataset.Memoizer
	logger   *slog.Logger
}

// NewAnalyticsService creates the service. A nil memoizer disables caching.
func NewAnalyticsService(snapshot *dataset.Snapshot, analyzer *analytics.Analyzer, memo dataset.Memoizer, logger *slog.Logger) *AnalyticsService {
	if memo == nil {
		memo = dataset.NopMemoizer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		snapshot: snapshot,
		analyzer: analyzer,
		memo:     memo,
		logger:   logger,
	}
}

// Snapshot returns the snapshot the service was built on.
func (s *AnalyticsService) Snapshot() *dataset.Snapshot {
	return s.snapshot
}

func (s *AnalyticsService) key(derivation string) string {
	return s.snapshot.Hash + ":" + derivation
}

// Ratings returns the long-form rating table.
func (s *AnalyticsService) Ratings() []analytics.Rating {
	return dataset.Memoize(s.memo, s.key("ratings"), func() []analytics.Rating {
		return s.analyzer.RatingsLong(s.snapshot.Sessions)
	})
}

// Summary returns per-book aggregate statistics in chronological order.
func (s *AnalyticsService) Summary() []analytics.BookSummary {
	return dataset.Memoize(s.memo, s.key("summary"), func() []analytics.BookSummary {
		return s.analyzer.BookSummary(s.Ratings(), s.snapshot.Sessions)
	})
}

// Controversy returns the summary table ranked by rating spread.
func (s *AnalyticsService) Controversy() []analytics.BookSummary {
	return dataset.Memoize(s.memo, s.key("controversy"), func() []analytics.BookSummary {
		return s.analyzer.BookControversy(s.Summary())
	})
}

// MemberStats returns per-member aggregate statistics.
func (s *AnalyticsService) MemberStats() []analytics.MemberStat {
	return dataset.Memoize(s.memo, s.key("member-stats"), func() []analytics.MemberStat {
		return s.analyzer.MemberStats(s.Ratings())
	})
}

func (s *AnalyticsService) likeabilityMatrix() *analytics.Matrix {
	return dataset.Memoize(s.memo, s.key("matrix-likeability"), func() *analytics.Matrix {
		return s.analyzer.MemberBookMatrix(s.Ratings(), s.snapshot.Sessions, analytics.MetricLikeability)
	})
}

// Correlations returns pairwise member correlations on likeability.
func (s *AnalyticsService) Correlations() []analytics.MemberCorrelation {
	return dataset.Memoize(s.memo, s.key("correlations"), func() []analytics.MemberCorrelation {
		return s.analyzer.PairwiseCorrelation(s.likeabilityMatrix())
	})
}

// TasteMatrix returns the full member-by-member similarity matrix.
func (s *AnalyticsService) TasteMatrix() *analytics.SimilarityMatrix {
	return dataset.Memoize(s.memo, s.key("taste-matrix"), func() *analytics.SimilarityMatrix {
		return s.analyzer.TasteSimilarityMatrix(s.likeabilityMatrix())
	})
}

// BookSimilarities returns book pairs ranked by cosine similarity.
func (s *AnalyticsService) BookSimilarities() []analytics.BookSimilarity {
	return dataset.Memoize(s.memo, s.key("book-similarities"), func() []analytics.BookSimilarity {
		return s.analyzer.CosineSimilarityBooks(s.likeabilityMatrix())
	})
}

// HotTakes returns ratings deviating from the book mean by more than the
// threshold. The threshold is part of the memo key.
func (s *AnalyticsService) HotTakes(threshold float64) []analytics.HotTake {
	key := s.key(fmt.Sprintf("hot-takes:%g", threshold))
	return dataset.Memoize(s.memo, key, func() []analytics.HotTake {
		return s.analyzer.HotTakes(s.Ratings(), threshold)
	})
}

// Contrarians returns per-member contrarian rates.
func (s *AnalyticsService) Contrarians() []analytics.ContrarianScore {
	return dataset.Memoize(s.memo, s.key("contrarians"), func() []analytics.ContrarianScore {
		return s.analyzer.ContrarianIndex(s.Ratings())
	})
}

// Agreement returns per-member average deviation, most agreeable first.
func (s *AnalyticsService) Agreement() []analytics.AgreementScore {
	return dataset.Memoize(s.memo, s.key("agreement"), func() []analytics.AgreementScore {
		return s.analyzer.AgreementScores(s.Ratings())
	})
}

// ProposerBiases returns how each proposer rates their own picks against
// the group.
func (s *AnalyticsService) ProposerBiases() []analytics.ProposerBias {
	return dataset.Memoize(s.memo, s.key("proposer-biases"), func() []analytics.ProposerBias {
		return s.analyzer.ProposerBiases(s.Ratings())
	})
}

// ProposerPerformance returns how each proposer's picks were received.
func (s *AnalyticsService) ProposerPerformance() []analytics.ProposerPerformance {
	return dataset.Memoize(s.memo, s.key("proposer-performance"), func() []analytics.ProposerPerformance {
		return s.analyzer.ProposerPerformance(s.Summary())
	})
}

// Awards assembles the full superlative board.
func (s *AnalyticsService) Awards() awards.Board {
	return dataset.Memoize(s.memo, s.key("awards"), func() awards.Board {
		summaries := s.Summary()
		return awards.Board{
			Books: awards.BookAwards(summaries),
			Members: awards.MemberAwards(
				s.MemberStats(),
				s.ProposerPerformance(),
				s.Contrarians(),
				s.Agreement(),
			),
			Yearly: awards.YearlyAwards(summaries),
		}
	})
}

// TrendsReport bundles the time-based views served together.
type TrendsReport struct {
	Points     []analytics.TrendPoint   `json:"points"`
	Seasonal   []analytics.SeasonalStat `json:"seasonal"`
	Genres     []analytics.GenreCount   `json:"genres"`
	Attendance []analytics.Attendance   `json:"attendance"`
}

// Trends returns the rolling, seasonal, genre, and attendance views.
func (s *AnalyticsService) Trends() TrendsReport {
	return dataset.Memoize(s.memo, s.key("trends"), func() TrendsReport {
		summaries := s.Summary()
		return TrendsReport{
			Points:     s.analyzer.RatingTrends(summaries),
			Seasonal:   s.analyzer.SeasonalRatings(summaries),
			Genres:     s.analyzer.GenreDistribution(s.snapshot.Enrichment),
			Attendance: s.analyzer.AttendanceByBook(s.Ratings(), s.snapshot.Sessions),
		}
	})
}
