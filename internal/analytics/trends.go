package analytics

import (
	"sort"
	"time"

	"bookpulse/internal/dataset"
)

// rollingWindow is the number of recent sessions the trend lines average over.
const rollingWindow = 3

// RatingTrends returns book summaries in date order with trailing rolling
// means of both axes. The window shrinks at the start rather than
// producing empty leading points.
func (a *Analyzer) RatingTrends(summaries []BookSummary) []TrendPoint {
	ordered := make([]BookSummary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	points := make([]TrendPoint, len(ordered))
	for i, s := range ordered {
		start := i - rollingWindow + 1
		if start < 0 {
			start = 0
		}
		var likes, imps []float64
		for _, w := range ordered[start : i+1] {
			likes = append(likes, w.AvgLikeability)
			imps = append(imps, w.AvgImportance)
		}
		points[i] = TrendPoint{
			BookSummary:        s,
			RollingLikeability: mean(likes),
			RollingImportance:  mean(imps),
		}
	}

	return points
}

// SeasonalRatings aggregates book summaries by calendar month, averaging
// the per-book mean likeability. Sorted by month number.
func (a *Analyzer) SeasonalRatings(summaries []BookSummary) []SeasonalStat {
	likes := make(map[time.Month][]float64)
	for _, s := range summaries {
		month := s.Date.Month()
		likes[month] = append(likes[month], s.AvgLikeability)
	}

	stats := make([]SeasonalStat, 0, len(likes))
	for month := time.January; month <= time.December; month++ {
		values, ok := likes[month]
		if !ok {
			continue
		}
		stats = append(stats, SeasonalStat{
			Month:          int(month),
			MonthName:      month.String(),
			AvgLikeability: mean(values),
			Count:          len(values),
		})
	}

	return stats
}

// GenreDistribution counts genre tags across the enrichment store, sorted
// descending by count with alphabetical ties for determinism.
func (a *Analyzer) GenreDistribution(enrichment map[string]dataset.BookEnrichment) []GenreCount {
	counts := make(map[string]int)
	for _, book := range enrichment {
		for _, genre := range book.Genres {
			counts[genre]++
		}
	}

	genres := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		genres = append(genres, GenreCount{Genre: genre, Count: count})
	}

	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Genre < genres[j].Genre
	})

	return genres
}

// AttendanceByBook reports, for every rated book in chronological order
// and every roster member, whether that member rated it.
func (a *Analyzer) AttendanceByBook(ratings []Rating, sessions []dataset.Session) []Attendance {
	rated := make(map[string]map[string]bool)
	for _, r := range ratings {
		if rated[r.Book] == nil {
			rated[r.Book] = make(map[string]bool)
		}
		rated[r.Book][r.Member] = true
	}

	var attendance []Attendance
	for _, session := range sessions {
		members, ok := rated[session.Book]
		if !ok {
			continue
		}
		for _, member := range a.roster {
			attendance = append(attendance, Attendance{
				Book:   session.Book,
				Member: member,
				Rated:  members[member],
			})
		}
	}

	return attendance
}
