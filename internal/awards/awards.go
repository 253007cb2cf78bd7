// Package awards derives superlatives from the aggregated statistics:
// extremal books and members under named composite scores. Everything here
// is simple argmax/argmin post-processing; ties go to the first occurrence
// in table order.
package awards

import (
	"fmt"
	"math"
	"sort"

	"bookpulse/internal/analytics"
)

// zeroLikeabilityEpsilon guards the sleeper ratio: books whose average
// likeability is this close to zero are excluded from the ranking rather
// than dividing by (nearly) nothing.
const zeroLikeabilityEpsilon = 1e-9

// Award is one named superlative with its recipient (a book title or a
// member name) and a short display detail.
type Award struct {
	Name      string  `json:"name"`
	Recipient string  `json:"recipient"`
	Detail    string  `json:"detail"`
	Score     float64 `json:"score"`
}

// Board is the full set of derived awards.
type Board struct {
	Books   []Award `json:"books"`
	Members []Award `json:"members"`
	Yearly  []Award `json:"yearly"`
}

// BookAwards derives the book superlatives from the summary table.
func BookAwards(summaries []analytics.BookSummary) []Award {
	if len(summaries) == 0 {
		return nil
	}

	var awards []Award
	add := func(name string, pick analytics.BookSummary, score float64, detail string) {
		awards = append(awards, Award{Name: name, Recipient: pick.Book, Score: score, Detail: detail})
	}

	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		return s.AvgLikeability, true
	}); ok {
		add("Most Loved", pick, score, fmt.Sprintf("Avg Likeability: %.2f", score))
	}

	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		return s.AvgImportance, true
	}); ok {
		add("Most Important", pick, score, fmt.Sprintf("Avg Importance: %.2f", score))
	}

	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		return (s.AvgLikeability + s.AvgImportance) / 2, true
	}); ok {
		add("Best Overall", pick, score, fmt.Sprintf("Combined Score: %.2f", score))
	}

	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		return s.StdLikeability, true
	}); ok {
		add("Most Polarizing", pick, score, fmt.Sprintf("Std Dev: %.2f", score))
	}

	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		return s.AvgLikeability - s.StdLikeability, true
	}); ok {
		add("Most Unanimously Loved", pick, score,
			fmt.Sprintf("Avg %.2f | Std %.2f", pick.AvgLikeability, pick.StdLikeability))
	}

	// Sleeper hit: importance outrunning likeability. Books with a
	// (near-)zero likeability denominator are excluded, never a crash.
	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		if math.Abs(s.AvgLikeability) < zeroLikeabilityEpsilon {
			return 0, false
		}
		return s.AvgImportance / s.AvgLikeability, true
	}); ok {
		add("Sleeper Hit", pick, score, fmt.Sprintf("Importance/Likeability: %.2f", score))
	}

	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		return s.AvgLikeability - s.AvgImportance, true
	}); ok {
		add("Guilty Pleasure", pick, score,
			fmt.Sprintf("Like %.2f | Imp %.2f", pick.AvgLikeability, pick.AvgImportance))
	}

	if pick, score, ok := argmax(summaries, func(s analytics.BookSummary) (float64, bool) {
		return -s.AvgLikeability, true
	}); ok {
		add("Ghost Fleet Award", pick, -score, fmt.Sprintf("Avg Likeability: %.2f", -score))
	}

	return awards
}

// MemberAwards derives the member superlatives from the member tables.
func MemberAwards(
	stats []analytics.MemberStat,
	performance []analytics.ProposerPerformance,
	contrarians []analytics.ContrarianScore,
	agreement []analytics.AgreementScore,
) []Award {
	var awards []Award

	// Performance, contrarian, and agreement tables arrive pre-sorted
	// with the winner first.
	if len(performance) > 0 {
		top := performance[0]
		awards = append(awards, Award{
			Name:      "MVP Proposer",
			Recipient: top.Proposer,
			Score:     top.AvgLikeability,
			Detail:    fmt.Sprintf("Avg Rating of Picks: %.2f", top.AvgLikeability),
		})
	}

	if pick, score, ok := argmax(stats, func(s analytics.MemberStat) (float64, bool) {
		return s.AvgLikeability, true
	}); ok {
		awards = append(awards, Award{
			Name:      "The Generous One",
			Recipient: pick.Member,
			Score:     score,
			Detail:    fmt.Sprintf("Avg Likeability Given: %.2f", score),
		})
	}

	if pick, score, ok := argmax(stats, func(s analytics.MemberStat) (float64, bool) {
		return -s.AvgLikeability, true
	}); ok {
		awards = append(awards, Award{
			Name:      "The Critic",
			Recipient: pick.Member,
			Score:     -score,
			Detail:    fmt.Sprintf("Avg Likeability Given: %.2f", -score),
		})
	}

	if pick, score, ok := argmax(stats, func(s analytics.MemberStat) (float64, bool) {
		return float64(s.BooksRated), true
	}); ok {
		awards = append(awards, Award{
			Name:      "Iron Liver",
			Recipient: pick.Member,
			Score:     score,
			Detail:    fmt.Sprintf("Books Rated: %d", int(score)),
		})
	}

	if len(contrarians) > 0 {
		top := contrarians[0]
		awards = append(awards, Award{
			Name:      "The Contrarian",
			Recipient: top.Member,
			Score:     top.ContrarianRate,
			Detail:    fmt.Sprintf("Contrarian Rate: %.0f%%", top.ContrarianRate*100),
		})
	}

	if len(agreement) > 0 {
		top := agreement[0]
		awards = append(awards, Award{
			Name:      "The Hivemind",
			Recipient: top.Member,
			Score:     top.AvgDeviation,
			Detail:    fmt.Sprintf("Avg Deviation: %.2f", top.AvgDeviation),
		})
	}

	if pick, score, ok := argmax(stats, func(s analytics.MemberStat) (float64, bool) {
		return s.RangeLikeability, true
	}); ok {
		awards = append(awards, Award{
			Name:      "Range King",
			Recipient: pick.Member,
			Score:     score,
			Detail:    fmt.Sprintf("Rating Range: %.1f", score),
		})
	}

	return awards
}

// YearlyAwards picks the highest-rated book of each calendar year, in
// year order.
func YearlyAwards(summaries []analytics.BookSummary) []Award {
	byYear := make(map[int][]analytics.BookSummary)
	var years []int
	for _, s := range summaries {
		year := s.Date.Year()
		if _, ok := byYear[year]; !ok {
			years = append(years, year)
		}
		byYear[year] = append(byYear[year], s)
	}
	sort.Ints(years)

	awards := make([]Award, 0, len(years))
	for _, year := range years {
		pick, score, ok := argmax(byYear[year], func(s analytics.BookSummary) (float64, bool) {
			return s.AvgLikeability, true
		})
		if !ok {
			continue
		}
		awards = append(awards, Award{
			Name:      fmt.Sprintf("Book of the Year %d", year),
			Recipient: pick.Book,
			Score:     score,
			Detail:    fmt.Sprintf("Avg Likeability: %.2f", score),
		})
	}

	return awards
}

// argmax returns the first row maximizing the score function. Rows for
// which the score function reports !ok are excluded from the ranking;
// ties keep the earliest row.
func argmax[T any](rows []T, score func(T) (float64, bool)) (T, float64, bool) {
	var best T
	bestScore := math.Inf(-1)
	found := false

	for _, row := range rows {
		s, ok := score(row)
		if !ok || math.IsNaN(s) {
			continue
		}
		if !found || s > bestScore {
			best = row
			bestScore = s
			found = true
		}
	}

	return best, bestScore, found
}
