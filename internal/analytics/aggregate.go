package analytics

import (
	"sort"

	"bookpulse/internal/dataset"
)

// BookSummary groups ratings by book and computes mean and sample standard
// deviation of both axes plus a rater count, joined with the session
// metadata. Rows are sorted by chronological index. Books nobody rated do
// not appear.
func (a *Analyzer) BookSummary(ratings []Rating, sessions []dataset.Session) []BookSummary {
	byBook := make(map[string][]Rating)
	for _, r := range ratings {
		byBook[r.Book] = append(byBook[r.Book], r)
	}

	summaries := make([]BookSummary, 0, len(byBook))
	for _, session := range sessions {
		bookRatings, ok := byBook[session.Book]
		if !ok {
			continue
		}

		likes := make([]float64, len(bookRatings))
		imps := make([]float64, len(bookRatings))
		for i, r := range bookRatings {
			likes[i] = r.Likeability
			imps[i] = r.Importance
		}

		summaries = append(summaries, BookSummary{
			Book:           session.Book,
			Date:           session.Date,
			Proposer:       session.Proposer,
			Index:          session.Index,
			AvgLikeability: mean(likes),
			AvgImportance:  mean(imps),
			StdLikeability: sampleStd(likes),
			StdImportance:  sampleStd(imps),
			NumRaters:      len(bookRatings),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Index < summaries[j].Index
	})

	return summaries
}

// MemberStats computes per-member rating statistics in roster order.
// Attendance rate is ratings given over distinct books with any rating.
// Members with zero ratings are omitted, not zero-filled; callers must
// handle absence explicitly.
func (a *Analyzer) MemberStats(ratings []Rating) []MemberStat {
	distinctBooks := make(map[string]bool)
	byMember := make(map[string][]Rating)
	for _, r := range ratings {
		distinctBooks[r.Book] = true
		byMember[r.Member] = append(byMember[r.Member], r)
	}
	totalBooks := len(distinctBooks)

	stats := make([]MemberStat, 0, len(a.roster))
	for _, member := range a.roster {
		memberRatings := byMember[member]
		if len(memberRatings) == 0 {
			continue
		}

		likes := make([]float64, len(memberRatings))
		imps := make([]float64, len(memberRatings))
		for i, r := range memberRatings {
			likes[i] = r.Likeability
			imps[i] = r.Importance
		}

		minLike, maxLike := minMax(likes)
		minImp, maxImp := minMax(imps)

		stats = append(stats, MemberStat{
			Member:           member,
			BooksRated:       len(memberRatings),
			AttendanceRate:   float64(len(memberRatings)) / float64(totalBooks),
			AvgLikeability:   mean(likes),
			AvgImportance:    mean(imps),
			StdLikeability:   sampleStd(likes),
			StdImportance:    sampleStd(imps),
			MinLikeability:   minLike,
			MaxLikeability:   maxLike,
			RangeLikeability: maxLike - minLike,
			MinImportance:    minImp,
			MaxImportance:    maxImp,
			RangeImportance:  maxImp - minImp,
		})
	}

	return stats
}

// BookControversy returns the book summaries resorted by likeability
// standard deviation, most polarizing first.
func (a *Analyzer) BookControversy(summaries []BookSummary) []BookSummary {
	controversy := make([]BookSummary, len(summaries))
	copy(controversy, summaries)
	sort.SliceStable(controversy, func(i, j int) bool {
		return controversy[i].StdLikeability > controversy[j].StdLikeability
	})
	return controversy
}

// ProposerPerformance aggregates book summaries per proposer: how many
// books they proposed and how the group received them on average. Sorted
// descending by average likeability.
func (a *Analyzer) ProposerPerformance(summaries []BookSummary) []ProposerPerformance {
	type acc struct {
		books int
		likes []float64
		imps  []float64
	}
	byProposer := make(map[string]*acc)
	var order []string
	for _, s := range summaries {
		entry, ok := byProposer[s.Proposer]
		if !ok {
			entry = &acc{}
			byProposer[s.Proposer] = entry
			order = append(order, s.Proposer)
		}
		entry.books++
		entry.likes = append(entry.likes, s.AvgLikeability)
		entry.imps = append(entry.imps, s.AvgImportance)
	}

	performance := make([]ProposerPerformance, 0, len(byProposer))
	for _, proposer := range order {
		entry := byProposer[proposer]
		performance = append(performance, ProposerPerformance{
			Proposer:       proposer,
			BooksProposed:  entry.books,
			AvgLikeability: mean(entry.likes),
			AvgImportance:  mean(entry.imps),
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].AvgLikeability > performance[j].AvgLikeability
	})

	return performance
}

func minMax(values []float64) (float64, float64) {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}
