package analytics

import (
	"math"
	"sort"
)

// ContrarianCutoff is the absolute deviation beyond which a rating counts
// as contrarian.
const ContrarianCutoff = 1.0

// MemberDeviationPerBook annotates every rating with its book's mean
// likeability and the signed deviation from it.
func (a *Analyzer) MemberDeviationPerBook(ratings []Rating) []RatingDeviation {
	avgs := bookLikeabilityMeans(ratings)

	deviations := make([]RatingDeviation, len(ratings))
	for i, r := range ratings {
		avg := avgs[r.Book]
		deviations[i] = RatingDeviation{
			Rating:    r,
			BookAvg:   avg,
			Deviation: r.Likeability - avg,
		}
	}
	return deviations
}

// HotTakes returns ratings whose absolute deviation from the book's mean
// likeability exceeds threshold, sorted descending by magnitude. A
// threshold of 0 returns every rating, which is how callers pick a top-N.
func (a *Analyzer) HotTakes(ratings []Rating, threshold float64) []HotTake {
	var takes []HotTake
	for _, d := range a.MemberDeviationPerBook(ratings) {
		absDev := math.Abs(d.Deviation)
		if threshold > 0 && absDev <= threshold {
			continue
		}
		takes = append(takes, HotTake{
			Book:         d.Book,
			Member:       d.Member,
			Likeability:  d.Likeability,
			BookAvg:      d.BookAvg,
			Deviation:    d.Deviation,
			AbsDeviation: absDev,
		})
	}

	sort.SliceStable(takes, func(i, j int) bool {
		return takes[i].AbsDeviation > takes[j].AbsDeviation
	})

	return takes
}

// ContrarianIndex computes, per member, the fraction of their ratings
// deviating more than ContrarianCutoff from the book's group mean. Sorted
// descending by rate.
func (a *Analyzer) ContrarianIndex(ratings []Rating) []ContrarianScore {
	counts := make(map[string]*ContrarianScore)
	for _, d := range a.MemberDeviationPerBook(ratings) {
		score, ok := counts[d.Member]
		if !ok {
			score = &ContrarianScore{Member: d.Member}
			counts[d.Member] = score
		}
		score.TotalRated++
		if math.Abs(d.Deviation) > ContrarianCutoff {
			score.ContrarianCount++
		}
	}

	scores := make([]ContrarianScore, 0, len(counts))
	for _, member := range a.roster {
		score, ok := counts[member]
		if !ok {
			continue
		}
		score.ContrarianRate = float64(score.ContrarianCount) / float64(score.TotalRated)
		scores = append(scores, *score)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].ContrarianRate > scores[j].ContrarianRate
	})

	return scores
}

// AgreementScores computes each member's mean absolute deviation from the
// group mean of every book they rated, sorted ascending: lower means the
// member tracks consensus more closely.
func (a *Analyzer) AgreementScores(ratings []Rating) []AgreementScore {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, d := range a.MemberDeviationPerBook(ratings) {
		sums[d.Member] += math.Abs(d.Deviation)
		counts[d.Member]++
	}

	scores := make([]AgreementScore, 0, len(sums))
	for _, member := range a.roster {
		count, ok := counts[member]
		if !ok {
			continue
		}
		scores = append(scores, AgreementScore{
			Member:       member,
			AvgDeviation: sums[member] / float64(count),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].AvgDeviation < scores[j].AvgDeviation
	})

	return scores
}

// HivemindIndex is AgreementScores viewed from the opposite framing: the
// lowest average deviation is the strongest hivemind. Same computation,
// second semantic name.
func (a *Analyzer) HivemindIndex(ratings []Rating) []AgreementScore {
	return a.AgreementScores(ratings)
}

// ProposerBiases restricts to ratings where the rater is also the book's
// proposer and compares their own rating against the group mean, which
// includes the proposer themselves. Bias is own minus group mean, sorted
// descending.
func (a *Analyzer) ProposerBiases(ratings []Rating) []ProposerBias {
	avgs := bookLikeabilityMeans(ratings)

	type acc struct {
		own   []float64
		group []float64
	}
	byMember := make(map[string]*acc)
	for _, r := range ratings {
		if r.Member != r.Proposer {
			continue
		}
		entry, ok := byMember[r.Member]
		if !ok {
			entry = &acc{}
			byMember[r.Member] = entry
		}
		entry.own = append(entry.own, r.Likeability)
		entry.group = append(entry.group, avgs[r.Book])
	}

	biases := make([]ProposerBias, 0, len(byMember))
	for _, member := range a.roster {
		entry, ok := byMember[member]
		if !ok {
			continue
		}
		own := mean(entry.own)
		group := mean(entry.group)
		biases = append(biases, ProposerBias{
			Member:    member,
			OwnRating: own,
			GroupAvg:  group,
			Books:     len(entry.own),
			Bias:      own - group,
		})
	}

	sort.SliceStable(biases, func(i, j int) bool {
		return biases[i].Bias > biases[j].Bias
	})

	return biases
}

// bookLikeabilityMeans computes the group mean likeability per book.
func bookLikeabilityMeans(ratings []Rating) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range ratings {
		sums[r.Book] += r.Likeability
		counts[r.Book]++
	}

	avgs := make(map[string]float64, len(sums))
	for book, sum := range sums {
		avgs[book] = sum / float64(counts[book])
	}
	return avgs
}
