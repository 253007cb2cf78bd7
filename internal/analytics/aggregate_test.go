package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpulse/internal/dataset"
)

func TestBookSummary(t *testing.T) {
	a := NewAnalyzer(testRoster, nil)
	sessions := testSessions()
	ratings := a.RatingsLong(sessions)

	summaries := a.BookSummary(ratings, sessions)
	require.Len(t, summaries, 3)

	// Sorted by chronological index
	assert.Equal(t, []int{1, 2, 3}, []int{summaries[0].Index, summaries[1].Index, summaries[2].Index})

	dune := summaries[0]
	assert.Equal(t, "Dune", dune.Book)
	assert.Equal(t, 3, dune.NumRaters)
	assert.InDelta(t, 3.0, dune.AvgLikeability, 1e-9) // (5+3+1)/3
	assert.InDelta(t, 3.0, dune.AvgImportance, 1e-9)  // (4+3+2)/3
	assert.InDelta(t, 2.0, dune.StdLikeability, 1e-9) // sample std of {5,3,1}
	assert.Equal(t, "Willy", dune.Proposer)

	// num_raters always equals the count of long-form rows for the book
	counts := make(map[string]int)
	for _, r := range ratings {
		counts[r.Book]++
	}
	for _, s := range summaries {
		assert.Equal(t, counts[s.Book], s.NumRaters, s.Book)
	}
}

func TestBookSummary_SingleRaterStdIsZero(t *testing.T) {
	a := NewAnalyzer(testRoster, nil)
	sessions := []dataset.Session{
		session("X", 1, "Willy", map[string]dataset.MemberScores{
			"Willy": pair(4, 3),
		}),
	}
	ratings := a.RatingsLong(sessions)
	require.Len(t, ratings, 1)
	assert.Equal(t, Rating{
		Book: "X", Date: day(1), Proposer: "Willy", Index: 1,
		Member: "Willy", Likeability: 4, Importance: 3,
	}, ratings[0])

	summaries := a.BookSummary(ratings, sessions)
	require.Len(t, summaries, 1)

	x := summaries[0]
	assert.Equal(t, 1, x.NumRaters)
	assert.Equal(t, 4.0, x.AvgLikeability)
	assert.Equal(t, 0.0, x.StdLikeability, "single-rater std must be 0, not NaN")
	assert.Equal(t, 0.0, x.StdImportance)
	assert.False(t, math.IsNaN(x.StdLikeability))
}

func TestBookSummary_SkipsUnratedBooks(t *testing.T) {
	a := NewAnalyzer(testRoster, nil)
	sessions := []dataset.Session{
		session("Unrated", 1, "Willy", map[string]dataset.MemberScores{}),
		session("Rated", 2, "Josh", map[string]dataset.MemberScores{
			"Josh": pair(2, 2),
		}),
	}
	ratings := a.RatingsLong(sessions)

	summaries := a.BookSummary(ratings, sessions)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Rated", summaries[0].Book)
}

func TestMemberStats(t *testing.T) {
	a := NewAnalyzer(testRoster, nil)
	sessions := testSessions()
	ratings := a.RatingsLong(sessions)

	stats := a.MemberStats(ratings)
	require.Len(t, stats, 3)

	byMember := make(map[string]MemberStat)
	for _, s := range stats {
		byMember[s.Member] = s
	}

	// Willy rated likeability {5, 4, 3} across three books
	willy := byMember["Willy"]
	assert.Equal(t, 3, willy.BooksRated)
	assert.InDelta(t, 1.0, willy.AttendanceRate, 1e-9)
	assert.Equal(t, 3.0, willy.MinLikeability)
	assert.Equal(t, 5.0, willy.MaxLikeability)
	assert.Equal(t, 2.0, willy.RangeLikeability)

	// Josh's partial pair on The Trial does not count as attendance
	josh := byMember["Josh"]
	assert.Equal(t, 2, josh.BooksRated)
	assert.InDelta(t, 2.0/3.0, josh.AttendanceRate, 1e-9)
}

func TestMemberStats_RangeFromSpread(t *testing.T) {
	a := NewAnalyzer([]string{"Willy"}, nil)
	sessions := []dataset.Session{
		session("A", 1, "Willy", map[string]dataset.MemberScores{"Willy": pair(1, 1)}),
		session("B", 2, "Willy", map[string]dataset.MemberScores{"Willy": pair(3, 3)}),
		session("C", 3, "Willy", map[string]dataset.MemberScores{"Willy": pair(5, 5)}),
	}
	stats := a.MemberStats(a.RatingsLong(sessions))

	require.Len(t, stats, 1)
	assert.Equal(t, 1.0, stats[0].MinLikeability)
	assert.Equal(t, 5.0, stats[0].MaxLikeability)
	assert.Equal(t, 4.0, stats[0].RangeLikeability)
}

func TestMemberStats_OmitsZeroRatingMembers(t *testing.T) {
	a := NewAnalyzer(testRoster, nil)
	sessions := []dataset.Session{
		session("Dune", 1, "Willy", map[string]dataset.MemberScores{
			"Willy": pair(5, 4),
		}),
	}
	stats := a.MemberStats(a.RatingsLong(sessions))

	require.Len(t, stats, 1, "members with zero ratings are omitted, not zero-filled")
	assert.Equal(t, "Willy", stats[0].Member)
}

func TestBookControversy(t *testing.T) {
	a := NewAnalyzer(testRoster, nil)
	sessions := testSessions()
	summaries := a.BookSummary(a.RatingsLong(sessions), sessions)

	controversy := a.BookControversy(summaries)
	require.Len(t, controversy, 3)
	for i := 1; i < len(controversy); i++ {
		assert.GreaterOrEqual(t, controversy[i-1].StdLikeability, controversy[i].StdLikeability)
	}

	// Original order untouched
	assert.Equal(t, 1, summaries[0].Index)
}

func TestProposerPerformance(t *testing.T) {
	a := NewAnalyzer(testRoster, nil)
	sessions := testSessions()
	summaries := a.BookSummary(a.RatingsLong(sessions), sessions)

	performance := a.ProposerPerformance(summaries)
	require.Len(t, performance, 3)
	for i := 1; i < len(performance); i++ {
		assert.GreaterOrEqual(t, performance[i-1].AvgLikeability, performance[i].AvgLikeability)
	}

	byProposer := make(map[string]ProposerPerformance)
	for _, p := range performance {
		byProposer[p.Proposer] = p
	}
	assert.Equal(t, 1, byProposer["Willy"].BooksProposed)
	assert.InDelta(t, 3.0, byProposer["Willy"].AvgLikeability, 1e-9)
}
