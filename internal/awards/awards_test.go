package awards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpulse/internal/analytics"
)

func summary(book string, year int, avgLike, avgImp, stdLike float64) analytics.BookSummary {
	return analytics.BookSummary{
		Book:           book,
		Date:           time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC),
		AvgLikeability: avgLike,
		AvgImportance:  avgImp,
		StdLikeability: stdLike,
	}
}

func findAward(t *testing.T, awards []Award, name string) Award {
	t.Helper()
	for _, a := range awards {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("award %q not found", name)
	return Award{}
}

func TestBookAwards(t *testing.T) {
	summaries := []analytics.BookSummary{
		summary("Beloved", 2022, 4.8, 4.0, 0.2),
		summary("Divider", 2022, 3.0, 4.5, 2.1),
		summary("Candy", 2023, 4.0, 1.5, 0.5),
		summary("Homework", 2023, 1.5, 4.2, 0.3),
	}

	awards := BookAwards(summaries)

	assert.Equal(t, "Beloved", findAward(t, awards, "Most Loved").Recipient)
	assert.Equal(t, "Divider", findAward(t, awards, "Most Important").Recipient)
	assert.Equal(t, "Beloved", findAward(t, awards, "Best Overall").Recipient)
	assert.Equal(t, "Divider", findAward(t, awards, "Most Polarizing").Recipient)
	assert.Equal(t, "Beloved", findAward(t, awards, "Most Unanimously Loved").Recipient)
	assert.Equal(t, "Homework", findAward(t, awards, "Sleeper Hit").Recipient)
	assert.Equal(t, "Candy", findAward(t, awards, "Guilty Pleasure").Recipient)
	assert.Equal(t, "Homework", findAward(t, awards, "Ghost Fleet Award").Recipient)
}

func TestBookAwards_SleeperExcludesZeroLikeability(t *testing.T) {
	summaries := []analytics.BookSummary{
		summary("Zeroed", 2022, 0, 5.0, 0),
		summary("Normal", 2022, 2.0, 3.0, 0),
	}

	awards := BookAwards(summaries)
	sleeper := findAward(t, awards, "Sleeper Hit")

	// A zero denominator is excluded from the ranking, never a crash
	assert.Equal(t, "Normal", sleeper.Recipient)
	assert.InDelta(t, 1.5, sleeper.Score, 1e-9)
}

func TestBookAwards_TieKeepsFirstOccurrence(t *testing.T) {
	summaries := []analytics.BookSummary{
		summary("First", 2022, 4.0, 1, 0),
		summary("Second", 2022, 4.0, 1, 0),
	}

	awards := BookAwards(summaries)
	assert.Equal(t, "First", findAward(t, awards, "Most Loved").Recipient)
}

func TestBookAwards_Empty(t *testing.T) {
	assert.Nil(t, BookAwards(nil))
}

func TestMemberAwards(t *testing.T) {
	stats := []analytics.MemberStat{
		{Member: "Willy", BooksRated: 12, AvgLikeability: 4.2, RangeLikeability: 2.0},
		{Member: "Bartel", BooksRated: 9, AvgLikeability: 2.1, RangeLikeability: 5.5},
		{Member: "Josh", BooksRated: 15, AvgLikeability: 3.3, RangeLikeability: 3.0},
	}
	performance := []analytics.ProposerPerformance{
		{Proposer: "Josh", BooksProposed: 4, AvgLikeability: 4.4},
		{Proposer: "Willy", BooksProposed: 5, AvgLikeability: 3.2},
	}
	contrarians := []analytics.ContrarianScore{
		{Member: "Bartel", ContrarianRate: 0.44},
		{Member: "Josh", ContrarianRate: 0.10},
	}
	agreement := []analytics.AgreementScore{
		{Member: "Willy", AvgDeviation: 0.4},
		{Member: "Bartel", AvgDeviation: 1.3},
	}

	awards := MemberAwards(stats, performance, contrarians, agreement)

	assert.Equal(t, "Josh", findAward(t, awards, "MVP Proposer").Recipient)
	assert.Equal(t, "Willy", findAward(t, awards, "The Generous One").Recipient)
	assert.Equal(t, "Bartel", findAward(t, awards, "The Critic").Recipient)
	assert.Equal(t, "Josh", findAward(t, awards, "Iron Liver").Recipient)
	assert.Equal(t, "Bartel", findAward(t, awards, "The Contrarian").Recipient)
	assert.Equal(t, "Willy", findAward(t, awards, "The Hivemind").Recipient)
	assert.Equal(t, "Bartel", findAward(t, awards, "Range King").Recipient)
}

func TestMemberAwards_EmptyTables(t *testing.T) {
	awards := MemberAwards(nil, nil, nil, nil)
	assert.Empty(t, awards)
}

func TestYearlyAwards(t *testing.T) {
	summaries := []analytics.BookSummary{
		summary("A", 2022, 3.0, 0, 0),
		summary("B", 2022, 4.5, 0, 0),
		summary("C", 2023, 2.0, 0, 0),
	}

	awards := YearlyAwards(summaries)
	require.Len(t, awards, 2)

	assert.Equal(t, "Book of the Year 2022", awards[0].Name)
	assert.Equal(t, "B", awards[0].Recipient)
	assert.Equal(t, "Book of the Year 2023", awards[1].Name)
	assert.Equal(t, "C", awards[1].Recipient)
}
