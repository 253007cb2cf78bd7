package dataset

import (
	"time"
)

// Score holds a single rating value that may be absent in the source sheet.
type Score struct {
	Value float64
	Valid bool
}

// MemberScores holds one member's raw likeability/importance cells for a
// session. Either side may be absent; deciding what to do with partial
// pairs is the long-form transform's job, not the loader's.
type MemberScores struct {
	Likeability Score
	Importance  Score
}

// Session represents one book-discussion event: a book discussed on a date,
// proposed by one member, carrying whatever per-member scores the sheet has.
type Session struct {
	Book     string    `json:"book"`
	Date     time.Time `json:"date"`
	Proposer string    `json:"proposer"`

	// Index is the 1-based chronological index assigned at load time:
	// rank by date among all sessions, ties broken by sheet row order.
	Index int `json:"index"`

	Scores map[string]MemberScores `json:"-"`
}

// BookEnrichment holds externally sourced bibliographic metadata for one
// book, keyed in the store by exact book title. Every field is optional;
// a missing field is a zero value, never an error.
type BookEnrichment struct {
	FullTitle       string   `json:"full_title"`
	Author          string   `json:"author"`
	PublicationYear int      `json:"publication_year"`
	Genres          []string `json:"genres"`
	Pages           int      `json:"pages"`
	ISBN            string   `json:"isbn"`
	CoverURL        string   `json:"cover_url"`
	PlotSummary     string   `json:"plot_summary"`
	FunFacts        []string `json:"fun_facts"`
	Awards          []string `json:"awards"`
	Themes          []string `json:"themes"`
}

// Snapshot is the immutable pair of loaded sessions and enrichment plus a
// content hash of the source bytes. All derived tables are recomputed from
// a Snapshot; nothing downstream mutates it.
type Snapshot struct {
	Sessions   []Session
	Enrichment map[string]BookEnrichment
	Hash       string
}

// EnrichmentFor returns the enrichment entry for a book, or a zero value
// when the store has no matching title.
func (s *Snapshot) EnrichmentFor(book string) BookEnrichment {
	return s.Enrichment[book]
}

// Books returns all book titles in chronological order.
func (s *Snapshot) Books() []string {
	books := make([]string, len(s.Sessions))
	for i, sess := range s.Sessions {
		books[i] = sess.Book
	}
	return books
}
