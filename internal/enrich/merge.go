package enrich

import (
	"fmt"

	"bookpulse/internal/dataset"
)

const maxGenres = 5

// mergeResults combines the two API hits into one enrichment entry.
// Open Library wins the bibliographic fields; Google Books supplies the
// category list and description, which Open Library does poorly.
func mergeResults(title string, ol openLibraryDoc, gb googleBooksVolume) dataset.BookEnrichment {
	entry := dataset.BookEnrichment{FullTitle: title}

	if ol.Title != "" {
		entry.FullTitle = ol.Title
	} else if gb.Title != "" {
		entry.FullTitle = gb.Title
		if gb.Subtitle != "" {
			entry.FullTitle = gb.Title + ": " + gb.Subtitle
		}
	}

	if len(ol.AuthorName) > 0 {
		entry.Author = ol.AuthorName[0]
	} else if len(gb.Authors) > 0 {
		entry.Author = gb.Authors[0]
	}

	if ol.FirstPublishYear != 0 {
		entry.PublicationYear = ol.FirstPublishYear
	} else {
		entry.PublicationYear = gb.PublishedYear
	}

	if ol.NumberOfPagesMedian != 0 {
		entry.Pages = ol.NumberOfPagesMedian
	} else {
		entry.Pages = gb.PageCount
	}

	if len(ol.ISBN) > 0 {
		entry.ISBN = ol.ISBN[0]
	} else {
		entry.ISBN = gb.ISBN
	}

	if ol.CoverID != 0 {
		entry.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", ol.CoverID)
	}

	genres := gb.Categories
	if len(genres) == 0 {
		genres = ol.Subject
	}
	if len(genres) > maxGenres {
		genres = genres[:maxGenres]
	}
	entry.Genres = genres

	entry.PlotSummary = gb.Description

	return entry
}
