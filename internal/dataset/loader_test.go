package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bookpulse/internal/config"
)

func testClub() config.ClubConfig {
	return config.ClubConfig{
		Members: []config.MemberConfig{
			{Name: "Willy"}, {Name: "Bartel"}, {Name: "Josh"},
		},
		ProposerAliases: map[string]string{"Johnny": "Josh", "Wilson": "Willy"},
		DateFormat:      "01/02/2006",
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `Book,Date,Proposer,Willy - Likeability,Willy - Importance,Bartel - Likeability,Bartel - Importance,Josh - Likeability,Josh - Importance
  Dune ,03/14/2023,Wilson,4.5,3,2,4,,1
Blood Meridian,01/02/2023,Johnny,5,5,-1,2,3.5,4
The Trial,01/02/2023,Bartel,,,3,3,4,2
`

func newTestLoader(t *testing.T, sessionsFile string) *Loader {
	t.Helper()
	paths := config.PathsConfig{SessionsFile: sessionsFile}
	return NewLoader(paths, testClub(), nil)
}

func TestLoadSessions(t *testing.T) {
	loader := newTestLoader(t, writeCSV(t, sampleCSV))

	sessions, err := loader.LoadSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	// Chronological order with stable ties by sheet row order
	assert.Equal(t, "Blood Meridian", sessions[0].Book)
	assert.Equal(t, 1, sessions[0].Index)
	assert.Equal(t, "The Trial", sessions[1].Book)
	assert.Equal(t, 2, sessions[1].Index)
	assert.Equal(t, "Dune", sessions[2].Book)
	assert.Equal(t, 3, sessions[2].Index)

	// Title whitespace trimmed
	assert.Equal(t, "Dune", sessions[2].Book)
	assert.Equal(t, time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC), sessions[2].Date)

	// Proposer aliases canonicalized, unmapped names pass through
	assert.Equal(t, "Willy", sessions[2].Proposer)
	assert.Equal(t, "Josh", sessions[0].Proposer)
	assert.Equal(t, "Bartel", sessions[1].Proposer)

	// Partial and absent cells survive the loader untouched
	dune := sessions[2].Scores
	assert.True(t, dune["Willy"].Likeability.Valid)
	assert.Equal(t, 4.5, dune["Willy"].Likeability.Value)
	assert.False(t, dune["Josh"].Likeability.Valid)
	assert.True(t, dune["Josh"].Importance.Valid)

	// Negative ratings are valid and meaningful
	assert.Equal(t, -1.0, sessions[0].Scores["Bartel"].Likeability.Value)
}

func TestLoadSessions_Deterministic(t *testing.T) {
	loader := newTestLoader(t, writeCSV(t, sampleCSV))

	first, err := loader.LoadSessions(context.Background())
	require.NoError(t, err)
	second, err := loader.LoadSessions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadSessions_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "missing required column",
			csv:  "Book,Date\nDune,03/14/2023\n",
		},
		{
			name: "invalid date",
			csv:  "Book,Date,Proposer\nDune,not-a-date,Willy\n",
		},
		{
			name: "non-numeric rating",
			csv:  "Book,Date,Proposer,Willy - Likeability,Willy - Importance\nDune,03/14/2023,Willy,great,3\n",
		},
		{
			name: "only header",
			csv:  "Book,Date,Proposer\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t, writeCSV(t, tt.csv))

			_, err := loader.LoadSessions(context.Background())
			require.Error(t, err)

			var srcErr *DataSourceError
			assert.True(t, errors.As(err, &srcErr), "want *DataSourceError, got %T", err)
		})
	}
}

func TestLoadSessions_MissingFile(t *testing.T) {
	loader := newTestLoader(t, filepath.Join(t.TempDir(), "absent.csv"))

	_, err := loader.LoadSessions(context.Background())
	require.Error(t, err)

	var srcErr *DataSourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, "open", srcErr.Op)
}

func TestLoadSessions_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Book", "Date", "Proposer", "Willy - Likeability", "Willy - Importance"},
		{"Dune", "03/14/2023", "Wilson", 4.5, 3},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	loader := newTestLoader(t, path)
	sessions, err := loader.LoadSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	assert.Equal(t, "Dune", sessions[0].Book)
	assert.Equal(t, "Willy", sessions[0].Proposer)
	assert.Equal(t, 4.5, sessions[0].Scores["Willy"].Likeability.Value)
}

func TestLoadEnrichment(t *testing.T) {
	dir := t.TempDir()
	sessionsFile := writeCSV(t, sampleCSV)

	t.Run("absent store is empty, not an error", func(t *testing.T) {
		paths := config.PathsConfig{
			SessionsFile:   sessionsFile,
			EnrichmentFile: filepath.Join(dir, "absent.json"),
		}
		loader := NewLoader(paths, testClub(), nil)

		enrichment, err := loader.LoadEnrichment(context.Background())
		require.NoError(t, err)
		assert.Empty(t, enrichment)
	})

	t.Run("present store is parsed", func(t *testing.T) {
		storePath := filepath.Join(dir, "enrichment.json")
		store := `{"Dune": {"author": "Frank Herbert", "publication_year": 1965, "genres": ["Science Fiction"], "pages": 412}}`
		require.NoError(t, os.WriteFile(storePath, []byte(store), 0o644))

		paths := config.PathsConfig{SessionsFile: sessionsFile, EnrichmentFile: storePath}
		loader := NewLoader(paths, testClub(), nil)

		enrichment, err := loader.LoadEnrichment(context.Background())
		require.NoError(t, err)
		require.Contains(t, enrichment, "Dune")
		assert.Equal(t, "Frank Herbert", enrichment["Dune"].Author)
		assert.Equal(t, 1965, enrichment["Dune"].PublicationYear)
		assert.Equal(t, []string{"Science Fiction"}, enrichment["Dune"].Genres)

		// Unknown titles degrade to the zero value
		assert.Equal(t, BookEnrichment{}, enrichment["Unknown"])
	})

	t.Run("malformed store is an error", func(t *testing.T) {
		storePath := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(storePath, []byte("{nope"), 0o644))

		paths := config.PathsConfig{SessionsFile: sessionsFile, EnrichmentFile: storePath}
		loader := NewLoader(paths, testClub(), nil)

		_, err := loader.LoadEnrichment(context.Background())
		assert.Error(t, err)
	})
}

func TestLoadSnapshot_HashStability(t *testing.T) {
	loader := newTestLoader(t, writeCSV(t, sampleCSV))

	first, err := loader.LoadSnapshot(context.Background())
	require.NoError(t, err)
	second, err := loader.LoadSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, first.Sessions, second.Sessions)
	assert.Equal(t, []string{"Blood Meridian", "The Trial", "Dune"}, first.Books())
}
