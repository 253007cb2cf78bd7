package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"bookpulse/internal/config"
)

// Column name suffixes for per-member rating pairs, e.g. "Josh - Likeability".
const (
	likeabilitySuffix = " - Likeability"
	importanceSuffix  = " - Importance"
)

// Loader reads the session sheet and the optional enrichment store.
// The roster and alias map are injected at construction; the loader never
// infers membership from the sheet's columns.
type Loader struct {
	sessionsFile   string
	enrichmentFile string
	roster         []string
	aliases        map[string]string
	dateFormat     string
	logger         *slog.Logger
}

// NewLoader creates a loader for the configured data files.
func NewLoader(paths config.PathsConfig, club config.ClubConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		sessionsFile:   paths.SessionsFile,
		enrichmentFile: paths.EnrichmentFile,
		roster:         club.MemberNames(),
		aliases:        club.ProposerAliases,
		dateFormat:     club.DateFormat,
		logger:         logger,
	}
}

// LoadSnapshot loads sessions and enrichment together and stamps the result
// with a content hash of the source bytes, so identical inputs always yield
// a value-identical snapshot.
func (l *Loader) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	sessions, err := l.LoadSessions(ctx)
	if err != nil {
		return nil, err
	}

	enrichment, err := l.LoadEnrichment(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := l.contentHash()
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "snapshot loaded",
		"sessions", len(sessions),
		"enriched_books", len(enrichment),
		"hash", hash[:12],
	)

	return &Snapshot{Sessions: sessions, Enrichment: enrichment, Hash: hash}, nil
}

// LoadSessions reads the session sheet (.csv or .xlsx), canonicalizes
// proposer names through the alias map, trims book titles, and assigns the
// 1-based chronological index. Sessions are returned in chronological order.
//
// A missing or unparsable file is fatal and reported as *DataSourceError.
func (l *Loader) LoadSessions(ctx context.Context) ([]Session, error) {
	rows, err := l.readTable(l.sessionsFile)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, sourceError("parse", l.sessionsFile, fmt.Errorf("no data rows"))
	}

	header := rows[0]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Book", "Date", "Proposer"} {
		if _, ok := columns[required]; !ok {
			return nil, sourceError("parse", l.sessionsFile, fmt.Errorf("missing required column %q", required))
		}
	}

	sessions := make([]Session, 0, len(rows)-1)
	for rowNum, row := range rows[1:] {
		book := strings.TrimSpace(cell(row, columns["Book"]))
		if book == "" {
			continue // trailing blank rows are common in hand-maintained sheets
		}

		date, err := time.Parse(l.dateFormat, strings.TrimSpace(cell(row, columns["Date"])))
		if err != nil {
			return nil, sourceError("parse", l.sessionsFile,
				fmt.Errorf("row %d: invalid date %q: %w", rowNum+2, cell(row, columns["Date"]), err))
		}

		proposer := strings.TrimSpace(cell(row, columns["Proposer"]))
		if canonical, ok := l.aliases[proposer]; ok {
			proposer = canonical
		}

		scores := make(map[string]MemberScores, len(l.roster))
		for _, member := range l.roster {
			like, err := parseScore(cell(row, columnIndex(columns, member+likeabilitySuffix)))
			if err != nil {
				return nil, sourceError("parse", l.sessionsFile,
					fmt.Errorf("row %d: %s likeability: %w", rowNum+2, member, err))
			}
			imp, err := parseScore(cell(row, columnIndex(columns, member+importanceSuffix)))
			if err != nil {
				return nil, sourceError("parse", l.sessionsFile,
					fmt.Errorf("row %d: %s importance: %w", rowNum+2, member, err))
			}
			scores[member] = MemberScores{Likeability: like, Importance: imp}
		}

		sessions = append(sessions, Session{
			Book:     book,
			Date:     date,
			Proposer: proposer,
			Scores:   scores,
		})
	}

	if len(sessions) == 0 {
		return nil, sourceError("parse", l.sessionsFile, fmt.Errorf("no sessions found"))
	}

	// Chronological index: rank by date, ties broken by sheet row order.
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})
	for i := range sessions {
		sessions[i].Index = i + 1
	}

	l.logger.DebugContext(ctx, "sessions loaded",
		"file", l.sessionsFile,
		"count", len(sessions),
	)

	return sessions, nil
}

// LoadEnrichment reads the optional enrichment store. An absent file is not
// an error: enrichment is supplementary and everything degrades to empty.
func (l *Loader) LoadEnrichment(ctx context.Context) (map[string]BookEnrichment, error) {
	if l.enrichmentFile == "" {
		return map[string]BookEnrichment{}, nil
	}

	data, err := os.ReadFile(l.enrichmentFile)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.InfoContext(ctx, "enrichment store absent, continuing without it",
				"file", l.enrichmentFile)
			return map[string]BookEnrichment{}, nil
		}
		return nil, fmt.Errorf("read enrichment store: %w", err)
	}

	var enrichment map[string]BookEnrichment
	if err := json.Unmarshal(data, &enrichment); err != nil {
		return nil, fmt.Errorf("parse enrichment store %s: %w", l.enrichmentFile, err)
	}
	if enrichment == nil {
		enrichment = map[string]BookEnrichment{}
	}

	return enrichment, nil
}

// readTable reads the sheet into rows of string cells. CSV and XLSX exports
// of the same sheet are both accepted.
func (l *Loader) readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return l.readXLSX(path)
	default:
		return l.readCSV(path)
	}
}

func (l *Loader) readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceError("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // hand-maintained sheets have ragged rows

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, sourceError("parse", path, err)
	}
	return rows, nil
}

func (l *Loader) readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, sourceError("open", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, sourceError("parse", path, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, sourceError("parse", path, err)
	}
	return rows, nil
}

// contentHash hashes the raw bytes of both source files. The enrichment
// file may be absent; only its presence and content participate.
func (l *Loader) contentHash() (string, error) {
	h := sha256.New()

	data, err := os.ReadFile(l.sessionsFile)
	if err != nil {
		return "", sourceError("open", l.sessionsFile, err)
	}
	h.Write(data)

	if l.enrichmentFile != "" {
		if data, err := os.ReadFile(l.enrichmentFile); err == nil {
			h.Write(data)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// parseScore converts a sheet cell into a Score. Blank cells are absent;
// anything non-numeric makes the source unparsable.
func parseScore(raw string) (Score, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Score{}, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Score{}, fmt.Errorf("invalid rating value %q", raw)
	}
	return Score{Value: value, Valid: true}, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func columnIndex(columns map[string]int, name string) int {
	if idx, ok := columns[name]; ok {
		return idx
	}
	return -1
}
