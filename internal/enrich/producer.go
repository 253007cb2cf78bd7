package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bookpulse/internal/dataset"
)

// Producer walks a list of book titles, looks up metadata for the ones
// not already enriched, and writes the resulting JSON store.
type Producer struct {
	client *Client
}

// NewProducer creates a Producer around an enrichment client.
func NewProducer(client *Client) *Producer {
	return &Producer{client: client}
}

// Run enriches every title and returns the merged store. Entries already
// present with a resolved ISBN are kept untouched; everything else is
// looked up fresh. Titles are processed sequentially so the client's rate
// limiter governs the overall request pace.
func (p *Producer) Run(ctx context.Context, titles []string, existing map[string]dataset.BookEnrichment) (map[string]dataset.BookEnrichment, error) {
	store := make(map[string]dataset.BookEnrichment, len(titles))
	for title, entry := range existing {
		store[title] = entry
	}

	for _, title := range titles {
		if entry, ok := store[title]; ok && entry.ISBN != "" {
			p.client.logger.DebugContext(ctx, "already enriched", "title", title)
			continue
		}

		entry, err := p.client.Lookup(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("enrich %q: %w", title, err)
		}
		store[title] = entry
		p.client.logger.InfoContext(ctx, "enriched book",
			"title", title,
			"author", entry.Author,
			"isbn", entry.ISBN,
		)
	}

	return store, nil
}

// WriteStore writes the enrichment store as indented JSON, creating the
// parent directory if needed.
func WriteStore(path string, store map[string]dataset.BookEnrichment) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encode enrichment store: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write enrichment store: %w", err)
	}
	return nil
}

// ReadStore reads an existing enrichment store. A missing file returns an
// empty store so a first run starts from nothing.
func ReadStore(path string) (map[string]dataset.BookEnrichment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]dataset.BookEnrichment{}, nil
		}
		return nil, fmt.Errorf("read enrichment store: %w", err)
	}

	var store map[string]dataset.BookEnrichment
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("decode enrichment store: %w", err)
	}
	if store == nil {
		store = map[string]dataset.BookEnrichment{}
	}
	return store, nil
}
