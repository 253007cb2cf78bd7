// Command enrich refreshes the bibliographic metadata store from the public
// book APIs. It reads the same sessions source as the server, looks up every
// title that lacks a resolved entry, and rewrites the JSON store in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bookpulse/internal/config"
	"bookpulse/internal/dataset"
	"bookpulse/internal/enrich"
	"bookpulse/internal/infrastructure"
)

func main() {
	source := flag.String("source", "", "sessions file (defaults to the configured sessions path)")
	output := flag.String("output", "", "enrichment store to write (defaults to the configured enrichment path)")
	flag.Parse()

	if err := run(*source, *output); err != nil {
		slog.Error("enrichment failed", "error", err)
		os.Exit(1)
	}
}

func run(source, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if source != "" {
		cfg.Paths.SessionsFile = source
	}
	if output != "" {
		cfg.Paths.EnrichmentFile = output
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := dataset.NewLoader(cfg.Paths, cfg.Club, logger)
	sessions, err := loader.LoadSessions(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	titles := make([]string, 0, len(sessions))
	seen := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		if !seen[session.Book] {
			seen[session.Book] = true
			titles = append(titles, session.Book)
		}
	}

	existing, err := enrich.ReadStore(cfg.Paths.EnrichmentFile)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}

	logger.Info("starting enrichment",
		"titles", len(titles),
		"already_stored", len(existing),
		"output", cfg.Paths.EnrichmentFile,
	)

	client, err := enrich.NewClient(ctx, logger)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	store, err := enrich.NewProducer(client).Run(ctx, titles, existing)
	if err != nil {
		return err
	}

	if err := enrich.WriteStore(cfg.Paths.EnrichmentFile, store); err != nil {
		return err
	}

	logger.Info("enrichment complete", "entries", len(store))
	return nil
}
